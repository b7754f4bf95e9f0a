// Package praise produces congratulatory messages for tasks completed before
// their deadline.
package praise

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"
)

// TextGenerator abstracts the external text-generation service.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Praise sources.
const (
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
)

// Praise is the outcome of one praise request. Source tells the caller whether
// the text came from the generation service or from the local fallback list,
// and Reason carries the failure that forced the fallback.
type Praise struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Reason string `json:"-"`
}

// FallbackMessages is the canned praise pool used whenever generation fails.
var FallbackMessages = []string{
	"Amazing! That is some flawless work!",
	"You did it! Keep this momentum going!",
	"Impressive. Laziness clearly has no hold on you.",
	"Well done. Finishing early, as expected of you!",
}

type Service struct {
	gen    TextGenerator
	logger *zap.Logger
	pick   func(n int) int
}

func New(gen TextGenerator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gen:    gen,
		logger: logger,
		pick:   rand.Intn,
	}
}

// ForTask returns a praise message for the completed task. It never fails:
// any generation problem degrades to a uniformly chosen fallback message.
func (s *Service) ForTask(ctx context.Context, taskTitle string) Praise {
	if s.gen == nil {
		return s.fallback("no text generator configured")
	}

	prompt := fmt.Sprintf(
		"You are a relentlessly positive assistant. The user just completed the task %q before its deadline. "+
			"Write one short, enthusiastic sentence of praise, with an emoji or two.",
		taskTitle,
	)

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("praise generation failed", zap.String("task", taskTitle), zap.Error(err))
		return s.fallback(err.Error())
	}
	if text == "" {
		return s.fallback("empty completion")
	}
	return Praise{Text: text, Source: SourceGenerated}
}

func (s *Service) fallback(reason string) Praise {
	return Praise{
		Text:   FallbackMessages[s.pick(len(FallbackMessages))],
		Source: SourceFallback,
		Reason: reason,
	}
}
