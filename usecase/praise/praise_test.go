package praise

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeGenerator struct {
	text string
	err  error
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.text, g.err
}

func TestForTaskGenerated(t *testing.T) {
	svc := New(&fakeGenerator{text: "Incredible work! 🎉"}, nil)

	got := svc.ForTask(context.Background(), "ship the release")

	assert.Equal(t, SourceGenerated, got.Source)
	assert.Equal(t, "Incredible work! 🎉", got.Text)
	assert.Empty(t, got.Reason)
}

func TestForTaskFallsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  TextGenerator
	}{
		{name: "no generator", gen: nil},
		{name: "generation error", gen: &fakeGenerator{err: errors.New("boom")}},
		{name: "empty completion", gen: &fakeGenerator{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(tt.gen, nil)

			got := svc.ForTask(context.Background(), "write the report")

			assert.Equal(t, SourceFallback, got.Source)
			assert.Contains(t, FallbackMessages, got.Text)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestForTaskFallbackCoversPool(t *testing.T) {
	svc := New(nil, nil)

	// Drive the picker through every index to prove each canned message is
	// reachable.
	for i := range FallbackMessages {
		idx := i
		svc.pick = func(n int) int { return idx }
		got := svc.ForTask(context.Background(), "anything")
		assert.Equal(t, FallbackMessages[idx], got.Text)
	}
}
