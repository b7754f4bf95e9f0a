// Package discord posts punishment notices to a Discord-compatible webhook.
// Delivery is strictly fire-and-forget: the task state machine never depends
// on the outcome, so failures are reported in the result and nowhere else.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/socialguillotine/backend/domain"
)

const (
	defaultTimeout = 10 * time.Second
	embedColor     = 0xE74C3C // red
	botUsername    = "Social Guillotine"
)

// Delivery is the outcome of a single webhook dispatch.
type Delivery struct {
	Delivered bool
	Reason    string
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields"`
}

type webhookPayload struct {
	Username string  `json:"username"`
	Embeds   []embed `json:"embeds"`
}

// Webhook dispatches punishment notices. A zero URL makes every send a no-op.
type Webhook struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewWebhook(url string, logger *zap.Logger) *Webhook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Webhook{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

// NotifyPunishment posts the broken commitment and its penalty. It never
// returns an error; the caller reads the Delivery result if it cares.
func (w *Webhook) NotifyPunishment(ctx context.Context, task domain.Task) Delivery {
	if w == nil || w.url == "" {
		return Delivery{Delivered: false, Reason: "webhook not configured"}
	}

	payload := webhookPayload{
		Username: botUsername,
		Embeds: []embed{{
			Title:       "⚔️ Deadline missed",
			Description: "A commitment was broken. The penalty is now public.",
			Color:       embedColor,
			Fields: []embedField{
				{Name: "Broken commitment", Value: task.Title, Inline: false},
				{Name: "Enforced penalty", Value: task.PenaltyText, Inline: false},
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Delivery{Delivered: false, Reason: fmt.Sprintf("marshal payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return Delivery{Delivered: false, Reason: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		w.logger.Warn("webhook dispatch failed", zap.Error(err))
		return Delivery{Delivered: false, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		reason := fmt.Sprintf("unexpected status %d", resp.StatusCode)
		w.logger.Warn("webhook dispatch rejected", zap.Int("status", resp.StatusCode))
		return Delivery{Delivered: false, Reason: reason}
	}
	return Delivery{Delivered: true}
}
