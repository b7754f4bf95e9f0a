package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialguillotine/backend/domain"
)

func TestNotifyPunishmentNotConfigured(t *testing.T) {
	w := NewWebhook("", nil)

	got := w.NotifyPunishment(context.Background(), domain.Task{Title: "missed"})

	assert.False(t, got.Delivered)
	assert.Equal(t, "webhook not configured", got.Reason)
}

func TestNotifyPunishmentDelivers(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		rw.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	w := NewWebhook(server.URL, nil)
	got := w.NotifyPunishment(context.Background(), domain.Task{
		Title:       "finish the deck",
		PenaltyText: "buy everyone coffee",
	})

	assert.True(t, got.Delivered)
	assert.Equal(t, botUsername, received.Username)
	require.Len(t, received.Embeds, 1)
	require.Len(t, received.Embeds[0].Fields, 2)
	assert.Equal(t, "finish the deck", received.Embeds[0].Fields[0].Value)
	assert.Equal(t, "buy everyone coffee", received.Embeds[0].Fields[1].Value)
}

func TestNotifyPunishmentRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	w := NewWebhook(server.URL, nil)
	got := w.NotifyPunishment(context.Background(), domain.Task{Title: "missed"})

	assert.False(t, got.Delivered)
	assert.Contains(t, got.Reason, "429")
}

func TestNotifyPunishmentUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {}))
	server.Close() // closed on purpose

	w := NewWebhook(server.URL, nil)
	got := w.NotifyPunishment(context.Background(), domain.Task{Title: "missed"})

	assert.False(t, got.Delivered)
	assert.NotEmpty(t, got.Reason)
}
