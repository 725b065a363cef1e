package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/document"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/notification"
)

func TestHTTPSenderSend(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message_id":"m-42"}`))
	}))
	defer srv.Close()

	s := NewHTTPSender(HTTPConfig{BaseURL: srv.URL, From: "shop@example.com"}, zap.NewNop())
	receipt, err := s.Send(context.Background(), notification.Message{
		To:      "jane@example.com",
		Subject: "Invoice",
		Body:    "attached",
		Attachments: []*document.Document{
			{Name: "jobcard-1-invoice.pdf", ContentType: document.ContentTypePDF, Content: []byte("%PDF")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "m-42", receipt.MessageID)
	assert.Equal(t, "shop@example.com", got.From)
	assert.Equal(t, "jane@example.com", got.To)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, []byte("%PDF"), got.Attachments[0].Content)
}

func TestHTTPSenderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewHTTPSender(HTTPConfig{BaseURL: srv.URL}, zap.NewNop())

	_, err := s.Send(context.Background(), notification.Message{To: "jane@example.com"})
	assert.ErrorContains(t, err, "status 503")

	_, err = s.Send(context.Background(), notification.Message{})
	assert.ErrorContains(t, err, "no recipient")
}
