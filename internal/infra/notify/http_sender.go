package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/notification"
)

type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	From       string
	Timeout    time.Duration
	RetryCount int
}

type attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"` // base64 no JSON
}

type sendRequest struct {
	From        string       `json:"from,omitempty"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Attachments []attachment `json:"attachments,omitempty"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
}

// HTTPSender posts messages to the email service.
type HTTPSender struct {
	client *resty.Client
	from   string
	log    *zap.Logger
}

func NewHTTPSender(cfg HTTPConfig, log *zap.Logger) *HTTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &HTTPSender{client: client, from: cfg.From, log: log}
}

func (s *HTTPSender) Send(ctx context.Context, msg notification.Message) (*notification.Receipt, error) {
	if msg.To == "" {
		return nil, fmt.Errorf("email service: message has no recipient")
	}

	req := sendRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
	}
	for _, a := range msg.Attachments {
		if a == nil {
			continue
		}
		req.Attachments = append(req.Attachments, attachment{
			Filename:    a.Name,
			ContentType: a.ContentType,
			Content:     a.Content,
		})
	}

	var out sendResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/messages")
	if err != nil {
		s.log.Error("email service call failed", zap.String("to", msg.To), zap.Error(err))
		return nil, fmt.Errorf("email service: %w", err)
	}
	if resp.IsError() {
		s.log.Error("email service returned error",
			zap.String("to", msg.To),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("email service: status %d", resp.StatusCode())
	}

	s.log.Info("email sent", zap.String("to", msg.To), zap.String("message_id", out.MessageID))
	return &notification.Receipt{MessageID: out.MessageID}, nil
}

var _ notification.Sender = (*HTTPSender)(nil)
