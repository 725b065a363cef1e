package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/document"
)

type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RetryCount int
}

// HTTPGenerator renders documents through the PDF service.
// POST /documents/device-sheet and /documents/invoice return the rendered file.
type HTTPGenerator struct {
	client *resty.Client
	log    *zap.Logger
}

func NewHTTPGenerator(cfg HTTPConfig, log *zap.Logger) *HTTPGenerator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", document.ContentTypePDF)

	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &HTTPGenerator{client: client, log: log}
}

func (g *HTTPGenerator) DeviceSheet(ctx context.Context, sheet document.DeviceSheet) (*document.Document, error) {
	return g.render(ctx, "/documents/device-sheet", sheet, document.DeviceSheetName(sheet.JobCardID))
}

func (g *HTTPGenerator) Invoice(ctx context.Context, invoice document.Invoice) (*document.Document, error) {
	return g.render(ctx, "/documents/invoice", invoice, document.InvoiceName(invoice.JobCardID))
}

func (g *HTTPGenerator) render(ctx context.Context, path string, payload any, name string) (*document.Document, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(path)
	if err != nil {
		g.log.Error("document service call failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("document service %s: %w", path, err)
	}

	if resp.IsError() {
		g.log.Error("document service returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("document service %s: status %d", path, resp.StatusCode())
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("document service %s: empty document", path)
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = document.ContentTypePDF
	}

	return &document.Document{
		Name:        name,
		ContentType: contentType,
		Content:     body,
	}, nil
}

var _ document.Generator = (*HTTPGenerator)(nil)
