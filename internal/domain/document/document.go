package document

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/pricing"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

const ContentTypePDF = "application/pdf"

// Document is a rendered file returned by the generator.
type Document struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`

	// preenchido quando o arquivo foi arquivado
	ArchiveKey string `json:"archive_key,omitempty"`
}

// DeviceSheet is the intake receipt: client, device and the reported problem.
type DeviceSheet struct {
	JobCardID          uint          `json:"job_card_id"`
	Client             models.Client `json:"client"`
	Device             models.Device `json:"device"`
	ProblemDescription string        `json:"problem_description"`
	Status             string        `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
}

type Invoice struct {
	JobCardID  uint               `json:"job_card_id"`
	Client     models.Client      `json:"client"`
	Device     models.Device      `json:"device"`
	Diagnostic string             `json:"diagnostic"`
	Items      []pricing.LineItem `json:"items"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	Tax        decimal.Decimal    `json:"tax"`
	Total      decimal.Decimal    `json:"total"`
	Currency   string             `json:"currency"`
	IssuedAt   time.Time          `json:"issued_at"`
}

type Generator interface {
	DeviceSheet(ctx context.Context, sheet DeviceSheet) (*Document, error)
	Invoice(ctx context.Context, invoice Invoice) (*Document, error)
}

// Archive stores rendered documents; Put returns the object key.
type Archive interface {
	Put(ctx context.Context, jobCardID uint, doc *Document) (string, error)
}
