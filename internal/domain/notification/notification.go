package notification

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/document"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

type Message struct {
	To          string               `json:"to"`
	Subject     string               `json:"subject"`
	Body        string               `json:"body"`
	Attachments []*document.Document `json:"-"`
}

type Receipt struct {
	MessageID string `json:"message_id"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) (*Receipt, error)
}

// ======================================================
// Mensagens padrão
// ======================================================

func IntakeMessage(client models.Client, device models.Device, jobCardID uint) Message {
	return Message{
		To:      client.Email,
		Subject: fmt.Sprintf("Job card #%d received", jobCardID),
		Body: fmt.Sprintf(
			"Hello %s,\n\nWe have received your %s %s (serial %s) under job card #%d. We will keep you posted on its progress.",
			client.Name, device.Brand, device.Model, device.SerialNumber, jobCardID,
		),
	}
}

func InvoiceMessage(client models.Client, jobCardID uint, total, currency string) Message {
	return Message{
		To:      client.Email,
		Subject: fmt.Sprintf("Invoice for job card #%d", jobCardID),
		Body: fmt.Sprintf(
			"Hello %s,\n\nYour repair is complete. The total for job card #%d is %s %s. The invoice is attached.",
			client.Name, jobCardID, currency, total,
		),
	}
}
