package intake

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/document"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/notification"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

// SideEffects renders the device sheet and notifies the client. Each call
// maps a collaborator error to a DownstreamFailure with its step name.
type SideEffects struct {
	docs    document.Generator
	archive document.Archive
	sender  notification.Sender
	log     *zap.Logger
}

// NewSideEffects aceita archive nil (arquivamento desligado).
func NewSideEffects(
	docs document.Generator,
	archive document.Archive,
	sender notification.Sender,
	log *zap.Logger,
) *SideEffects {
	if log == nil {
		log = zap.NewNop()
	}
	return &SideEffects{docs: docs, archive: archive, sender: sender, log: log}
}

func (s *SideEffects) DeviceSheet(
	ctx context.Context,
	client models.Client,
	device models.Device,
	job *models.JobCard,
) (*document.Document, error) {

	doc, err := s.docs.DeviceSheet(ctx, document.DeviceSheet{
		JobCardID:          job.ID,
		Client:             client,
		Device:             device,
		ProblemDescription: job.ProblemDescription,
		Status:             job.Status,
		CreatedAt:          job.CreatedAt,
	})
	if err != nil {
		return nil, httperr.ErrDownstream(httperr.StepDeviceDocument, job.ID, err)
	}
	if doc.Name == "" {
		doc.Name = document.DeviceSheetName(job.ID)
	}

	s.archiveBestEffort(ctx, job.ID, doc)
	return doc, nil
}

func (s *SideEffects) NotifyClient(
	ctx context.Context,
	client models.Client,
	device models.Device,
	jobCardID uint,
	attachment *document.Document,
) (*notification.Receipt, error) {

	msg := notification.IntakeMessage(client, device, jobCardID)
	if attachment != nil {
		msg.Attachments = []*document.Document{attachment}
	}

	receipt, err := s.sender.Send(ctx, msg)
	if err != nil {
		return nil, httperr.ErrDownstream(httperr.StepClientNotification, jobCardID, err)
	}
	return receipt, nil
}

func (s *SideEffects) archiveBestEffort(ctx context.Context, jobCardID uint, doc *document.Document) {
	if s.archive == nil {
		return
	}
	key, err := s.archive.Put(ctx, jobCardID, doc)
	if err != nil {
		s.log.Warn("document archive failed",
			zap.Uint("job_card_id", jobCardID),
			zap.String("document", doc.Name),
			zap.Error(err),
		)
		return
	}
	doc.ArchiveKey = key
}
