package intake

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/document"
	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/intake"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/notification"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

type fakeDocs struct {
	mu     sync.Mutex
	fail   error
	sheets []document.DeviceSheet
}

func (f *fakeDocs) DeviceSheet(_ context.Context, s document.DeviceSheet) (*document.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	f.sheets = append(f.sheets, s)
	return &document.Document{
		Name:        document.DeviceSheetName(s.JobCardID),
		ContentType: document.ContentTypePDF,
		Content:     []byte("%PDF-1.4 sheet"),
	}, nil
}

func (f *fakeDocs) Invoice(context.Context, document.Invoice) (*document.Document, error) {
	return &document.Document{Content: []byte("%PDF-1.4 invoice")}, nil
}

type fakeSender struct {
	mu   sync.Mutex
	fail error
	sent []notification.Message
}

func (f *fakeSender) Send(_ context.Context, msg notification.Message) (*notification.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	f.sent = append(f.sent, msg)
	return &notification.Receipt{MessageID: "msg-1"}, nil
}

type fakeArchive struct {
	fail error
	keys []string
}

func (f *fakeArchive) Put(_ context.Context, jobCardID uint, doc *document.Document) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	key := "jobcards/" + doc.Name
	f.keys = append(f.keys, key)
	return key, nil
}

// racyRepo misses the first client lookup, like a request that lost the
// race between its lookup and its insert.
type racyRepo struct {
	domain.Repository
	mu      sync.Mutex
	skipped bool
}

func (r *racyRepo) FindClientByPhone(ctx context.Context, phone string) (domain.Lookup[models.Client], error) {
	r.mu.Lock()
	first := !r.skipped
	r.skipped = true
	r.mu.Unlock()

	if first {
		return domain.NotFound[models.Client](), nil
	}
	return r.Repository.FindClientByPhone(ctx, phone)
}
