package audit

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

type Filter struct {
	Action   string
	Entity   string
	EntityID *uint
	From     *time.Time
	To       *time.Time

	Limit  int
	Offset int
}

// Store persists audit rows.
type Store interface {
	Save(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error)
}

func encodeMetadata(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}

// ======================================================
// GORM
// ======================================================

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Save(ctx context.Context, entry *models.AuditLog) error {
	return l.db.WithContext(ctx).Create(entry).Error
}

func (l *Logger) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	q := l.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.EntityID != nil {
		q = q.Where("entity_id = ?", *f.EntityID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var logs []models.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// ======================================================
// Memória (STORAGE_DRIVER=memory)
// ======================================================

type MemoryStore struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.ID = uint(len(m.entries) + 1)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MemoryStore) List(_ context.Context, f Filter) ([]models.AuditLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.AuditLog
	for _, e := range m.entries {
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.Entity != "" && e.Entity != f.Entity {
			continue
		}
		if f.EntityID != nil && (e.EntityID == nil || *e.EntityID != *f.EntityID) {
			continue
		}
		if f.From != nil && e.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !e.CreatedAt.Before(*f.To) {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []models.AuditLog{}, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}
