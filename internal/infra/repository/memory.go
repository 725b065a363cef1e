package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/intake"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/staff"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
)

// MemoryRepository keeps every table in process memory. It enforces the same
// unique keys and conditional writes as the postgres schema and backs
// STORAGE_DRIVER=memory and the tests.
type MemoryRepository struct {
	mu sync.Mutex

	clients  map[uint]models.Client
	devices  map[uint]models.Device
	jobCards map[uint]models.JobCard
	users    map[uint]models.User

	nextID uint
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		clients:  map[uint]models.Client{},
		devices:  map[uint]models.Device{},
		jobCards: map[uint]models.JobCard{},
		users:    map[uint]models.User{},
		now:      time.Now,
	}
}

func (m *MemoryRepository) id() uint {
	m.nextID++
	return m.nextID
}

func key(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// --------------------------------------------------
// Client / Device
// --------------------------------------------------

func (m *MemoryRepository) FindClientByPhone(
	_ context.Context,
	phone string,
) (intake.Lookup[models.Client], error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.clients {
		if c.Phone == phone {
			found := c
			return intake.Found(&found), nil
		}
	}
	return intake.NotFound[models.Client](), nil
}

func (m *MemoryRepository) CreateClient(_ context.Context, client *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.clients {
		if c.Phone == client.Phone {
			return httperr.ErrConflict("client", client.Phone, nil)
		}
	}

	client.ID = m.id()
	client.CreatedAt = m.now()
	client.UpdatedAt = client.CreatedAt
	m.clients[client.ID] = *client
	return nil
}

func (m *MemoryRepository) GetClient(_ context.Context, id uint) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, httperr.ErrNotFound("client", key(id))
	}
	return &c, nil
}

func (m *MemoryRepository) FindDeviceBySerial(
	_ context.Context,
	serial string,
) (intake.Lookup[models.Device], error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.devices {
		if d.SerialNumber == serial {
			found := d
			return intake.Found(&found), nil
		}
	}
	return intake.NotFound[models.Device](), nil
}

func (m *MemoryRepository) CreateDevice(_ context.Context, device *models.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[device.ClientID]; !ok {
		return httperr.ErrNotFound("client", key(device.ClientID))
	}
	for _, d := range m.devices {
		if d.SerialNumber == device.SerialNumber {
			return httperr.ErrConflict("device", device.SerialNumber, nil)
		}
	}

	device.ID = m.id()
	device.CreatedAt = m.now()
	device.UpdatedAt = device.CreatedAt
	stored := *device
	stored.Client = models.Client{}
	m.devices[device.ID] = stored
	return nil
}

// --------------------------------------------------
// Job card
// --------------------------------------------------

func (m *MemoryRepository) CreateJobCard(_ context.Context, job *models.JobCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.devices[job.DeviceID]; !ok {
		return httperr.ErrNotFound("device", key(job.DeviceID))
	}
	if job.Status == "" {
		job.Status = string(jobcard.StatusPending)
	}

	job.ID = m.id()
	job.CreatedAt = m.now()
	job.UpdatedAt = job.CreatedAt
	stored := *job
	stored.Device = models.Device{}
	m.jobCards[job.ID] = stored
	return nil
}

func (m *MemoryRepository) GetJobCard(_ context.Context, id uint) (*models.JobCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobCards[id]
	if !ok {
		return nil, httperr.ErrNotFound("job_card", key(id))
	}
	return cloneJob(job), nil
}

func (m *MemoryRepository) GetJobCardDetails(_ context.Context, id uint) (*models.JobCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobCards[id]
	if !ok {
		return nil, httperr.ErrNotFound("job_card", key(id))
	}
	return m.withDevice(job), nil
}

func (m *MemoryRepository) ListJobCards(
	_ context.Context,
	filter jobcard.ListFilter,
) ([]models.JobCard, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.JobCard, 0, len(m.jobCards))
	for _, job := range m.jobCards {
		if filter.Status != nil && job.Status != string(*filter.Status) {
			continue
		}
		if filter.TechnicianID != nil &&
			(job.AssignedTechnicianID == nil || *job.AssignedTechnicianID != *filter.TechnicianID) {
			continue
		}
		out = append(out, *m.withDevice(job))
	}

	// mais recentes primeiro, igual ao ORDER BY do postgres
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) Summarize(_ context.Context) (*jobcard.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	statusCounts := map[string]int64{}
	brandCounts := map[string]int64{}
	for _, job := range m.jobCards {
		statusCounts[job.Status]++
		brandCounts[m.devices[job.DeviceID].Brand]++
	}

	var byStatus, byBrand []groupCount
	for k, v := range statusCounts {
		byStatus = append(byStatus, groupCount{Key: k, Count: v})
	}
	for k, v := range brandCounts {
		byBrand = append(byBrand, groupCount{Key: k, Count: v})
	}
	return buildSummary(byStatus, byBrand), nil
}

func (m *MemoryRepository) CompareAndSetStatus(
	_ context.Context,
	id uint,
	change jobcard.StatusChange,
) (bool, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobCards[id]
	if !ok || job.Status != string(change.From) {
		return false, nil
	}
	if change.RequireDiagnostic && !job.HasDiagnostic() {
		return false, nil
	}

	job.Status = string(change.To)
	if change.Cost != nil {
		job.Cost.Decimal = *change.Cost
		job.Cost.Valid = true
	}
	if change.CompletedAt != nil {
		at := *change.CompletedAt
		job.CompletedAt = &at
	}
	// mesmo CHECK do banco: custo presente se e somente se concluído
	if (job.Status == string(jobcard.StatusCompleted)) != job.Cost.Valid {
		return false, httperr.ErrValidation("invoice_required", "cost", "cost must be set together with completed")
	}

	job.UpdatedAt = m.now()
	m.jobCards[id] = job
	return true, nil
}

func (m *MemoryRepository) UpdateDiagnostic(
	_ context.Context,
	id uint,
	diagnostic *string,
	editable []jobcard.Status,
) (bool, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobCards[id]
	if !ok {
		return false, nil
	}

	allowed := false
	for _, s := range editable {
		if job.Status == string(s) {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}

	if diagnostic != nil {
		d := *diagnostic
		job.Diagnostic = &d
	} else {
		job.Diagnostic = nil
	}
	job.UpdatedAt = m.now()
	m.jobCards[id] = job
	return true, nil
}

func (m *MemoryRepository) withDevice(job models.JobCard) *models.JobCard {
	out := cloneJob(job)
	device := m.devices[job.DeviceID]
	device.Client = m.clients[device.ClientID]
	out.Device = device
	return out
}

func cloneJob(job models.JobCard) *models.JobCard {
	out := job
	if job.Diagnostic != nil {
		d := *job.Diagnostic
		out.Diagnostic = &d
	}
	if job.AssignedTechnicianID != nil {
		t := *job.AssignedTechnicianID
		out.AssignedTechnicianID = &t
	}
	if job.CompletedAt != nil {
		at := *job.CompletedAt
		out.CompletedAt = &at
	}
	return &out
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (m *MemoryRepository) GetUser(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, httperr.ErrNotFound("user", key(id))
	}
	return &u, nil
}

func (m *MemoryRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, httperr.ErrNotFound("user", email)
}

func (m *MemoryRepository) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return httperr.ErrConflict("user", user.Email, nil)
		}
	}

	user.ID = m.id()
	user.CreatedAt = m.now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryRepository) CountUsers(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

var (
	_ intake.Repository  = (*MemoryRepository)(nil)
	_ jobcard.Repository = (*MemoryRepository)(nil)
	_ staff.Repository   = (*MemoryRepository)(nil)
)
