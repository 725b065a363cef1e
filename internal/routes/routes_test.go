package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/repair-jobcards/internal/audit"
	"github.com/BruksfildServices01/repair-jobcards/internal/cache"
	"github.com/BruksfildServices01/repair-jobcards/internal/config"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/document"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/notification"
	infraRepo "github.com/BruksfildServices01/repair-jobcards/internal/infra/repository"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
	ucStaff "github.com/BruksfildServices01/repair-jobcards/internal/usecase/staff"
)

const jwtSecret = "routes-test-secret"

type fakeDocs struct{}

func (fakeDocs) DeviceSheet(_ context.Context, s document.DeviceSheet) (*document.Document, error) {
	return &document.Document{
		Name:        document.DeviceSheetName(s.JobCardID),
		ContentType: document.ContentTypePDF,
		Content:     []byte("%PDF-1.4 sheet"),
	}, nil
}

func (fakeDocs) Invoice(context.Context, document.Invoice) (*document.Document, error) {
	return &document.Document{ContentType: document.ContentTypePDF, Content: []byte("%PDF-1.4 invoice")}, nil
}

type switchSender struct {
	mu   sync.Mutex
	fail bool
}

func (s *switchSender) setFail(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = v
}

func (s *switchSender) Send(context.Context, notification.Message) (*notification.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("smtp unavailable")
	}
	return &notification.Receipt{MessageID: "msg"}, nil
}

type env struct {
	r      *gin.Engine
	repo   *infraRepo.MemoryRepository
	sender *switchSender
	tokens map[string]string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWTSecret = jwtSecret
	cfg.JWTTTL = time.Hour
	cfg.Timezone = "Africa/Nairobi"
	cfg.TaxRate = "0.16"
	cfg.Currency = "KES"
	cfg.CacheTTL = time.Minute

	repo := infraRepo.NewMemoryRepository()
	sender := &switchSender{}

	r := gin.New()
	RegisterRoutes(r, Dependencies{
		Config:   cfg,
		Log:      zap.NewNop(),
		Intake:   repo,
		JobCards: repo,
		Staff:    repo,
		Audit:    audit.NewMemoryStore(),
		Cache:    cache.NewMemory(time.Minute, time.Minute),
		Docs:     fakeDocs{},
		Sender:   sender,
	})

	issuer := ucStaff.NewTokenIssuer(jwtSecret, time.Hour)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	tokens := map[string]string{}
	for _, role := range []string{"admin", "receptionist", "technician", "pricing"} {
		u := &models.User{Name: role, Email: role + "@shop.test", PasswordHash: string(hash), Role: role}
		require.NoError(t, repo.CreateUser(context.Background(), u))
		tok, err := issuer.Issue(u)
		require.NoError(t, err)
		tokens[role] = tok
	}

	return &env{r: r, repo: repo, sender: sender, tokens: tokens}
}

func (e *env) call(method, path, role string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+e.tokens[role])
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func intakeBody(phone, serial string) map[string]any {
	return map[string]any{
		"client": map[string]any{
			"name":    "Amina Otieno",
			"email":   "amina@example.com",
			"phone":   phone,
			"address": "Moi Avenue, Nairobi",
		},
		"device": map[string]any{
			"serial_number":   serial,
			"model":           "XPS 13",
			"brand":           "Dell",
			"storage":         map[string]any{"type": "ssd", "serial": "ST-1"},
			"memory":          map[string]any{"type": "lpddr4", "onboard": true},
			"battery":         map[string]any{"type": "li-ion", "serial": "BT-1"},
			"adapter":         map[string]any{"type": "65w", "serial": "AD-1"},
			"warranty_status": "out_of_warranty",
		},
		"problem_description": "Does not power on",
	}
}

type intakeResponse struct {
	ClientReused bool `json:"client_reused"`
	JobCard      struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	} `json:"job_card"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func TestHealthAndAuth(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, http.StatusOK, e.call(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, e.call(http.MethodGet, "/api/jobcards", "", nil).Code)

	w := e.call(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ADMIN@shop.test", "password": "secret-pass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)
	assert.NotEmpty(t, login.Token)

	w = e.call(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@shop.test", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.call(http.MethodGet, "/api/me", "technician", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"technician"`)
}

func TestStaffRegistrationIsAdminOnly(t *testing.T) {
	e := newEnv(t)
	reg := map[string]string{"name": "Joseph", "email": "joseph@shop.test", "password": "long-enough", "role": "technician"}

	assert.Equal(t, http.StatusForbidden, e.call(http.MethodPost, "/api/staff", "receptionist", reg).Code)

	w := e.call(http.MethodPost, "/api/staff", "admin", reg)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")

	// mesmo e-mail de novo
	assert.Equal(t, http.StatusConflict, e.call(http.MethodPost, "/api/staff", "admin", reg).Code)
}

func TestFullWorkflow(t *testing.T) {
	e := newEnv(t)

	// ---------- intake ----------
	w := e.call(http.MethodPost, "/api/intake", "receptionist", intakeBody("0712 345 678", "SN-FLOW"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created intakeResponse
	decode(t, w, &created)
	require.NotZero(t, created.JobCard.ID)
	assert.Equal(t, "pending", created.JobCard.Status)

	base := "/api/jobcards/" + strconv.FormatUint(uint64(created.JobCard.ID), 10)

	// lookups acham o que o intake gravou
	w = e.call(http.MethodGet, "/api/clients/lookup?phone=0712-345-678", "receptionist", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"found":true`)
	w = e.call(http.MethodGet, "/api/devices/lookup?serial=SN-UNKNOWN", "receptionist", nil)
	assert.Contains(t, w.Body.String(), `"found":false`)

	// técnicos não abrem intake
	assert.Equal(t, http.StatusForbidden, e.call(http.MethodPost, "/api/intake", "technician", intakeBody("0799", "SN-X")).Code)

	// ---------- diagnostic + approval ----------
	w = e.call(http.MethodPut, base+"/diagnostic", "receptionist", map[string]string{"diagnostic": "Failed VRM"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.call(http.MethodPost, base+"/transition", "receptionist", map[string]string{"to": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// pular direto para completed não é permitido
	w = e.call(http.MethodPost, base+"/transition", "technician", map[string]string{"to": "completed"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_transition")

	w = e.call(http.MethodPost, base+"/transition", "technician", map[string]string{"to": "pricing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// ---------- pricing queue ----------
	w = e.call(http.MethodGet, "/api/jobcards?status=pricing", "pricing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var queue struct {
		Total int `json:"total"`
	}
	decode(t, w, &queue)
	assert.Equal(t, 1, queue.Total)

	// ---------- invoice ----------
	invoice := map[string]any{
		"items":     []map[string]any{{"type": "service", "description": "Board repair", "price": "100"}},
		"apply_tax": true,
	}

	assert.Equal(t, http.StatusForbidden, e.call(http.MethodPost, "/api/invoices/quote", "receptionist", invoice).Code)

	w = e.call(http.MethodPost, "/api/invoices/quote", "pricing", invoice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":"116"`)

	w = e.call(http.MethodPost, base+"/invoice", "pricing", invoice, "Accept", document.ContentTypePDF)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, document.ContentTypePDF, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), document.InvoiceName(created.JobCard.ID))
	assert.Equal(t, "%PDF-1.4 invoice", w.Body.String())

	w = e.call(http.MethodGet, base, "technician", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"completed"`)

	// terminal
	w = e.call(http.MethodPost, base+"/transition", "admin", map[string]string{"to": "pricing"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// resend precisa bater com o custo gravado
	w = e.call(http.MethodPost, base+"/invoice/resend", "pricing", invoice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	wrong := map[string]any{"items": []map[string]any{{"type": "service", "price": 1}}}
	w = e.call(http.MethodPost, base+"/invoice/resend", "pricing", wrong)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invoice_total_mismatch")

	// ---------- summary + audit ----------
	w = e.call(http.MethodGet, "/api/jobcards/summary", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Dell":1`)

	assert.Equal(t, http.StatusForbidden, e.call(http.MethodGet, "/api/audit-logs", "receptionist", nil).Code)
	w = e.call(http.MethodGet, "/api/audit-logs?entity=job_card&limit=5", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs struct {
		Total int64 `json:"total"`
		Limit int   `json:"limit"`
	}
	decode(t, w, &logs)
	assert.Greater(t, logs.Total, int64(3))
	assert.Equal(t, 5, logs.Limit)
}

func TestIntakePartialFailureAndRetry(t *testing.T) {
	e := newEnv(t)
	e.sender.setFail(true)

	w := e.call(http.MethodPost, "/api/intake", "receptionist", intakeBody("0722000111", "SN-PARTIAL"))
	require.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())
	assert.Equal(t, "client_notification", w.Header().Get("X-Failed-Steps"))

	var body struct {
		Code        string         `json:"error_code"`
		FailedSteps []string       `json:"failed_steps"`
		Result      intakeResponse `json:"result"`
	}
	decode(t, w, &body)
	assert.Equal(t, "downstream_failure", body.Code)
	assert.Equal(t, []string{"client_notification"}, body.FailedSteps)
	require.NotZero(t, body.Result.JobCard.ID)

	// o job ficou gravado
	path := "/api/jobcards/" + strconv.FormatUint(uint64(body.Result.JobCard.ID), 10)
	assert.Equal(t, http.StatusOK, e.call(http.MethodGet, path, "receptionist", nil).Code)

	// segundo intake com o mesmo telefone reaproveita o cliente
	e.sender.setFail(false)
	w = e.call(http.MethodPost, "/api/intake", "receptionist", intakeBody("0722-000-111", "SN-PARTIAL-2"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var again intakeResponse
	decode(t, w, &again)
	assert.True(t, again.ClientReused)

	w = e.call(http.MethodPost, path+"/retry/client_notification", "receptionist", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.call(http.MethodPost, path+"/retry/invoice_document", "receptionist", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntakeValidationWritesNothing(t *testing.T) {
	e := newEnv(t)

	body := intakeBody("0733444555", "SN-BAD")
	body["device"].(map[string]any)["warranty_status"] = "lifetime"

	w := e.call(http.MethodPost, "/api/intake", "receptionist", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_warranty_status")

	w = e.call(http.MethodGet, "/api/clients/lookup?phone=0733444555", "receptionist", nil)
	assert.Contains(t, w.Body.String(), `"found":false`)
}

func TestBadIDsAndFilters(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, http.StatusBadRequest, e.call(http.MethodGet, "/api/jobcards/abc", "admin", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.call(http.MethodGet, "/api/jobcards/999999", "admin", nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.call(http.MethodGet, "/api/jobcards?status=lost", "admin", nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.call(http.MethodGet, "/api/jobcards?technician_id=-1", "admin", nil).Code)
}
