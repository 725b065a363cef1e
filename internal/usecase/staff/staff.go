package staff

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/repair-jobcards/internal/audit"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/staff"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/models"
	"github.com/BruksfildServices01/repair-jobcards/internal/validators"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ======================================================
// Register (admin)
// ======================================================

type Register struct {
	repo        domain.Repository
	audit       *audit.Dispatcher
	checkDomain bool
}

func NewRegister(repo domain.Repository, audit *audit.Dispatcher, checkDomain bool) *Register {
	return &Register{repo: repo, audit: audit, checkDomain: checkDomain}
}

func (uc *Register) Execute(
	ctx context.Context,
	reg domain.Registration,
	actor jobcard.Actor,
) (*models.User, error) {

	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if err := domain.CanRegister(actor); err != nil {
		return nil, err
	}

	role, err := reg.Validate()
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(reg.Email))
	if uc.checkDomain && !validators.IsEmailDomainValid(email) {
		return nil, httperr.ErrValidation("invalid_email_domain", "email", "email domain does not resolve")
	}

	hashed, err := hashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(reg.Name),
		Email:        email,
		PasswordHash: hashed,
		Phone:        strings.TrimSpace(reg.Phone),
		Role:         string(role),
	}
	if err := uc.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &actor.UserID,
		Role:     string(actor.Role),
		Action:   audit.ActionStaffRegistered,
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]string{"role": user.Role},
	})

	return user, nil
}

// ======================================================
// Authenticate
// ======================================================

type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type Authenticate struct {
	repo   domain.Repository
	tokens *TokenIssuer
}

func NewAuthenticate(repo domain.Repository, tokens *TokenIssuer) *Authenticate {
	return &Authenticate{repo: repo, tokens: tokens}
}

func (uc *Authenticate) Execute(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := uc.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

// ======================================================
// EnsureAdmin (bootstrap)
// ======================================================

// EnsureAdmin creates the first admin when the staff table is empty.
type EnsureAdmin struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewEnsureAdmin(repo domain.Repository, log *zap.Logger) *EnsureAdmin {
	if log == nil {
		log = zap.NewNop()
	}
	return &EnsureAdmin{repo: repo, log: log}
}

func (uc *EnsureAdmin) Execute(ctx context.Context, name, email, password string) (*models.User, error) {
	n, err := uc.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, nil
	}

	if email == "" || password == "" {
		uc.log.Warn("staff table is empty and no bootstrap admin is configured")
		return nil, nil
	}

	reg := domain.Registration{Name: name, Email: email, Password: password, Role: string(jobcard.RoleAdmin)}
	if _, err := reg.Validate(); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hashed,
		Role:         string(jobcard.RoleAdmin),
	}
	if err := uc.repo.CreateUser(ctx, user); err != nil {
		if httperr.IsConflict(err) {
			return nil, nil
		}
		return nil, err
	}

	uc.log.Info("bootstrap admin created", zap.String("email", user.Email))
	return user, nil
}
