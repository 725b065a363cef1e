package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/repair-jobcards/internal/domain/staff"
	"github.com/BruksfildServices01/repair-jobcards/internal/httperr"
	"github.com/BruksfildServices01/repair-jobcards/internal/httpresp"
	ucStaff "github.com/BruksfildServices01/repair-jobcards/internal/usecase/staff"
)

type AuthHandler struct {
	auth     *ucStaff.Authenticate
	register *ucStaff.Register
	repo     domain.Repository
}

func NewAuthHandler(auth *ucStaff.Authenticate, register *ucStaff.Register, repo domain.Repository) *AuthHandler {
	return &AuthHandler{auth: auth, register: register, repo: repo}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.auth.Execute(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ucStaff.ErrInvalidCredentials) {
			httperr.Unauthorized(c, "invalid_credentials", "invalid email or password")
			return
		}
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, res)
}

// POST /staff (admin)
func (h *AuthHandler) Register(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req domain.Registration
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.register.Execute(c.Request.Context(), req, actor)
	if err != nil {
		if httperr.IsValidation(err, "staff_forbidden") {
			httperr.Forbidden(c, "staff_forbidden", err.Error())
			return
		}
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	user, err := h.repo.GetUser(c.Request.Context(), actor.UserID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"user": user})
}
