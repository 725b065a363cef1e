package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/repair-jobcards/internal/audit"
	"github.com/BruksfildServices01/repair-jobcards/internal/cache"
	"github.com/BruksfildServices01/repair-jobcards/internal/config"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/document"
	intakeDomain "github.com/BruksfildServices01/repair-jobcards/internal/domain/intake"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/notification"
	"github.com/BruksfildServices01/repair-jobcards/internal/domain/pricing"
	staffDomain "github.com/BruksfildServices01/repair-jobcards/internal/domain/staff"
	"github.com/BruksfildServices01/repair-jobcards/internal/handlers"
	"github.com/BruksfildServices01/repair-jobcards/internal/middleware"
	"github.com/BruksfildServices01/repair-jobcards/internal/timezone"
	ucIntake "github.com/BruksfildServices01/repair-jobcards/internal/usecase/intake"
	ucJobCard "github.com/BruksfildServices01/repair-jobcards/internal/usecase/jobcard"
	ucStaff "github.com/BruksfildServices01/repair-jobcards/internal/usecase/staff"
)

// Dependencies são as portas já construídas (gorm ou memória, http ou fake).
type Dependencies struct {
	Config *config.Config
	Log    *zap.Logger

	Intake   intakeDomain.Repository
	JobCards jobcard.Repository
	Staff    staffDomain.Repository
	Audit    audit.Store
	Cache    cache.Store

	Docs    document.Generator
	Archive document.Archive // nil = sem arquivamento
	Sender  notification.Sender
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	auditDispatcher := audit.NewDispatcher(deps.Audit, log)
	clock := timezone.Clock(cfg.Timezone)

	jobDeps := ucJobCard.Deps{
		Repo:  deps.JobCards,
		Audit: auditDispatcher,
		Cache: deps.Cache,
		Log:   log,
		Now:   clock,
	}

	invoicing := ucJobCard.Invoicing{
		Calc:     pricing.NewCalculator(cfg.TaxRateDecimal()),
		Docs:     deps.Docs,
		Archive:  deps.Archive,
		Sender:   deps.Sender,
		Currency: cfg.Currency,
	}

	// ======================================================
	// 🧠 USE CASES: INTAKE
	// ======================================================
	resolver := ucIntake.NewResolver(deps.Intake)
	effects := ucIntake.NewSideEffects(deps.Docs, deps.Archive, deps.Sender, log)

	createJobCardUC := ucIntake.NewCreateJobCard(
		deps.JobCards,
		deps.Staff,
		auditDispatcher,
		deps.Cache,
		log,
	)

	intakeUC := ucIntake.NewIntake(resolver, createJobCardUC, effects, auditDispatcher)
	retryUC := ucIntake.NewRetryIntakeStep(deps.JobCards, effects, auditDispatcher)

	// ======================================================
	// 🧠 USE CASES: JOB CARDS
	// ======================================================
	transitionUC := ucJobCard.NewTransition(jobDeps)
	diagnosticUC := ucJobCard.NewUpdateDiagnostic(jobDeps)
	listUC := ucJobCard.NewListJobCards(jobDeps)
	detailsUC := ucJobCard.NewGetJobDetails(jobDeps, cfg.CacheTTL)
	summaryUC := ucJobCard.NewJobCardSummary(jobDeps, cfg.CacheTTL)

	finalizeUC := ucJobCard.NewFinalizeInvoice(jobDeps, invoicing)
	resendUC := ucJobCard.NewResendInvoice(jobDeps, invoicing)

	// ======================================================
	// 🧠 USE CASES: STAFF
	// ======================================================
	tokens := ucStaff.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authUC := ucStaff.NewAuthenticate(deps.Staff, tokens)
	registerUC := ucStaff.NewRegister(deps.Staff, auditDispatcher, cfg.EmailDomainCheck)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(authUC, registerUC, deps.Staff)
	lookupHandler := handlers.NewLookupHandler(resolver)
	intakeHandler := handlers.NewIntakeHandler(intakeUC, createJobCardUC, retryUC)
	jobCardHandler := handlers.NewJobCardHandler(transitionUC, diagnosticUC, listUC, detailsUC, summaryUC)
	invoiceHandler := handlers.NewInvoiceHandler(invoicing, finalizeUC, resendUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.Audit, timezone.Location(cfg.Timezone))

	front := middleware.RequireRole(jobcard.RoleReceptionist, jobcard.RoleAdmin)
	billing := middleware.RequireRole(jobcard.RolePricing, jobcard.RoleAdmin)
	adminOnly := middleware.RequireRole(jobcard.RoleAdmin)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.GET("/me", authHandler.Me)
			secured.POST("/staff", adminOnly, authHandler.Register)

			// ------------------------------
			// INTAKE
			// ------------------------------
			secured.GET("/clients/lookup", lookupHandler.Client)
			secured.GET("/devices/lookup", lookupHandler.Device)
			secured.POST("/intake", front, intakeHandler.Intake)

			// ------------------------------
			// JOB CARDS
			// ------------------------------
			secured.GET("/jobcards", jobCardHandler.List)
			secured.GET("/jobcards/summary", jobCardHandler.Summary)
			secured.POST("/jobcards", front, intakeHandler.CreateJobCard)
			secured.GET("/jobcards/:id", jobCardHandler.Details)
			secured.POST("/jobcards/:id/transition", jobCardHandler.Transition)
			secured.PUT("/jobcards/:id/diagnostic", jobCardHandler.UpdateDiagnostic)
			secured.POST("/jobcards/:id/retry/:step", front, intakeHandler.RetryStep)

			// ------------------------------
			// INVOICES
			// ------------------------------
			secured.POST("/invoices/quote", billing, invoiceHandler.Quote)
			secured.POST("/jobcards/:id/invoice", invoiceHandler.Finalize)
			secured.POST("/jobcards/:id/invoice/resend", billing, invoiceHandler.Resend)

			secured.GET("/audit-logs", adminOnly, auditLogsHandler.List)
		}
	}
}
