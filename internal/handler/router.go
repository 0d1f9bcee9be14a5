// Package handler wires the HTTP surface: routing, middleware, request
// decoding and domain-error mapping.
package handler

import (
	"net/http"

	"github.com/onedayhr/leadboard/internal/infra/observability"
	"github.com/onedayhr/leadboard/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware. The
// landing pages talk to the public routes (intake, quote); the CRM SPA
// authenticates and uses everything under the JWT group.
func NewRouter(
	crm *service.CRMService,
	assistant *service.Assistant,
	notifier *service.Notifier,
	authSvc *service.AuthService,
	metrics *observability.Metrics,
	allowedOrigins []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.TraceContext)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Operational endpoints.
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler(crm, logger))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {

		// Public: landing pages and the price calculator.
		r.Post("/intake", intakeHandler(crm, logger))
		r.Post("/quote", quoteHandler(logger))

		// Public: telephony provider pushes call completions here.
		r.Post("/calls/webhook", callWebhookHandler(crm, logger))

		// Auth.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authLoginHandler(authSvc, logger))
			r.Post("/register", authRegisterHandler(authSvc, logger))
			r.Post("/refresh", authRefreshHandler(authSvc, logger))
			r.Post("/password/reset-request", authPasswordResetRequestHandler(authSvc, logger))
			r.Post("/password/reset-confirm", authPasswordResetConfirmHandler(authSvc, logger))

			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(authSvc, logger))
				r.Post("/logout", authLogoutHandler(authSvc, logger))
				r.Get("/me", authMeHandler(authSvc, logger))
				r.Post("/invites", authCreateInviteHandler(authSvc, logger))
			})
		})

		// CRM: everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(authSvc, logger))

			r.Get("/board", boardHandler(crm, logger))

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", listLeadsHandler(crm, logger))
				r.Post("/", createLeadHandler(crm, logger))
				r.Get("/{leadID}", getLeadHandler(crm, logger))
				r.Patch("/{leadID}", updateLeadHandler(crm, logger))
				r.Post("/{leadID}/move", moveLeadHandler(crm, logger))
				r.Get("/{leadID}/timeline", timelineHandler(crm, logger))
				r.Post("/{leadID}/tasks", createTaskHandler(crm, logger))
				r.Post("/{leadID}/comments", addCommentHandler(crm, logger))
				r.Post("/{leadID}/call", initiateCallHandler(crm, logger))
				r.Post("/{leadID}/analyze", analyzeLeadHandler(assistant, logger))
				r.Post("/{leadID}/suggest", suggestActionHandler(assistant, logger))
				r.Post("/{leadID}/summarize", summarizeLeadHandler(assistant, logger))
				r.Get("/{leadID}/insights", insightsHandler(assistant, logger))
			})

			r.Patch("/tasks/{taskID}", toggleTaskHandler(crm, logger))

			r.Route("/stages", func(r chi.Router) {
				r.Get("/", listStagesHandler(crm, logger))
				r.Post("/", createStageHandler(crm, logger))
				r.Patch("/{stageID}", updateStageHandler(crm, logger))
				r.Delete("/{stageID}", deleteStageHandler(crm, logger))
			})

			r.Post("/assistant/daily-plan", dailyPlanHandler(assistant, logger))
			r.Get("/notifications", notificationsHandler(notifier, logger))
			r.Get("/export/leads", exportLeadsHandler(crm, logger))
			r.Get("/stats", statsHandler(metrics, logger))
		})
	})

	return r
}
