package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rasilexpress/backoffice/api/controllers"
	"github.com/rasilexpress/backoffice/api/middleware"
	"github.com/rasilexpress/backoffice/internal/expenses"
	"github.com/rasilexpress/backoffice/internal/finance"
	"github.com/rasilexpress/backoffice/internal/orders"
	"github.com/rasilexpress/backoffice/internal/pricing"
	"github.com/rasilexpress/backoffice/internal/settlements"
	"github.com/rasilexpress/backoffice/pkg/config"
	"github.com/rasilexpress/backoffice/pkg/db"
	"github.com/rasilexpress/backoffice/pkg/logger"
	"github.com/rasilexpress/backoffice/pkg/metrics"
	"github.com/rasilexpress/backoffice/pkg/redis"
)

// NewRouter wires the HTTP surface: health endpoints, Prometheus metrics,
// and the authenticated back-office API.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	ordersSvc orders.Service,
	settlementsSvc settlements.Service,
	financeSvc finance.Service,
	expensesSvc expenses.Service,
	pricingResolver pricing.Resolver,
	pricingRepo pricing.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		httpMetrics.Middleware,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbClient, redisClient, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireStaff(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(ordersSvc, logg))
			r.Post("/", controllers.CreateOrder(ordersSvc, logg))
			r.Get("/{orderId}", controllers.GetOrder(ordersSvc, logg))
			r.Patch("/{orderId}", controllers.UpdateOrder(ordersSvc, logg))
			r.Post("/{orderId}/status", controllers.ChangeOrderStatus(ordersSvc, logg))
			r.Post("/{orderId}/transfer", controllers.TransferOrder(ordersSvc, logg))
		})

		r.Route("/settlements", func(r chi.Router) {
			r.Get("/", controllers.ListSettlements(settlementsSvc, logg))
			r.Get("/{settlementId}", controllers.GetSettlement(settlementsSvc, logg))
			r.Get("/courier/preview/{courierId}", controllers.PreviewCourierSettlement(settlementsSvc, logg))
			r.Post("/courier", controllers.CommitCourierSettlement(settlementsSvc, logg))
			r.Get("/merchant/preview/{merchantId}", controllers.PreviewMerchantSettlement(settlementsSvc, logg))
			r.Post("/merchant", controllers.CommitMerchantSettlement(settlementsSvc, logg))
		})

		r.Route("/finance", func(r chi.Router) {
			r.Get("/balances/{userId}", controllers.GetBalances(financeSvc, logg))
			r.Get("/transactions/{userId}", controllers.ListTransactions(financeSvc, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logg))
				r.Get("/company", controllers.GetCompanyFinancials(financeSvc, logg))
				r.Post("/payout", controllers.Payout(financeSvc, logg))
				r.Post("/reset-balance", controllers.ResetBalance(financeSvc, logg))
			})
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", controllers.ListExpenses(expensesSvc, logg))
			r.Post("/", controllers.CreateExpense(expensesSvc, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logg))
				r.Post("/{expenseId}/approve", controllers.ApproveExpense(expensesSvc, logg))
				r.Post("/{expenseId}/reject", controllers.RejectExpense(expensesSvc, logg))
			})
		})

		r.Route("/pricing", func(r chi.Router) {
			r.Post("/quote", controllers.QuoteDelivery(pricingResolver, logg))
			r.Get("/locations", controllers.ListLocations(pricingRepo, logg))
			r.Get("/package-modifiers", controllers.ListPackageModifiers(pricingRepo, logg))
			r.Get("/overrides", controllers.ListMerchantOverrides(pricingRepo, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logg))
				r.Post("/locations", controllers.CreateLocation(pricingRepo, logg))
				r.Put("/locations/{locationId}", controllers.UpdateLocation(pricingRepo, logg))
				r.Delete("/locations/{locationId}", controllers.DeleteLocation(pricingRepo, logg))
				r.Post("/package-modifiers", controllers.CreatePackageModifier(pricingRepo, logg))
				r.Delete("/package-modifiers/{modifierId}", controllers.DeletePackageModifier(pricingRepo, logg))
				r.Post("/overrides", controllers.UpsertMerchantOverride(pricingRepo, logg))
				r.Delete("/overrides/{overrideId}", controllers.DeleteMerchantOverride(pricingRepo, logg))
				r.Put("/settings/default-commission", controllers.UpdateDefaultCommission(pricingRepo, logg))
			})
		})
	})

	return r
}
