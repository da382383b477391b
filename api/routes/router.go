package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/angelmondragon/ims-backend/api/controllers"
	ordercontrollers "github.com/angelmondragon/ims-backend/api/controllers/orders"
	"github.com/angelmondragon/ims-backend/api/middleware"
	"github.com/angelmondragon/ims-backend/internal/inventory"
	"github.com/angelmondragon/ims-backend/internal/orders"
	"github.com/angelmondragon/ims-backend/internal/stores"
	"github.com/angelmondragon/ims-backend/pkg/config"
	"github.com/angelmondragon/ims-backend/pkg/enums"
	"github.com/angelmondragon/ims-backend/pkg/logger"
	"github.com/angelmondragon/ims-backend/pkg/metrics"
	"github.com/angelmondragon/ims-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Redis and Registry are optional.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        controllers.Pinger
	Redis     *redis.Client
	Registry  *prometheus.Registry
	Inventory inventory.Service
	Orders    orders.Service
	Stores    stores.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	var httpMetrics *metrics.HTTPMetrics
	if d.Registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(d.Registry)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		otelhttp.NewMiddleware("ims-api", otelhttp.WithSpanNameFormatter(spanName)),
		middleware.RouteSpanName,
		middleware.Logging(logg, httpMetrics),
		middleware.Recoverer(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	ready := map[string]controllers.Pinger{"db": d.DB}
	var (
		idempotencyStore redis.IdempotencyStore
		rateLimiter      redis.RateLimiter
	)
	if d.Redis != nil {
		ready["redis"] = d.Redis
		idempotencyStore = d.Redis
		rateLimiter = d.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, ready))
	})
	if d.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	orderPolicy := middleware.NewRateLimitPolicy("orders", time.Minute, cfg.Orders.RateLimitPerMinute)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/catalogs", controllers.ListCatalogs(d.Inventory, logg))
		r.Get("/items", controllers.ListItems(d.Inventory, logg))
		r.Get("/items/{slug}", controllers.GetItem(d.Inventory, logg))

		r.Route("/supplier", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.RoleStaff, enums.RoleAdmin))
			r.Post("/items", controllers.SupplierCreateItem(d.Inventory, logg))
			r.Post("/items/{itemId}/restock", controllers.SupplierRestockItem(d.Inventory, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(d.Orders, logg))
			r.With(middleware.UserRateLimit(orderPolicy, rateLimiter, logg)).Post("/", ordercontrollers.Place(d.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(d.Orders, logg))
			r.Post("/{orderId}/cancel", ordercontrollers.Cancel(d.Orders, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.RoleAdmin))
			r.Get("/users/{userId}/orders", ordercontrollers.AdminListForUser(d.Orders, logg))
			r.Get("/stores", controllers.AdminListStores(d.Stores, logg))
			r.Post("/stores", controllers.AdminCreateStore(d.Stores, logg))
		})
	})

	return r
}

// spanName is the name until RouteSpanName sees the matched pattern. Raw
// paths carry ids, so only the method is used.
func spanName(_ string, r *http.Request) string {
	return r.Method
}
