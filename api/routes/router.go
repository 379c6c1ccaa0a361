package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/notifications"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	product "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/storefront-backend/pkg/redis"
)

// RedisStore is the slice of the Redis client the HTTP layer needs for
// idempotency replay and auth throttling.
type RedisStore interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type requestObserver interface {
	Observe(method, route string, status int, d time.Duration)
}

// Dependencies is everything the router wires into handlers. Nil optional
// fields (Redis, HTTPMetrics, Gatherer) disable the matching middleware.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions session.AccessSessionChecker
	Redis    RedisStore

	HTTPMetrics requestObserver
	Gatherer    prometheus.Gatherer
	Readiness   map[string]controllers.Pinger

	Auth     auth.Service
	Products product.Service
	Cart     cart.Service
	Checkout checkout.Service
	Orders   orders.Service
	Hub      *notifications.Hub
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var idempotencyStore pkgredis.IdempotencyStore
	var limiterStore middleware.RateLimiterStore
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
		limiterStore = deps.Redis
	}

	requireAuth := middleware.Auth(cfg.JWT, deps.Sessions, logg)
	requireAdmin := middleware.RequireRole(logg, enums.UserRoleAdmin)
	idempotent := middleware.Idempotency(idempotencyStore, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness))
	})
	r.Get("/api/health", controllers.APIHealth())
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/users", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, limiterStore, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
			r.Get("/me", controllers.AuthMe(deps.Auth, logg))
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.Products, logg))
		r.Get("/categories/list", controllers.ProductCategories(deps.Products, logg))
		r.Get("/brands/list", controllers.ProductBrands(deps.Products, logg))
		r.Get("/{id}", controllers.ProductGet(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/", controllers.ProductCreate(deps.Products, logg))
			r.Put("/{id}", controllers.ProductUpdate(deps.Products, logg))
			r.Delete("/{id}", controllers.ProductDelete(deps.Products, logg))
		})
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.CartGet(deps.Cart, logg))
		r.Post("/", controllers.CartAddItem(deps.Cart, logg))
		r.Put("/", controllers.CartUpdateItem(deps.Cart, logg))
		r.Delete("/", controllers.CartClear(deps.Cart, logg))
		r.Post("/merge", controllers.CartMerge(deps.Cart, logg))
		r.Delete("/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.With(idempotent).Post("/", controllers.OrderCreate(deps.Checkout, logg))
		r.Get("/", controllers.OrderListMine(deps.Orders, logg))
		r.With(requireAdmin).Get("/admin/all", controllers.OrderListAll(deps.Orders, logg))
		r.Get("/{id}", controllers.OrderGet(deps.Orders, logg))
		r.With(idempotent).Put("/{id}/cancel", controllers.OrderCancel(deps.Orders, logg))
		r.With(requireAdmin).Put("/{id}", controllers.OrderUpdateStatus(deps.Orders, logg))
	})

	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/stream", controllers.NotificationStream(deps.Hub, cfg.Notifications, logg))
	})

	return r
}
