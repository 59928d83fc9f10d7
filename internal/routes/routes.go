package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/transops/transops/internal/advisor"
	"github.com/transops/transops/internal/auth"
	"github.com/transops/transops/internal/cache"
	"github.com/transops/transops/internal/config"
	"github.com/transops/transops/internal/dashboard"
	"github.com/transops/transops/internal/expense"
	"github.com/transops/transops/internal/identity"
	"github.com/transops/transops/internal/ledger"
	"github.com/transops/transops/internal/middleware"
	"github.com/transops/transops/internal/notification"
	"github.com/transops/transops/internal/payment"
	"github.com/transops/transops/internal/performance"
	"github.com/transops/transops/internal/returnload"
	"github.com/transops/transops/internal/trip"
	"github.com/transops/transops/internal/vehicle"
	"github.com/transops/transops/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories, backed by Postgres when available and memory otherwise.
	var (
		identityRepo identity.Repository
		walletRepo   wallet.Repository
		tripRepo     trip.Repository
		expenseRepo  expense.Repository
		vehicleRepo  vehicle.Repository
		loadRepo     returnload.Repository
		perfRepo     performance.Repository
		paymentRepo  payment.Repository
		ledgerSvc    ledger.Ledger
	)
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
		walletRepo = wallet.NewPostgresRepository(d.DB)
		tripRepo = trip.NewPostgresRepository(d.DB)
		expenseRepo = expense.NewPostgresRepository(d.DB)
		vehicleRepo = vehicle.NewPostgresRepository(d.DB)
		loadRepo = returnload.NewPostgresRepository(d.DB)
		perfRepo = performance.NewPostgresRepository(d.DB)
		paymentRepo = payment.NewPostgresRepository(d.DB)
		ledgerSvc = ledger.NewPostgresLedger(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
		walletRepo = wallet.NewMemoryRepository()
		tripRepo = trip.NewMemoryRepository()
		expenseRepo = expense.NewMemoryRepository()
		vehicleRepo = vehicle.NewMemoryRepository()
		loadRepo = returnload.NewMemoryRepository()
		perfRepo = performance.NewMemoryRepository()
		paymentRepo = payment.NewMemoryRepository()
		ledgerSvc = ledger.NewInMemory(walletRepo, tripRepo, expenseRepo)
	}

	// Services
	notifier := notification.NewLoggerNotifier(d.Logger)
	identitySvc := identity.NewService(identityRepo)
	tokenSvc := auth.NewTokenService(d.Cfg.JWTSecret, d.Cfg.TokenTTL)
	walletSvc := wallet.NewService(walletRepo, defaultLimits(d.Cfg))
	perfSvc := performance.NewService(perfRepo)
	tripSvc := trip.NewService(tripRepo, notifier, perfRepo)
	expenseSvc := expense.NewService(walletRepo, tripRepo, expenseRepo, ledgerSvc)
	vehicleSvc := vehicle.NewService(vehicleRepo)
	loadSvc := returnload.NewService(loadRepo)
	gateway := payment.NewStaticGateway(d.Cfg.WebhookSecret)
	paymentSvc := payment.NewService(paymentRepo, gateway, ledgerSvc, identityRepo,
		d.Cfg.TopupPackages, notifier, d.Logger)
	dashboardSvc := dashboard.NewService(tripRepo, vehicleRepo, identityRepo,
		walletRepo, perfRepo, cache.New(d.Cache), d.Cfg.DashboardTTL, d.Logger)
	advisorSvc := advisor.NewService(&advisor.StaticGenerator{})

	// Handlers
	authHandler := auth.NewHandler(identitySvc, tokenSvc, walletSvc, perfSvc, d.Logger)
	walletHandler := wallet.NewHandler(walletSvc)
	tripHandler := trip.NewHandler(tripSvc)
	expenseHandler := expense.NewHandler(expenseSvc)
	vehicleHandler := vehicle.NewHandler(vehicleSvc)
	loadHandler := returnload.NewHandler(loadSvc)
	perfHandler := performance.NewHandler(perfSvc)
	paymentHandler := payment.NewHandler(paymentSvc)
	dashboardHandler := dashboard.NewHandler(dashboardSvc)
	advisorHandler := advisor.NewHandler(advisorSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginPerMinute)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// The gateway posts webhooks unauthenticated; the HMAC signature is the
	// authentication.
	api.Post("/payments/webhook", paymentHandler.Webhook)

	// Protected routes
	jwtmw := middleware.JWTAuth(tokenSvc, identityRepo)
	protected := api.Group("", jwtmw)
	protected.Use(middleware.Audit(d.Logger))

	protected.Get("/me", authHandler.Me)
	RegisterWalletRoutes(protected, walletHandler)
	RegisterTripRoutes(protected, tripHandler)
	RegisterExpenseRoutes(protected, expenseHandler)
	RegisterFleetRoutes(protected, vehicleHandler, loadHandler, identitySvc)
	RegisterPaymentRoutes(protected, paymentHandler)
	RegisterInsightRoutes(protected, dashboardHandler, perfHandler, advisorHandler)

	return nil
}

func defaultLimits(cfg config.Config) wallet.Limits {
	return wallet.Limits{
		Fuel:    cfg.DefaultLimits.Fuel,
		Toll:    cfg.DefaultLimits.Toll,
		Food:    cfg.DefaultLimits.Food,
		Lodging: cfg.DefaultLimits.Lodging,
		Repair:  cfg.DefaultLimits.Repair,
	}
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
