package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/Inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/Inventario-ledger/internal/application/auth"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	infracache "github.com/jhoicas/Inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage agrupa los repositorios del backend elegido.
type storage struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	users     repository.UserRepository
	tx        inventory.TxRunner
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			products:  store.Products(),
			movements: store.Movements(),
			users:     store.Users(),
			tx:        memory.NewTxRunner(store),
			close:     func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		return nil, err
	}
	return &storage{
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		users:     postgres.NewUserRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer store.close()

	// Caché opcional del dashboard
	var dashCache appanalytics.Cache
	if cfg.Redis.Addr != "" && cfg.Dashboard.CacheTTL > 0 {
		rc, err := infracache.NewRedisClient(ctx, infracache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible; dashboard sin caché")
		} else {
			defer rc.Close()
			dashCache = rc
		}
	}

	productUC := usecase.NewProductUseCase(store.products)
	userUC := usecase.NewUserUseCase(store.users)
	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	ledgerUC := inventory.NewLedgerUseCase(store.tx, store.movements, inventory.RetryPolicy{
		MaxRetries: cfg.Ledger.MaxRetries,
		Backoff:    cfg.Ledger.RetryBackoff,
	}, log.Component("ledger"))
	dashboardUC := appanalytics.NewDashboardUseCase(
		store.products, store.movements, dashCache,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
		appanalytics.Config{
			LowStockThreshold: cfg.Dashboard.LowStockThreshold,
			RecentProducts:    cfg.Dashboard.RecentProducts,
			CacheTTL:          cfg.Dashboard.CacheTTL,
		},
		log.Component("dashboard"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (requiere swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario Ledger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		ProductUC:   productUC,
		LedgerUC:    ledgerUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		Logger:      log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
