package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/Inventario-ledger/internal/application/auth"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/Inventario-ledger/internal/domain/authz"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	LedgerUC    *inventory.LedgerUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
	Logger      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Logger != nil {
		app.Use(RequestLogger(deps.Logger))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "time": time.Now().UTC()})
	})

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)

	// Auth (register y login públicos)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	invalidate := invalidateDashboard(deps.DashboardUC)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	products := api.Group("/products", requireAuth, invalidate)
	products.Get("/", RequireOperation(authz.OpReadCatalog), productHandler.List)
	products.Post("/", RequireOperation(authz.OpWriteProduct), productHandler.Create)
	products.Get("/:id", RequireOperation(authz.OpReadCatalog), productHandler.GetByID)
	products.Put("/:id", RequireOperation(authz.OpWriteProduct), productHandler.Update)
	products.Delete("/:id", RequireOperation(authz.OpDeleteProduct), productHandler.Delete)
	products.Get("/:id/movements", RequireOperation(authz.OpReadCatalog), inventoryHandler.ListProductMovements)

	// Inventory movements
	inv := api.Group("/inventory", requireAuth, invalidate)
	inv.Post("/movements", RequireOperation(authz.OpRegisterMovement), inventoryHandler.RegisterMovement)
	inv.Get("/movements", RequireOperation(authz.OpReadCatalog), inventoryHandler.ListMovements)
	inv.Get("/movements/:id", RequireOperation(authz.OpReadCatalog), inventoryHandler.GetMovement)
	inv.Delete("/movements/:id", RequireOperation(authz.OpDeleteMovement), inventoryHandler.DeleteMovement)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dash := api.Group("/dashboard", requireAuth, RequireOperation(authz.OpViewDashboard))
	dash.Get("/stats", dashboardHandler.GetStats)
	dash.Get("/report.pdf", dashboardHandler.GetStockReport)

	// Users (solo ADMIN)
	userHandler := NewUserHandler(deps.UserUC, deps.AuthUC)
	users := api.Group("/users", requireAuth, RequireOperation(authz.OpManageUsers))
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id/role", userHandler.UpdateRole)
	users.Delete("/:id", userHandler.Delete)
}

// invalidateDashboard descarta la caché del dashboard tras una mutación exitosa.
func invalidateDashboard(uc *appanalytics.DashboardUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if uc == nil || err != nil || c.Method() == fiber.MethodGet {
			return err
		}
		if c.Response().StatusCode() < fiber.StatusBadRequest {
			uc.Invalidate(c.Context())
		}
		return nil
	}
}
