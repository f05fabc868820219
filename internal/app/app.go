package app

import (
	"techsheet-backend/internal/auth"
	"techsheet-backend/internal/config"
	"techsheet-backend/internal/export"
	"techsheet-backend/internal/groups"
	"techsheet-backend/internal/health"
	"techsheet-backend/internal/middleware"
	"techsheet-backend/internal/pkg/constants"
	"techsheet-backend/internal/products"
	"techsheet-backend/internal/suggestions"
	"techsheet-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. The database is opened and migrated by the caller.
func CreateApp(cfg *config.Config, db *gorm.DB) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, err
	}
	app.Use(sessionHandler)

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	// Services
	userService := &users.Service{DB: db}
	groupService := &groups.Service{DB: db}
	suggestionIndex := &suggestions.Index{Rdb: rdb, DB: db}
	productService := &products.Service{DB: db, Suggestions: suggestionIndex}

	// Handlers
	authHandlers := &auth.Handlers{
		Verifier:  userService,
		Registrar: userService,
		Rdb:       rdb,
		Config:    sessionCfg,
	}
	userHandlers := &users.Handlers{Service: userService}
	groupHandlers := &groups.Handlers{Service: groupService}
	productHandlers := &products.Handlers{Service: productService}
	suggestionHandlers := &suggestions.Handlers{Index: suggestionIndex}
	exportHandlers := &export.Handlers{Products: productService}
	healthHandlers := &health.Handlers{DB: db, Rdb: rdb}

	// --- Routes (no auth) ---
	app.Get("/health/json", healthHandlers.JSON)

	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// --- Routes (session required) ---
	userGroup := app.Group("/api/v1/users", middleware.RequireAuth())
	userGroup.Get("/", middleware.AuthorizePermission(constants.ManageUsers), userHandlers.ListUsers)
	userGroup.Post("/:id/approve", middleware.AuthorizePermission(constants.ManageUsers), userHandlers.ApproveUser)
	userGroup.Patch("/:id/role", middleware.AuthorizePermission(constants.ManageUsers), userHandlers.UpdateRole)
	userGroup.Patch("/:id/allowed-groups", middleware.AuthorizePermission(constants.ManageUsers), userHandlers.UpdateAllowedGroups)

	groupGroup := app.Group("/api/v1/groups", middleware.RequireAuth())
	groupGroup.Get("/", middleware.AuthorizePermission(constants.ViewProducts), groupHandlers.ListGroups)
	groupGroup.Post("/", middleware.AuthorizePermission(constants.ManageGroups), groupHandlers.CreateGroup)
	groupGroup.Patch("/:id", middleware.AuthorizePermission(constants.ManageGroups), groupHandlers.UpdateGroup)
	groupGroup.Delete("/:id", middleware.AuthorizePermission(constants.DeleteGroup), groupHandlers.DeleteGroup)

	productGroup := app.Group("/api/v1/products", middleware.RequireAuth())
	productGroup.Post("/", middleware.AuthorizePermission(constants.CreateProduct), productHandlers.CreateProduct)
	productGroup.Get("/", middleware.AuthorizePermission(constants.ViewProducts), productHandlers.ListProducts)
	productGroup.Get("/:id/autosave", middleware.AuthorizePermission(constants.EditProduct), productHandlers.GetAutosave)
	productGroup.Put("/:id/autosave", middleware.AuthorizePermission(constants.EditProduct), productHandlers.Autosave)
	productGroup.Post("/:id/approve", middleware.AuthorizePermission(constants.ApproveProduct), productHandlers.Approve)
	productGroup.Post("/:id/unapprove", middleware.AuthorizePermission(constants.ApproveProduct), productHandlers.Unapprove)
	productGroup.Get("/:id", middleware.AuthorizePermission(constants.ViewProducts), productHandlers.GetProduct)
	productGroup.Put("/:id", middleware.AuthorizePermission(constants.EditProduct), productHandlers.UpdateProduct)
	productGroup.Delete("/:id", middleware.AuthorizePermission(constants.DeleteProduct), productHandlers.DeleteProduct)

	app.Get("/api/v1/suggestions", middleware.RequireAuth(), middleware.AuthorizePermission(constants.EditProduct), suggestionHandlers.Suggest)
	app.Post("/api/v1/export/markdown", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ViewProducts), exportHandlers.Markdown)

	return app, nil
}
