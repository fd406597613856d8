package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-pos/internal/audit"
	"github.com/tableside/restaurant-pos/internal/config"
	"github.com/tableside/restaurant-pos/internal/handlers"
	infraRepo "github.com/tableside/restaurant-pos/internal/infra/repository"
	"github.com/tableside/restaurant-pos/internal/middleware"
	"github.com/tableside/restaurant-pos/internal/storage"
	"github.com/tableside/restaurant-pos/internal/tokens"
	ucOrder "github.com/tableside/restaurant-pos/internal/usecase/order"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	orderRepo := infraRepo.NewOrderGormRepository(db)

	tokenManager := tokens.NewManager(cfg, tokens.NewRedisStore(cfg))
	imageStore := storage.NewImageStore(cfg)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — ORDERS
	// ======================================================
	createOrderUC := ucOrder.NewCreateOrder(orderRepo, auditDispatcher)
	addItemUC := ucOrder.NewAddItem(orderRepo, auditDispatcher)
	removeItemUC := ucOrder.NewRemoveItem(orderRepo, auditDispatcher)
	replaceItemsUC := ucOrder.NewReplaceItems(orderRepo, auditDispatcher)
	deleteOrderUC := ucOrder.NewDeleteOrder(orderRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, tokenManager)
	meHandler := handlers.NewMeHandler(db)
	restaurantHandler := handlers.NewRestaurantHandler(db)
	staffHandler := handlers.NewStaffHandler(db, auditDispatcher)
	categoryHandler := handlers.NewCategoryHandler(db, auditDispatcher, imageStore)
	productHandler := handlers.NewProductHandler(db, auditDispatcher, imageStore)

	orderHandler := handlers.NewOrderHandler(
		db,
		createOrderUC,
		addItemUC,
		removeItemUC,
		replaceItemsUC,
		deleteOrderUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(tokenManager))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/restaurants", restaurantHandler.List)
			secured.POST("/restaurants", restaurantHandler.Create)

			secured.GET("/restaurant/:id/staff", staffHandler.List)
			secured.POST("/staff/add", staffHandler.Add)

			secured.GET("/restaurant/:id/categories", categoryHandler.ListForRestaurant)
			secured.POST("/restaurant/:id/categories", categoryHandler.Create)
			secured.GET("/categories/:id", categoryHandler.Get)
			secured.PUT("/categories/:id", categoryHandler.Update)
			secured.DELETE("/categories/:id", categoryHandler.Delete)
			secured.POST("/categories/:id/image", categoryHandler.UploadImage)

			secured.GET("/categories/:id/products", productHandler.ListForCategory)
			secured.POST("/categories/:id/products", productHandler.Create)
			secured.GET("/products/:id", productHandler.Get)
			secured.PUT("/products/:id", productHandler.Update)
			secured.DELETE("/products/:id", productHandler.Delete)
			secured.POST("/products/:id/image", productHandler.UploadImage)

			// ------------------------------
			// ORDERS
			// ------------------------------
			secured.GET("/orders", orderHandler.List)
			secured.POST("/orders", orderHandler.Create)
			secured.GET("/orders/:id", orderHandler.Get)
			secured.PUT("/orders/:id", orderHandler.Replace)
			secured.DELETE("/orders/:id", orderHandler.Delete)
			secured.POST("/orders/:id/increase-item", orderHandler.IncreaseItem)
			secured.POST("/orders/:id/decrease-item", orderHandler.DecreaseItem)
			secured.GET("/orders/:id/print-bill", orderHandler.PrintBill)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
