// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/staff"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/handlers"
	"github.com/your-org/restaurant-backend/internal/interfaces/http/middleware"
	"github.com/your-org/restaurant-backend/internal/realtime"
	"gorm.io/gorm"
)

// SetupRoutes wires every endpoint group. Guest endpoints are keyed by
// session id and carry no authentication; staff endpoints require a token
// and, where noted, a minimum role tier.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, hub *realtime.Hub, cfg *config.Config, log *logrus.Logger) {
	authHandler := handlers.NewAuthHandler(db, cfg, log)
	sessionHandler := handlers.NewSessionHandler(db, cfg, hub, log)
	cartHandler := handlers.NewCartHandler(db, cfg, hub, log)
	orderHandler := handlers.NewOrderHandler(db, cfg, hub, log)
	tableHandler := handlers.NewTableHandler(db, cfg, hub, log)
	menuHandler := handlers.NewMenuHandler(db, cfg, log)
	streamHandler := handlers.NewStreamHandler(hub, cfg)

	// Staff authentication
	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)

		protected := auth.Group("")
		protected.Use(middleware.StaffAuth(cfg))
		{
			protected.GET("/profile", authHandler.Profile)
		}
	}

	// Guest-facing menu
	menuGroup := rg.Group("/menu")
	{
		menuGroup.GET("", menuHandler.GetMenu)
		menuGroup.GET("/items/:id", menuHandler.GetItem)
	}

	// Guest session lifecycle and shared cart
	sessions := rg.Group("/sessions")
	{
		sessions.POST("", sessionHandler.OpenSession)
		sessions.POST("/join", sessionHandler.JoinSession)
		sessions.GET("/:id", sessionHandler.GetSession)
		sessions.GET("/:id/stream", streamHandler.SessionStream)

		sessions.GET("/:id/cart", cartHandler.GetCart)
		sessions.POST("/:id/cart/items", cartHandler.AddItem)
		sessions.PATCH("/:id/cart/items/:itemId", cartHandler.UpdateItem)
		sessions.DELETE("/:id/cart/items/:itemId", cartHandler.RemoveItem)
		sessions.DELETE("/:id/cart", cartHandler.ClearCart)

		sessions.POST("/:id/confirm", orderHandler.ConfirmCart)
		sessions.GET("/:id/order", orderHandler.GetOrder)
	}

	// Staff-only session and order operations
	staffSessions := rg.Group("/sessions")
	staffSessions.Use(middleware.StaffAuth(cfg))
	{
		staffSessions.POST("/:id/close", sessionHandler.CloseSession)
		staffSessions.POST("/:id/discount", orderHandler.ApplyDiscount)
		staffSessions.DELETE("/:id/discount",
			middleware.RequireTier(staff.TierManager), orderHandler.RemoveDiscount)
		staffSessions.POST("/:id/pay", orderHandler.PayOrder)
		staffSessions.GET("/:id/receipt", orderHandler.GetReceipt)
	}

	// Kitchen display
	chunks := rg.Group("/chunks")
	chunks.Use(middleware.StaffAuth(cfg))
	{
		chunks.PATCH("/:id/status", orderHandler.UpdateChunkStatus)
	}

	// Floor plan
	tables := rg.Group("/tables")
	tables.Use(middleware.StaffAuth(cfg))
	{
		tables.GET("", tableHandler.ListTables)
		tables.GET("/:id", tableHandler.GetTable)
		tables.PATCH("/:id/status", tableHandler.UpdateStatus)
		tables.PUT("/sync", middleware.RequireTier(staff.TierManager), tableHandler.SyncTables)
	}

	// Staff store dashboard stream
	store := rg.Group("/store")
	store.Use(middleware.StaffAuth(cfg))
	{
		store.GET("/stream", streamHandler.StoreStream)
	}

	// Admin: menu and staff management
	admin := rg.Group("/admin")
	admin.Use(middleware.StaffAuth(cfg), middleware.RequireTier(staff.TierManager))
	{
		admin.GET("/menu/items", menuHandler.ListAllItems)
		admin.POST("/menu/items", menuHandler.CreateItem)
		admin.PUT("/menu/items/:id", menuHandler.UpdateItem)
		admin.DELETE("/menu/items/:id", menuHandler.ArchiveItem)
		admin.PATCH("/menu/items/:id/availability", menuHandler.SetAvailability)

		admin.GET("/staff", authHandler.ListStaff)
		admin.POST("/staff", middleware.RequireTier(staff.TierOwner), authHandler.CreateStaff)
		admin.DELETE("/staff/:id", middleware.RequireTier(staff.TierOwner), authHandler.DeactivateStaff)
	}
}
