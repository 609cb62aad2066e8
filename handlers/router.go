package handlers

import (
	"cafebackend/logger"
	"cafebackend/middleware"
	"cafebackend/models"

	"github.com/gin-gonic/gin"
)

// multipartSlack covers form fields and boundaries around the image itself.
const multipartSlack = 1 << 20

type RouterConfig struct {
	Menu   *MenuHandler
	Orders *OrderHandler
	Auth   *AuthHandler
	System *SystemHandler
	Tokens middleware.TokenParser
	Log    *logger.Logger

	UploadsDir     string
	AssetsDir      string
	MaxUploadBytes int64
	Production     bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(cfg.Log), middleware.Recovery(cfg.Production))

	r.Static("/uploads", cfg.UploadsDir)
	r.Static("/assets", cfg.AssetsDir)

	r.GET("/", cfg.System.Root)
	r.GET("/health", cfg.System.Health)

	authenticated := middleware.Authenticate(cfg.Tokens, cfg.Production)
	adminOnly := middleware.AdminOnly(cfg.Production)
	uploadLimit := middleware.BodyLimit(cfg.MaxUploadBytes + multipartSlack)

	api := r.Group("/api")

	menu := api.Group("/menu")
	menu.GET("", cfg.Menu.GetMenu)
	menu.GET("/recent", cfg.Menu.GetRecent)
	menu.GET("/search", cfg.Menu.Search)
	menu.GET("/stats", cfg.Menu.GetStats)
	menu.GET("/kategori/:kategori", cfg.Menu.GetByCategory)
	menu.GET("/:id", cfg.Menu.GetMenuByID)
	menu.POST("", uploadLimit, authenticated, adminOnly, cfg.Menu.CreateMenu)
	menu.PUT("/:id", uploadLimit, authenticated, adminOnly, cfg.Menu.UpdateMenu)
	menu.DELETE("/:id", authenticated, adminOnly, cfg.Menu.DeleteMenu)

	orders := api.Group("/orders")
	orders.POST("", cfg.Orders.CreateOrder)
	admin := orders.Group("", authenticated, adminOnly)
	admin.GET("", cfg.Orders.GetAllOrders)
	admin.GET("/stats", cfg.Orders.GetStats)
	admin.GET("/filter", cfg.Orders.FilterByDate)
	admin.GET("/:id", cfg.Orders.GetOrder)
	admin.PATCH("/:id/payment", cfg.Orders.UpdatePayment)
	admin.DELETE("/:id", cfg.Orders.DeleteOrder)

	auth := api.Group("/auth")
	auth.POST("/login", cfg.Auth.Login)
	auth.POST("/logout", cfg.Auth.Logout)
	auth.POST("/register", authenticated, adminOnly, cfg.Auth.Register)
	auth.GET("/me", authenticated, middleware.Authorize(cfg.Production, models.RoleAdmin, models.RoleUser), cfg.Auth.Me)

	return r
}
