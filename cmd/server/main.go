package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/api/middleware"
	v1 "github.com/Eccentric-jamaican/bossinbaskets-sub000/api/v1"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao/mysql"
	redisdao "github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao/redis"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/mq"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/service"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/app"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/logger"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := app.BootstrapApp()

	// 数据库
	db, err := mysql.InitDB(&cfg.Database.Mysql)
	if err != nil {
		logger.Fatal("数据库初始化失败", slog.Any("error", err))
	}
	if err := mysql.AutoMigrate(db); err != nil {
		logger.Fatal("数据库迁移失败", slog.Any("error", err))
	}

	// Redis
	redisDB, err := redisdao.InitRedis(&cfg.Database.Redis)
	if err != nil {
		logger.Fatal("Redis初始化失败", slog.Any("error", err))
	}

	// RabbitMQ 通道池
	mqPool, err := mq.Init(&cfg.MQ)
	if err != nil {
		logger.Fatal("RabbitMQ初始化失败", slog.Any("error", err))
	}
	defer mqPool.Close()
	if err := mqPool.EnsureBaseTopology(); err != nil {
		logger.Fatal("RabbitMQ拓扑声明失败", slog.Any("error", err))
	}

	// DAO 层
	authDao := dao.NewAuthDao(db)
	userDao := dao.NewUserDao(db)
	categoryDao := dao.NewCategoryDao(db)
	productDao := dao.NewProductDao(db, redisDB)
	cartDao := dao.NewCartDao(db)
	orderDao := dao.NewOrderDao(db)

	// Service 层
	pricing := service.PricingFromConfig(&cfg.Shop)
	authService := service.NewAuthService(authDao, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	userService := service.NewUserService(userDao)
	catalogService := service.NewCatalogService(productDao, categoryDao)
	cartService := service.NewCartService(cartDao, productDao, pricing)
	orderService := service.NewOrderService(db, orderDao, cartDao, productDao, redisDB, mqPool, pricing)

	jwtUtil := utils.NewJWTUtil(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.GlobalRateLimit(cfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := v1.NewAuthHandler(authService)
	userHandler := v1.NewUserHandler(userService)
	productHandler := v1.NewProductHandler(catalogService)
	categoryHandler := v1.NewCategoryHandler(catalogService)
	cartHandler := v1.NewCartHandler(cartService)
	orderHandler := v1.NewOrderHandler(orderService)
	paymentHandler := v1.NewPaymentHandler(orderService, cfg.Payment.WebhookSecret)

	api := r.Group("/api/v1")
	{
		// 公开接口
		authHandler.RegisterRoutes(api)
		productHandler.RegisterPublicRoutes(api)
		categoryHandler.RegisterPublicRoutes(api)
		paymentHandler.RegisterRoutes(api)

		// 登录后接口
		auth := api.Group("")
		auth.Use(middleware.JWTAuthMiddleware(jwtUtil))
		{
			userHandler.RegisterRoutes(auth)
			cartHandler.RegisterRoutes(auth)
			orderHandler.RegisterRoutes(auth)

			// 下单接口单独限流
			checkout := auth.Group("")
			checkout.Use(middleware.CheckoutRateLimit(cfg))
			orderHandler.RegisterCheckoutRoute(checkout)
		}

		// 后台接口
		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuthMiddleware(jwtUtil), middleware.RequireAdmin())
		{
			productHandler.RegisterAdminRoutes(admin)
			categoryHandler.RegisterAdminRoutes(admin)
			orderHandler.RegisterAdminRoutes(admin)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	slog.Info("服务启动", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("服务异常退出", slog.Any("error", err))
	}
}
