package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"luxe-backend/internal/cache"
	"luxe-backend/internal/config"
	"luxe-backend/internal/database"
	"luxe-backend/internal/handlers"
	"luxe-backend/internal/middleware"
	"luxe-backend/internal/notify"
	"luxe-backend/internal/payments"
)

const productCacheTTL = 5 * time.Minute

func rateLimit(limit int64, period time.Duration) gin.HandlerFunc {
	instance := limiter.New(memory.NewStore(), limiter.Rate{Period: period, Limit: limit})
	return mgin.NewMiddleware(instance, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "Too many requests, please try again later"})
	}))
}

func main() {
	config.Load()
	cfg := config.AppEnv

	if cfg.JWTSecret == "" {
		log.Fatal("[MAIN] [FATAL] JWT_SECRET is required")
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal("[MAIN] [FATAL] mongo connect failed: ", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Println("[MAIN] [ERROR] mongo disconnect failed:", err)
		}
	}()

	db := client.Database(cfg.DBName)
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Fatal("[MAIN] [FATAL] user indexes: ", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Fatal("[MAIN] [FATAL] product indexes: ", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Fatal("[MAIN] [FATAL] order indexes: ", err)
	}
	if err := database.EnsureCouponIndexes(db); err != nil {
		log.Fatal("[MAIN] [FATAL] coupon indexes: ", err)
	}
	if err := database.EnsureRefreshTokenIndexes(db); err != nil {
		log.Fatal("[MAIN] [FATAL] refresh token indexes: ", err)
	}

	gateway := payments.NewGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	mailer := notify.New(cfg.SendgridAPIKey, cfg.EmailFrom)
	listCache := cache.NewProductList(productCacheTTL)

	var cld *cloudinary.Cloudinary
	if cfg.CloudinaryCloudName != "" {
		cld, err = cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Fatal("[MAIN] [FATAL] cloudinary init failed: ", err)
		}
	} else {
		log.Println("[MAIN] [WARN] cloudinary not configured, image upload disabled")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.Health())
	r.GET("/sitemap.xml", handlers.Sitemap(db, cfg.ClientURL))
	r.GET("/robots.txt", handlers.Robots(cfg.ClientURL))

	api := r.Group("/api")
	api.Use(rateLimit(200, 15*time.Minute))

	auth := api.Group("/auth")
	auth.Use(rateLimit(10, time.Minute))
	{
		auth.POST("/register", handlers.Register(db, mailer, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL))
		auth.POST("/login", handlers.Login(db, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL))
		auth.POST("/refresh", handlers.Refresh(db, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL))
		auth.POST("/logout", handlers.Logout(db))
	}

	api.GET("/products", handlers.ListProducts(db, listCache))
	api.GET("/products/:slug", handlers.GetProductBySlug(db))
	api.POST("/coupons/validate", handlers.ValidateCoupon(db))
	api.POST("/webhook/payment", handlers.PaymentWebhook(db, gateway))

	authed := api.Group("")
	authed.Use(middleware.Auth(db, cfg.JWTSecret))
	{
		authed.GET("/users/me", handlers.GetMe())
		authed.PUT("/users/me", handlers.UpdateMe(db))
		authed.POST("/users/me/addresses", handlers.AddAddress(db))
		authed.DELETE("/users/me/addresses/:id", handlers.DeleteAddress(db))

		authed.GET("/cart", handlers.GetCart(db))
		authed.POST("/cart", handlers.AddToCart(db))
		authed.PUT("/cart", handlers.SetCartQuantity(db))
		authed.DELETE("/cart/:productId", handlers.RemoveFromCart(db))
		authed.DELETE("/cart", handlers.ClearCart(db))

		authed.POST("/orders", handlers.CreateOrder(db, gateway, mailer))
		authed.GET("/orders", handlers.GetMyOrders(db))
		authed.GET("/orders/:id", handlers.GetMyOrder(db))
	}

	admin := api.Group("/admin")
	admin.Use(middleware.Auth(db, cfg.JWTSecret), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", handlers.Dashboard(db))
		admin.GET("/orders", handlers.AdminListOrders(db))
		admin.PUT("/orders/:id", handlers.AdminUpdateOrderStatus(db))
		admin.GET("/users", handlers.AdminListUsers(db))
		admin.PUT("/users/:id/role", handlers.AdminUpdateUserRole(db))

		admin.POST("/products", handlers.CreateProduct(db, listCache))
		admin.PUT("/products/:id", handlers.UpdateProduct(db, listCache))
		admin.DELETE("/products/:id", handlers.DeactivateProduct(db, listCache))
		admin.POST("/upload", handlers.UploadImage(cld))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	log.Println("[MAIN] [INFO] listening on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[MAIN] [FATAL] server failed: ", err)
	}
}
