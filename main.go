// main.go
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"go-storefront/assets"
	"go-storefront/cache"
	"go-storefront/config"
	"go-storefront/controllers"
	"go-storefront/middleware"
	"go-storefront/payments"
	"go-storefront/routes"
	"go-storefront/services"
	"go-storefront/store"
	"go-storefront/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found. Proceeding with environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration failed")
	}
	setupLogger(cfg.Log)

	// Set the JWT secret key and cookie policy
	utils.JwtKey = []byte(cfg.Auth.JWTSecret)
	utils.CookieSecure = cfg.Auth.SecureCookies

	// Connect to MongoDB
	ctx := context.Background()
	client, err := store.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to MongoDB failed")
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("disconnecting from MongoDB failed")
		}
	}()
	db := client.Database(cfg.Mongo.Database)

	// Connect to Redis
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("parsing Redis URL failed")
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// External boundaries
	provider := payments.NewStripeProvider(cfg.Stripe.SecretKey)
	images, err := assets.NewCloudinaryStore(cfg.Assets.CloudinaryURL)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing image store failed")
	}
	mailer := utils.NewEmailService(cfg.Email.SendGridKey, cfg.Email.Sender)

	// Stores
	userStore := store.NewUserStore(db)
	productStore := store.NewProductStore(db)
	cartStore := store.NewCartStore(db)
	couponStore := store.NewCouponStore(db)
	orderStore := store.NewOrderStore(db)
	if err := orderStore.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("creating order indexes failed")
	}

	// Services
	featuredCache := cache.NewFeaturedProducts(redisClient)
	productService := services.NewProductService(productStore, featuredCache, images)
	cartService := services.NewCartService(cartStore, productStore)
	couponService := services.NewCouponService(couponStore)
	checkoutService := services.NewCheckoutService(orderStore, userStore, couponService, provider, mailer, cfg.Server.ClientURL)
	analyticsService := services.NewAnalyticsService(userStore, productStore, orderStore)

	// Controllers
	authController := controllers.NewAuthController(userStore)
	productController := controllers.NewProductController(productService)
	cartController := controllers.NewCartController(cartService)
	couponController := controllers.NewCouponController(couponService)
	paymentController := controllers.NewPaymentController(checkoutService)
	analyticsController := controllers.NewAnalyticsController(analyticsService)

	// Set up the router
	router := mux.NewRouter()
	router.Use(middleware.RequestID(), middleware.Recovery())

	// Register routes
	routes.RegisterRoutes(router, middleware.Auth(userStore),
		authController, productController, cartController,
		couponController, paymentController, analyticsController)

	// Start the server
	log.Info().Str("port", cfg.Server.Port).Msg("server is running")
	if err := http.ListenAndServe(":"+cfg.Server.Port, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
