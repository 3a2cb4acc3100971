package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"preorder-shopify-layer/internal/application"
	"preorder-shopify-layer/internal/application/webhook_handlers"
	"preorder-shopify-layer/internal/domain"
	apiinfra "preorder-shopify-layer/internal/infrastructure/api"
	"preorder-shopify-layer/internal/infrastructure/cache"
	"preorder-shopify-layer/internal/infrastructure/encryption"
	"preorder-shopify-layer/internal/infrastructure/pubsub"
	"preorder-shopify-layer/internal/infrastructure/repository"
	shopifyinfra "preorder-shopify-layer/internal/infrastructure/shopify"
	"preorder-shopify-layer/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	obsmiddleware "preorder-shopify-layer/internal/infrastructure/middleware"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8080"
	}

	apiKey := os.Getenv("SHOPIFY_API_KEY")
	apiSecret := os.Getenv("SHOPIFY_API_SECRET")
	if apiKey == "" || apiSecret == "" {
		logger.Fatal().Msg("SHOPIFY_API_KEY and SHOPIFY_API_SECRET environment variables are required")
	}

	scopes := strings.Split(os.Getenv("SHOPIFY_SCOPES"), ",")
	if len(scopes) == 1 && scopes[0] == "" {
		scopes = []string{"read_products", "write_products", "read_inventory", "write_inventory", "read_orders"}
	}

	// Connect to MongoDB
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(os.Getenv("MONGODB_DATABASE"))

	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	if encryptionKey == "" {
		logger.Fatal().Msg("ENCRYPTION_KEY environment variable is required")
	}
	encryptionService, err := encryption.NewService(encryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}

	// Initialize repositories
	preorderRepo := repository.NewMongoPreorderRepository(db)
	shopRepo := repository.NewMongoShopRepository(db)
	settingsRepo := repository.NewMongoSettingsRepository(db)
	sessionRepo := repository.NewMongoSessionRepository(db)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := preorderRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create preorder indexes")
	}
	if err := sessionRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create session indexes")
	}
	cancelIndex()

	// Storefront view cache is optional; without Redis the resolver reads
	// straight from MongoDB on every lookup.
	var viewCache ports.ViewCache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		viewCache = cache.NewRedisViewCache(rdb, 30*time.Second, logger)
		logger.Info().Str("addr", redisAddr).Msg("Storefront view cache enabled")
	} else {
		viewCache = cache.NewNoopViewCache()
	}

	// Initialize Shopify client and application services
	shopifyClient := shopifyinfra.NewClient(apiKey, apiSecret, logger)
	webhookVerifier := shopifyinfra.NewWebhookVerifier(apiSecret)

	policySyncer := application.NewPolicySynchronizer(shopRepo, encryptionService, shopifyClient, logger)
	preorderService := application.NewPreorderService(preorderRepo, viewCache, policySyncer, logger)
	settingsService := application.NewSettingsService(settingsRepo, logger)
	shopifyService := application.NewShopifyService(shopRepo, shopifyClient, encryptionService, logger, apiKey, scopes, appURL)

	// Initialize webhook dispatcher and register handlers
	webhookDispatcher := application.NewWebhookDispatcher(logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewInventoryHandler(settingsService, shopifyService, shopifyClient, preorderRepo, logger))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewOrderHandler(preorderRepo, logger))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(shopRepo, settingsRepo, logger))

	// Event bus for in-process webhook consumers
	eventBus := pubsub.NewEventBus(logger)

	// HTTP handlers
	preorderHandler := apiinfra.NewPreorderHandler(preorderService, logger)
	proxyHandler := apiinfra.NewProxyHandler(preorderService, logger)
	settingsHandler := apiinfra.NewSettingsHandler(settingsService, logger)
	scriptHandler := apiinfra.NewScriptHandler(settingsService, appURL, logger)

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obsmiddleware.Metrics())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*.myshopify.com", appURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// OAuth routes
	r.Get("/auth/shopify", oauthInitHandler(sessionRepo, shopifyService, logger))
	r.Get("/auth/callback", oauthCallbackHandler(sessionRepo, shopifyService, apiKey, logger))

	// Webhook intake
	r.Post("/webhooks/shopify", webhookHandler(webhookVerifier, webhookDispatcher, eventBus, logger))

	// Storefront surface
	r.Get("/proxy", proxyHandler.Lookup)
	r.Get("/script.js", scriptHandler.Serve)

	// Admin surface
	r.Post("/preorders", preorderHandler.Save)
	r.Get("/preorders", preorderHandler.Get)
	r.Get("/preorders/all", preorderHandler.List)
	r.Delete("/preorders", preorderHandler.Delete)
	r.Get("/settings", settingsHandler.Get)
	r.Put("/settings", settingsHandler.Save)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// oauthInitHandler initiates the OAuth flow
func oauthInitHandler(sessionRepo *repository.MongoSessionRepository, shopifyService *application.ShopifyService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		shop := r.URL.Query().Get("shop")
		if shop == "" {
			http.Error(w, "shop parameter is required", http.StatusBadRequest)
			return
		}

		// Random state for CSRF protection
		stateBytes := make([]byte, 16)
		if _, err := rand.Read(stateBytes); err != nil {
			logger.Error().Err(err).Msg("Failed to generate state")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		state := hex.EncodeToString(stateBytes)

		session := &domain.Session{
			Shop:      shop,
			State:     state,
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}
		if err := sessionRepo.Create(ctx, session); err != nil {
			logger.Error().Err(err).Msg("Failed to create session")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, shopifyService.AuthURL(shop, state), http.StatusFound)
	}
}

// oauthCallbackHandler completes the OAuth flow
func oauthCallbackHandler(
	sessionRepo *repository.MongoSessionRepository,
	shopifyService *application.ShopifyService,
	apiKey string,
	logger zerolog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		shop := r.URL.Query().Get("shop")
		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")
		if shop == "" || code == "" || state == "" {
			http.Error(w, "Missing required parameters", http.StatusBadRequest)
			return
		}

		session, err := sessionRepo.Get(ctx, state)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to get session")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if session == nil || session.Shop != shop {
			http.Error(w, "Invalid session", http.StatusUnauthorized)
			return
		}
		sessionRepo.Delete(ctx, state)

		if _, err := shopifyService.CompleteInstall(ctx, shop, code); err != nil {
			logger.Error().Err(err).Str("shop", shop).Msg("Failed to complete installation")
			http.Error(w, "Failed to complete installation", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "https://"+shop+"/admin/apps/"+apiKey, http.StatusFound)
	}
}

// webhookHandler verifies and dispatches incoming platform webhooks
func webhookHandler(
	verifier *shopifyinfra.WebhookVerifier,
	dispatcher *application.WebhookDispatcher,
	bus *pubsub.EventBus,
	logger zerolog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read body", http.StatusBadRequest)
			return
		}

		hmacHeader := r.Header.Get("X-Shopify-Hmac-Sha256")
		if err := verifier.Verify(body, hmacHeader); err != nil {
			application.WebhookSignatureFailures.Inc()
			logger.Warn().
				Str("topic", r.Header.Get("X-Shopify-Topic")).
				Str("shop", r.Header.Get("X-Shopify-Shop-Domain")).
				Msg("Rejected webhook with invalid signature")
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}

		event := &domain.WebhookEvent{
			Topic:    r.Header.Get("X-Shopify-Topic"),
			Shop:     r.Header.Get("X-Shopify-Shop-Domain"),
			Payload:  body,
			Verified: true,
		}

		bus.Publish(event)

		if err := dispatcher.Dispatch(r.Context(), event); err != nil {
			// A non-2xx tells the platform to retry delivery.
			http.Error(w, "Webhook processing failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
