package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"alltech-pos/internal/ai"
	"alltech-pos/internal/auth"
	"alltech-pos/internal/cache"
	"alltech-pos/internal/config"
	"alltech-pos/internal/database"
	"alltech-pos/internal/handlers"
	"alltech-pos/internal/middleware"
	"alltech-pos/internal/reports"
	"alltech-pos/internal/search"
	"alltech-pos/internal/store"
	"alltech-pos/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	auth.Init(cfg.Auth.JWTSecret)

	db, err := database.Connect(cfg.DB.DSN)
	if err != nil {
		log.Fatal("Database connection failed: ", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed: ", err)
	}

	// --- CACHE: Redis when configured, in-process otherwise ---
	var cacheStore cache.Cache
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := rc.Ping(context.Background()); err != nil {
			log.Fatal("Redis connection failed: ", err)
		}
		log.Println("✅ Connected to Redis at " + cfg.Redis.Addr)
		cacheStore = rc
	} else {
		log.Println("⚠️ REDIS_ADDR not set, using in-process cache")
		cacheStore = cache.NewMemory()
	}

	// --- SEARCH: Meilisearch mirror, optional ---
	var indexer search.Indexer
	if cfg.Meilisearch.URL != "" {
		indexer = search.NewMeili(cfg.Meilisearch.URL, cfg.Meilisearch.Key, cfg.Meilisearch.Index)
		log.Println("✅ Search index sync enabled: " + cfg.Meilisearch.Index)
	} else {
		log.Println("⚠️ MEILISEARCH_URL not set, search sync disabled")
		indexer = search.Noop{}
	}

	pool := worker.New(cfg.Worker.Size, cfg.Worker.Queue)
	defer pool.Stop()

	s := store.New(db)
	s.OnComplete = func(ctx context.Context, year int) {
		cache.InvalidateDashboards(ctx, cacheStore, year)
	}

	engine := reports.New(db, cacheStore, cfg.Cache.ReportTTL)

	h := &handlers.Handler{
		Store:   s,
		Reports: engine,
		Cache:   cacheStore,
		Index:   indexer,
		Pool:    pool,
		Agent: &ai.Agent{
			Store:   s,
			Reports: engine,
			APIKey:  cfg.AI.GeminiAPIKey,
		},
		AllowRegistration: cfg.App.AllowRegistration,
		ServiceAPIKey:     cfg.Auth.ServiceAPIKey,
		StockTTL:          cfg.Cache.StockTTL,
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.App.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })

	r.POST("/login", middleware.RateLimit(middleware.AuthRate, 5), h.Login)
	r.POST("/service-token", middleware.RateLimit(middleware.AuthRate, 5), h.ServiceToken)

	// --- FEATURE FLAG: Admin Registration ---
	// Only opens if we explicitly allow it in .env
	if cfg.App.AllowRegistration {
		r.POST("/register", middleware.RateLimit(middleware.AuthRate, 5), h.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// READ PATHS
		api.GET("/stock", middleware.RateLimit(middleware.InventoryCheckRate, 10), h.ListStock)
		// "/stock/low" shares the wildcard slot with "/stock/:id"; gin cannot
		// register both, so the handler dispatches on the literal segment.
		api.GET("/stock/:id", middleware.RateLimit(middleware.InventoryCheckRate, 10), h.GetStockOrLow)
		api.GET("/pending", middleware.RateLimit(middleware.OrderMgmtRate, 5), h.ListPending)
		api.GET("/customers", middleware.RateLimit(middleware.OrderMgmtRate, 5), h.ListCustomers)

		// SALE PIPELINE
		api.POST("/sell/:id", middleware.RateLimit(middleware.SalesRate, 5), h.Sell)
		api.POST("/complete/:id", middleware.RateLimit(middleware.SalesRate, 5), h.Complete)
		api.GET("/refund/:id", middleware.RateLimit(middleware.SalesRate, 5), h.Refund)
		api.POST("/refund/:id", middleware.RateLimit(middleware.SalesRate, 5), h.Refund)

		// INVENTORY MUTATION
		api.POST("/stock", middleware.RateLimit(middleware.InventoryModRate, 3), h.AddStock)
		api.PATCH("/stock/:id", middleware.RateLimit(middleware.InventoryModRate, 3), h.UpdateStock)
		api.DELETE("/stock/:id", middleware.RateLimit(middleware.InventoryModRate, 3), h.DeleteStock)

		// ANALYTICS
		api.GET("/reports/dashboard", h.Dashboard)
		api.GET("/reports/weekly", h.WeeklyAnalysis)
		api.GET("/reports/monthly", h.MonthlyAnalysis)
		api.GET("/reports/yearly", h.YearlyAnalysis)
		api.GET("/reports/customers", h.CustomerInsights)
		api.GET("/reports/products", h.ProductInsights)
		api.GET("/reports/patterns", h.SalesPatterns)

		// SERVICE JOBS: scheduler-only, a user token is not enough
		svc := api.Group("/")
		svc.Use(middleware.RequireService())
		svc.Use(middleware.RateLimit(middleware.ServiceJobRate, 2))
		{
			svc.GET("/reports/export", h.ExportCompleted)
			svc.GET("/insights/daily", h.DailyInsights)
			svc.GET("/insights/weekly", h.WeeklyInsights)
		}

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", h.AskAI)
		}
	}

	log.Println("🚀 Server starting on " + cfg.App.BaseURL)
	if err := r.Run(fmt.Sprintf(":%d", cfg.App.Port)); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}
