package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/themobileprof/paintrack-be/internal/access"
	"github.com/themobileprof/paintrack-be/internal/analytics"
	"github.com/themobileprof/paintrack-be/internal/api"
	"github.com/themobileprof/paintrack-be/internal/api/middleware"
	"github.com/themobileprof/paintrack-be/internal/chat"
	"github.com/themobileprof/paintrack-be/internal/classifier"
	"github.com/themobileprof/paintrack-be/internal/db"
	"github.com/themobileprof/paintrack-be/internal/followup"
	"github.com/themobileprof/paintrack-be/internal/memory"
	"github.com/themobileprof/paintrack-be/internal/narrative"
	"github.com/themobileprof/paintrack-be/internal/prompt"
	"github.com/themobileprof/paintrack-be/internal/ws"
	"github.com/themobileprof/paintrack-be/pkg/deepseek"
	"github.com/themobileprof/paintrack-be/pkg/gemini"
	"github.com/themobileprof/paintrack-be/pkg/llm"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Get configuration from environment
	port := getEnv("PORT", "8080")
	databaseURL := getEnv("DATABASE_URL", "")
	jwtSecret := getEnv("JWT_SECRET", "")

	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize database
	database, err := db.NewFromURL(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	log.Println("✅ Database connected")

	// Assistant LLM client. The assistant is optional: without an API key
	// the chat endpoints degrade to canned fallbacks and report summaries
	// to the deterministic text format.
	llmClient := buildLLMClient()

	// Initialize components
	painLogs := db.NewPainLogStore(database)
	accessMgr := access.NewManager(database.DB)
	digest := analytics.NewDigest(painLogs)

	cls := classifier.NewClassifier()
	memMgr := memory.NewManager(10) // Keep last 10 messages
	promptBuilder := prompt.NewBuilder()
	suggester := followup.NewSuggester()

	chatEngine := chat.NewEngine(
		cls,
		memMgr,
		promptBuilder,
		llmClient,
		suggester,
		digest,
		database,
	)
	chatEngine.SetHistoryLoader(db.NewMemoryAdapter(database))

	var generator *narrative.Generator
	if llmClient != nil {
		generator = narrative.NewGenerator(llmClient)
	}

	// Initialize handlers
	authHandler := api.NewAuthHandler(database, jwtSecret)
	oauthHandler := api.NewOAuthHandler(database, jwtSecret)
	painLogHandler := api.NewPainLogHandler(painLogs)
	analyticsHandler := api.NewAnalyticsHandler(painLogs)
	reportHandler := api.NewReportHandler(painLogs, database, generator)
	accessHandler := api.NewAccessHandler(accessMgr)
	chatHandler := api.NewChatHandler(chatEngine, database)
	wsHandler := ws.NewChatHandler(chatEngine, jwtSecret)

	// Setup Gin router
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// Global rate limiting (100 req/min per IP, burst of 200)
	router.Use(middleware.PerIP(100.0/60.0, 200))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	// Auth routes (public)
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.JWTAuth(jwtSecret), authHandler.Me)

		// OAuth routes - Web flow (browser redirects)
		auth.GET("/google", oauthHandler.GoogleLogin)
		auth.GET("/google/callback", oauthHandler.GoogleCallback)

		// OAuth routes - Mobile flow (ID token verification)
		auth.POST("/google/token", oauthHandler.GoogleTokenAuth)
	}

	// Pain log routes (protected + per-user rate limiting)
	logsGroup := router.Group("/api/logs")
	logsGroup.Use(middleware.JWTAuth(jwtSecret))
	logsGroup.Use(middleware.PerUser(500.0/3600.0, 100)) // 500/hour per user
	{
		logsGroup.GET("", painLogHandler.ListLogs)
		logsGroup.POST("", painLogHandler.CreateLog)
		logsGroup.GET("/:id", painLogHandler.GetLog)
		logsGroup.PUT("/:id", painLogHandler.UpdateLog)
		logsGroup.DELETE("/:id", painLogHandler.DeleteLog)
	}
	router.GET("/api/body-parts", painLogHandler.BodyParts)

	// Analytics routes (protected)
	analyticsGroup := router.Group("/api/analytics")
	analyticsGroup.Use(middleware.JWTAuth(jwtSecret))
	{
		analyticsGroup.GET("/stats", analyticsHandler.GetStats)
		analyticsGroup.GET("/flareups", analyticsHandler.GetFlareUps)
		analyticsGroup.GET("/urgency", analyticsHandler.GetUrgency)
		analyticsGroup.GET("/symptoms", analyticsHandler.GetSymptomFlags)
	}

	// Report routes (protected)
	reportsGroup := router.Group("/api/reports")
	reportsGroup.Use(middleware.JWTAuth(jwtSecret))
	{
		reportsGroup.GET("", reportHandler.GetReport)
		reportsGroup.GET("/summary", reportHandler.GetSummary)
	}

	// Sharing routes (protected): patients manage who sees their logs
	sharingGroup := router.Group("/api/sharing")
	sharingGroup.Use(middleware.JWTAuth(jwtSecret))
	{
		sharingGroup.POST("/grants", accessHandler.GrantAccess)
		sharingGroup.GET("/grants", accessHandler.ListGrants)
		sharingGroup.DELETE("/grants/:providerId", accessHandler.RevokeAccess)
		sharingGroup.GET("/patients", accessHandler.ListPatients)
	}

	// Provider routes (protected + active grant required)
	patientsGroup := router.Group("/api/patients/:patientId")
	patientsGroup.Use(middleware.JWTAuth(jwtSecret))
	patientsGroup.Use(middleware.RequirePatientAccess(accessMgr, "patientId"))
	{
		patientsGroup.GET("/logs", painLogHandler.ListLogs)
		patientsGroup.GET("/logs/:id", painLogHandler.GetLog)
		patientsGroup.GET("/stats", analyticsHandler.GetStats)
		patientsGroup.GET("/flareups", analyticsHandler.GetFlareUps)
		patientsGroup.GET("/urgency", analyticsHandler.GetUrgency)
		patientsGroup.GET("/symptoms", analyticsHandler.GetSymptomFlags)
		patientsGroup.GET("/report", reportHandler.GetReport)
		patientsGroup.GET("/report/summary", reportHandler.GetSummary)
	}

	// Assistant routes (protected; REST for request/response clients)
	chatGroup := router.Group("/api/chat")
	chatGroup.Use(middleware.JWTAuth(jwtSecret))
	chatGroup.Use(middleware.PerUser(500.0/3600.0, 100))
	{
		chatGroup.POST("/message", chatHandler.SendMessage)
		chatGroup.GET("/history", chatHandler.GetHistory)
	}

	// WebSocket chat route (protected via query param/header)
	router.GET("/ws/chat", wsHandler.HandleChat)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// buildLLMClient picks the assistant backend from LLM_PROVIDER. Returns
// nil when no provider is configured.
func buildLLMClient() llm.Client {
	switch getEnv("LLM_PROVIDER", "deepseek") {
	case "gemini":
		apiKey := getEnv("GEMINI_API_KEY", "")
		if apiKey == "" {
			log.Println("Warning: GEMINI_API_KEY not set, assistant disabled")
			return nil
		}
		log.Println("✅ Gemini assistant enabled")
		return gemini.NewHTTPClient(gemini.Config{APIKey: apiKey})
	default:
		apiKey := getEnv("DEEPSEEK_API_KEY", "")
		if apiKey == "" {
			log.Println("Warning: DEEPSEEK_API_KEY not set, assistant disabled")
			return nil
		}
		log.Println("✅ DeepSeek assistant enabled")
		return deepseek.NewHTTPClient(deepseek.Config{APIKey: apiKey})
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
