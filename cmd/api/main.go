package main

import (
	"log"
	"os"

	_ "docgen/docs" // swagger docs
	"docgen/internal/database"
	"docgen/internal/handler"
	"docgen/internal/render"
	"docgen/internal/repository"
	"docgen/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Invoice Document Generation API
// @version         1.0
// @description     Renders finalized invoice aggregates into print-ready PDFs with embedded Swiss QR-bill payment slips.
// @host            localhost:8080
// @BasePath        /
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// One long-lived browser process shared across render calls. Constructed
	// here and passed by reference; each call opens and closes its own tab.
	browser, err := newBrowser()
	if err != nil {
		log.Fatalf("Headless browser startup failed: %v", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			log.Printf("WARNING: browser shutdown failed: %v", err)
		}
	}()
	log.Println("Connected to headless browser successfully.")

	// Set up dependencies (Repository -> Service -> Handler)
	prefRepo := repository.NewPreferenceRepository(db)
	markupBackend := render.NewMarkupBackend(browser)
	vectorBackend := render.NewVectorBackend()
	documentService := service.NewDocumentService(prefRepo, markupBackend, vectorBackend)
	templateService := service.NewTemplateService(prefRepo)

	// Initialize Handlers
	documentHandler := handler.NewDocumentHandler(documentService)
	templateHandler := handler.NewTemplateHandler(templateService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Register API Routes
	documentHandler.RegisterRoutes(router.Group(""))
	templateHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// newBrowser connects to BROWSER_URL when set (an already-running Chrome
// devtools endpoint), otherwise launches a local headless instance.
func newBrowser() (*rod.Browser, error) {
	controlURL := os.Getenv("BROWSER_URL")
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if bin := os.Getenv("CHROME_BIN"); bin != "" {
			l = l.Bin(bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, err
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, err
	}
	return browser, nil
}
