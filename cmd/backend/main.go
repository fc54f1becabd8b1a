package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/drummonds/docstudio/config"
	"github.com/drummonds/docstudio/database"
	"github.com/drummonds/docstudio/engine"
	"github.com/drummonds/docstudio/internal/wire"
	"github.com/drummonds/docstudio/viewer"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// injectGlobals injects all of our globals into their packages
func injectGlobals(logger *slog.Logger) {
	Logger = logger
	database.Logger = Logger
	config.Logger = Logger
	engine.Logger = Logger
	viewer.Logger = Logger
}

// @title docstudio Backend API
// @version 1.0
// @description Document engine API: staging, page rendering, PDF export and the collection

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @tag.name Workspace
// @tag.description Staging, opening and rendering documents

// @tag.name Collection
// @tag.description Documents kept between sessions

// @tag.name Admin
// @tag.description Server information

// @tag.name Health
// @tag.description Service health check

func main() {
	port := flag.String("port", "8000", "Port to run backend server on")
	flag.Parse()

	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("🔧  docstudio Backend API Server")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("• API-only mode (no frontend)")
	fmt.Println("• All endpoints under /api/*")
	fmt.Println("• CORS enabled for frontend access")
	fmt.Println(strings.Repeat("=", 50) + "\n")

	serverConfig, logger := config.SetupServer()
	injectGlobals(logger) //inject the logger into all of the packages

	if serverConfig.DatabaseType == "ephemeral" {
		fmt.Println("🚀  EPHEMERAL DATABASE MODE")
		fmt.Println("• Database will be destroyed on exit")
		fmt.Println()
	}

	repo, err := database.NewRepository(serverConfig)
	if err != nil {
		Logger.Error("Unable to set up database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	if err := database.WriteConfigToDB(serverConfig, repo); err != nil {
		Logger.Warn("Unable to write config to database", "error", err)
	}

	docEngine, err := engine.Open(context.Background(), serverConfig, repo)
	if err != nil {
		Logger.Error("Unable to start document engine", "error", err)
		os.Exit(1)
	}
	defer docEngine.Close()

	e := echo.New()
	e.HideBanner = true

	// every unknown path answers JSON
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusNotFound {
			engine.NotFound(c)
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}

	serverHandler := engine.ServerHandler{DB: repo, Echo: e, ServerConfig: serverConfig, Engine: docEngine}
	Logger.Info("Initializing backend services...")
	schedules := serverHandler.InitializeSchedules()
	defer schedules.Stop()
	if err := serverHandler.StartupChecks(); err != nil {
		Logger.Error("Startup checks failed", "error", err)
		os.Exit(1)
	}
	Logger.Info("Backend services initialized")

	// CORS configuration - allow frontend from different origin
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"}, // In production, specify your frontend URL
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, wire.WorkspaceHeader},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", serverConfig.MaxUploadMB)))

	// Request logging
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}, latency=${latency_human}\n",
	}))

	Logger.Info("Setting up API routes...")
	serverHandler.RegisterRoutes()

	// Health check endpoint
	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "docstudio Backend API",
		})
	})

	// Override port if specified via flag
	if *port != "8000" {
		serverConfig.ListenAddrPort = *port
	}

	addr := fmt.Sprintf("%s:%s", serverConfig.ListenAddrIP, serverConfig.ListenAddrPort)
	Logger.Info("Starting Backend API Server", "address", addr)
	fmt.Printf("\n✅  Backend API Server running on %s\n", addr)
	fmt.Printf("📡  API endpoints available at http://%s/api/\n", addr)
	fmt.Printf("🏥  Health check: http://%s/api/health\n\n", addr)

	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		Logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
