package main

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	// extra blob providers, selected by STORAGE_URL
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/drummonds/docstudio/config"
	"github.com/drummonds/docstudio/database"
	"github.com/drummonds/docstudio/engine"
	"github.com/drummonds/docstudio/internal/wire"
	"github.com/drummonds/docstudio/viewer"
	"github.com/drummonds/docstudio/webapp"
)

//go:embed webapp/webapp.css
var webappFS embed.FS

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

const notFoundHTML = `<!DOCTYPE html>
<html>
<head><title>404 - Not Found</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
	<h1>404 - Page Not Found</h1>
	<p>The page you're looking for doesn't exist.</p>
	<a href="/" style="color: #3498db; text-decoration: none; font-size: 18px;">← Back to the studio</a>
</body>
</html>`

func main() {
	serverConfig, logger := config.SetupServer()
	injectGlobals(logger) //inject the logger into all of the packages

	if serverConfig.DatabaseType == "ephemeral" {
		fmt.Println("\n" + strings.Repeat("=", 50))
		fmt.Println("🚀  EPHEMERAL DATABASE MODE")
		fmt.Println(strings.Repeat("=", 50))
		fmt.Println("• Database will be destroyed on exit")
		fmt.Println("• The collection is not kept between runs")
		fmt.Println(strings.Repeat("=", 50) + "\n")
	}

	Logger.Info("Setting up database", "type", serverConfig.DatabaseType)
	db, err := database.NewRepository(serverConfig)
	if err != nil {
		Logger.Error("Unable to set up database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.WriteConfigToDB(serverConfig, db); err != nil {
		Logger.Warn("Unable to write config to database", "error", err)
	}

	docEngine, err := engine.Open(context.Background(), serverConfig, db)
	if err != nil {
		Logger.Error("Unable to start document engine", "error", err)
		os.Exit(1)
	}
	defer docEngine.Close()

	e, serverHandler := newServer(serverConfig, db, docEngine)
	schedules := serverHandler.InitializeSchedules() //initialize all the cron jobs
	defer schedules.Stop()
	if err := serverHandler.StartupChecks(); err != nil {
		Logger.Error("Startup checks failed", "error", err)
		os.Exit(1)
	}
	Logger.Info("Startup checks complete")

	if serverConfig.ListenAddrIP == "" {
		Logger.Info("No Ip Addr set, binding on ALL addresses")
	}
	startServer(e, &serverConfig)
}

// newServer builds the echo instance with the API and the frontend routes
func newServer(serverConfig config.ServerConfig, db database.Repository, docEngine *engine.Engine) (*echo.Echo, *engine.ServerHandler) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = notFoundHandler(e)

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, wire.WorkspaceHeader},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))
	if serverConfig.MaxUploadMB > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", serverConfig.MaxUploadMB)))
	}

	serverHandler := &engine.ServerHandler{DB: db, Echo: e, ServerConfig: serverConfig, Engine: docEngine}
	serverHandler.RegisterRoutes()
	registerFrontend(e, serverConfig.FrontEndConfig)
	return e, serverHandler
}

// notFoundHandler answers API 404s with JSON and page 404s with HTML
func notFoundHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}
		if code != http.StatusNotFound {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}
		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			engine.NotFound(c)
			return
		}
		c.HTML(http.StatusNotFound, notFoundHTML)
	}
}

// registerFrontend serves the go-app shell. app.wasm and wasm_exec.js are
// build outputs, so they come from the web directory on disk.
func registerFrontend(e *echo.Echo, frontEnd config.FrontEndConfig) {
	appHandler := webapp.Handler()

	e.File("/wasm_exec.js", "web/wasm_exec.js")
	e.GET("/app.js", echo.WrapHandler(appHandler))
	e.GET("/app.css", echo.WrapHandler(appHandler))
	e.GET("/manifest.webmanifest", echo.WrapHandler(appHandler))
	e.Static("/web", "web")
	e.File("/favicon.ico", "public/built/favicon.ico")

	e.GET("/webapp/webapp.css", func(c echo.Context) error {
		data, err := webappFS.ReadFile("webapp/webapp.css")
		if err != nil {
			return c.String(http.StatusNotFound, "webapp.css not found")
		}
		return c.Blob(http.StatusOK, "text/css", data)
	})

	// Inject backend API URL into the page
	e.GET("/config.js", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/javascript", []byte(frontEnd.ConfigJS()))
	})

	// unknown API paths must not fall through to the app shell
	e.Any("/api/*", engine.NotFound)

	// The WASM app handles its own client-side routing (must be last)
	e.Any("/*", echo.WrapHandler(appHandler))
}

// startServer tries a few ports upward when the configured one is taken
func startServer(e *echo.Echo, serverConfig *config.ServerConfig) {
	maxRetries := 5
	startPort := serverConfig.ListenAddrPort

	for attempt := 0; attempt < maxRetries; attempt++ {
		addr := fmt.Sprintf("%s:%s", serverConfig.ListenAddrIP, serverConfig.ListenAddrPort)
		Logger.Info("Attempting to start server", "address", addr, "attempt", attempt+1)
		if serverConfig.ListenAddrPort != startPort {
			Logger.Warn("Server starting on alternative port due to conflicts",
				"requested_port", startPort,
				"actual_port", serverConfig.ListenAddrPort)
		}

		startErr := e.Start(addr)
		if startErr == nil || startErr == http.ErrServerClosed {
			return
		}
		if !isAddressInUse(startErr) {
			Logger.Error("Failed to start server", "error", startErr)
			os.Exit(1)
		}

		Logger.Warn("Port already in use, trying next port",
			"port", serverConfig.ListenAddrPort,
			"attempt", attempt+1,
			"max_attempts", maxRetries)
		portNum := 0
		fmt.Sscanf(serverConfig.ListenAddrPort, "%d", &portNum)
		serverConfig.ListenAddrPort = fmt.Sprintf("%d", portNum+1)
	}
	Logger.Error("Failed to find available port after maximum retries",
		"start_port", startPort,
		"end_port", serverConfig.ListenAddrPort,
		"max_retries", maxRetries)
	os.Exit(1)
}

// isAddressInUse checks if the error is due to address already in use
func isAddressInUse(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "address already in use")
}
