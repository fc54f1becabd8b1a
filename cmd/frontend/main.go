package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/drummonds/docstudio/config"
	"github.com/drummonds/docstudio/webapp"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

func main() {
	port := flag.String("port", "3000", "Port to run frontend server on")
	apiURL := flag.String("api", "", "Backend API URL (overrides SERVER_API_URL)")
	policy := flag.String("policy", "", "Render failure policy, abort or skip (overrides RENDER_FAILURE_POLICY)")
	flag.Parse()

	frontendConfig, logger := config.SetupFrontend()
	Logger = logger
	config.Logger = logger
	if *apiURL != "" {
		frontendConfig.ServerAPIURL = *apiURL
	}
	if *policy != "" {
		frontendConfig.RenderFailurePolicy = *policy
	}

	backendURL, err := url.Parse(frontendConfig.ServerAPIURL)
	if err != nil || backendURL.Host == "" {
		Logger.Error("Invalid backend API URL", "url", frontendConfig.ServerAPIURL, "error", err)
		os.Exit(1)
	}

	e := newFrontend(frontendConfig, backendURL)

	addr := fmt.Sprintf(":%s", *port)
	Logger.Info("Starting frontend server", "address", addr, "backendAPI", frontendConfig.ServerAPIURL)
	fmt.Printf("\n🎨  docstudio frontend on http://localhost:%s, API proxied to %s\n\n", *port, frontendConfig.ServerAPIURL)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		Logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

// newFrontend serves the WASM app from disk and proxies /api to the backend
func newFrontend(frontendConfig config.FrontEndConfig, backendURL *url.URL) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORS())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}, latency=${latency_human}\n",
	}))

	appHandler := webapp.Handler()
	e.File("/wasm_exec.js", "web/wasm_exec.js")
	e.GET("/app.js", echo.WrapHandler(appHandler))
	e.GET("/app.css", echo.WrapHandler(appHandler))
	e.GET("/manifest.webmanifest", echo.WrapHandler(appHandler))
	e.Static("/web", "web")
	e.File("/webapp/webapp.css", "webapp/webapp.css")
	e.File("/favicon.ico", "public/built/favicon.ico")

	// the browser talks to the backend through the proxy below unless
	// SERVER_API_URL points it elsewhere
	e.GET("/config.js", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/javascript", []byte(frontendConfig.ConfigJS()))
	})

	e.Group("/api", middleware.ProxyWithConfig(middleware.ProxyConfig{
		Balancer: middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{{URL: backendURL}}),
	}))

	// Serve go-app handler for all other routes (must be last)
	e.Any("/*", echo.WrapHandler(appHandler))
	return e
}
