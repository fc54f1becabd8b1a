package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// ServerConfig contains all of the server settings
type ServerConfig struct {
	StormID          int `storm:"id"`
	ListenAddrIP     string
	ListenAddrPort   string
	DatabaseType     string
	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string `json:"-"`
	DatabaseDbname   string
	DatabaseSslmode  string
	// StorageURL is a gocloud blob bucket URL, e.g. file:///srv/docstudio or mem://
	StorageURL string
	// Renderer selects the PDF rasterizer: pdfium (pure Go) or fitz (CGo, MuPDF)
	Renderer    string
	RenderDPI   int
	RenderWidth int //pixels, 0 keeps the rendered width
	// WorkspaceTTL and WorkspaceSweepInterval are in minutes
	WorkspaceTTL           int
	WorkspaceSweepInterval int
	MaxUploadMB            int
	UseReverseProxy        bool
	BaseURL                string
	FrontEndConfig
}

// FrontEndConfig stores all of the frontend settings
type FrontEndConfig struct {
	ServerAPIURL        string
	RenderFailurePolicy string //abort or skip
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

// SetupServer loads configuration and returns ServerConfig and Logger
func SetupServer() (ServerConfig, *slog.Logger) {
	// Load .env file (silently ignore if doesn't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("config.env")

	logger := setupLogging()
	Logger = logger

	serverConfigLive := LoadServerConfig()
	logger.Info("Database configuration loaded", "type", serverConfigLive.DatabaseType)
	logger.Info("Storage configuration loaded", "url", serverConfigLive.StorageURL, "renderer", serverConfigLive.Renderer)

	fmt.Println("\n========================================")
	fmt.Println("   docstudio - Document Studio")
	fmt.Println("========================================")
	fmt.Printf("Server will start on: %s:%s\n", serverConfigLive.ListenAddrIP, serverConfigLive.ListenAddrPort)
	if serverConfigLive.ListenAddrIP == "" {
		fmt.Println("(Listening on all network interfaces)")
	}
	fmt.Printf("Detailed logs: %s\n", getEnv("LOG_FILE", "docstudio.log"))
	fmt.Println("Initializing...")

	if serverConfigLive.UseReverseProxy {
		logger.Info("Using Reverse Proxy", "baseURL", serverConfigLive.BaseURL)
	} else {
		logger.Info("Using relative URLs for API calls (frontend will use same host it was served from)")
	}
	return serverConfigLive, logger
}

// LoadServerConfig reads the server settings from the environment
func LoadServerConfig() ServerConfig {
	serverConfigLive := ServerConfig{}

	// Server configuration
	serverConfigLive.ListenAddrPort = getEnv("SERVER_PORT", "8000")
	serverConfigLive.ListenAddrIP = getEnv("SERVER_ADDR", "")

	// Database configuration
	serverConfigLive.DatabaseType = getEnv("DATABASE_TYPE", "sqlite")
	serverConfigLive.DatabaseHost = getEnv("DATABASE_HOST", "localhost")
	serverConfigLive.DatabasePort = getEnv("DATABASE_PORT", "5432")
	serverConfigLive.DatabaseUser = getEnv("DATABASE_USER", "docstudio")
	serverConfigLive.DatabasePassword = getEnv("DATABASE_PASSWORD", "")
	serverConfigLive.DatabaseDbname = getEnv("DATABASE_NAME", "databases/docstudio.sqlite")
	serverConfigLive.DatabaseSslmode = getEnv("DATABASE_SSLMODE", "disable")

	// Storage, relative file paths are made absolute
	serverConfigLive.StorageURL = storageURL(getEnv("STORAGE_URL", "storage"))

	// Rendering
	serverConfigLive.Renderer = strings.ToLower(getEnv("RENDERER", "pdfium"))
	serverConfigLive.RenderDPI = getEnvInt("RENDER_DPI", 150)
	serverConfigLive.RenderWidth = getEnvInt("RENDER_WIDTH", 1024)

	// Workspaces
	serverConfigLive.WorkspaceTTL = getEnvInt("WORKSPACE_TTL", 60)
	serverConfigLive.WorkspaceSweepInterval = getEnvInt("WORKSPACE_SWEEP_INTERVAL", 5)
	serverConfigLive.MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", 64)

	// Reverse proxy configuration
	serverConfigLive.UseReverseProxy = getEnvBool("PROXY_ENABLED", false)
	serverConfigLive.BaseURL = getEnv("BASE_URL", "https://docstudio.domain.org")

	// Frontend configuration
	serverConfigLive.FrontEndConfig = loadFrontEndConfig("")
	return serverConfigLive
}

// SetupFrontend loads configuration for frontend-only server
func SetupFrontend() (FrontEndConfig, *slog.Logger) {
	// Load .env file (silently ignore if doesn't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("config.env")
	_ = godotenv.Load("frontend.env")

	logger := setupLogging()
	Logger = logger

	frontendConfig := loadFrontEndConfig("http://localhost:8000")
	logger.Info("Frontend configuration loaded",
		"apiURL", frontendConfig.ServerAPIURL,
		"renderFailurePolicy", frontendConfig.RenderFailurePolicy)

	return frontendConfig, logger
}

func loadFrontEndConfig(defaultAPIURL string) FrontEndConfig {
	return FrontEndConfig{
		ServerAPIURL:        getEnv("SERVER_API_URL", defaultAPIURL),
		RenderFailurePolicy: strings.ToLower(getEnv("RENDER_FAILURE_POLICY", "abort")),
	}
}

// storageURL turns a bare directory into a file:// bucket URL
func storageURL(value string) string {
	if strings.Contains(value, "://") {
		return value
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		abs = value
	}
	return "file://" + filepath.ToSlash(abs)
}

// StorageDir returns the directory of a file:// storage URL
func (c ServerConfig) StorageDir() (string, bool) {
	dir, ok := strings.CutPrefix(c.StorageURL, "file://")
	if !ok {
		return "", false
	}
	if i := strings.IndexByte(dir, '?'); i >= 0 {
		dir = dir[:i]
	}
	return filepath.FromSlash(dir), true
}

// setupLogging configures the application logger
func setupLogging() *slog.Logger {
	logLevel := getEnv("LOG_LEVEL", "debug")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelDebug
	}

	handlerOptions := &slog.HandlerOptions{Level: level}

	logOutput := getEnv("LOG_OUTPUT", "file")
	var logWriter io.Writer

	if logOutput == "stdout" {
		logWriter = os.Stdout
	} else {
		logPath, err := filepath.Abs(filepath.ToSlash(getEnv("LOG_FILE", "docstudio.log")))
		if err != nil {
			fmt.Printf("Error creating log file path: %v\n", err)
			logWriter = os.Stdout
		} else {
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				fmt.Printf("Failed to open log file: %v\n", err)
				logWriter = os.Stdout
			} else {
				logWriter = logFile
				fmt.Println("Logging to file: ", logPath)
			}
		}
	}

	handler := slog.NewTextHandler(logWriter, handlerOptions)
	return slog.New(handler)
}

// ConfigJS is the script the web app loads to find the API
func (f FrontEndConfig) ConfigJS() string {
	return fmt.Sprintf(`
// docstudio Frontend Configuration
window.docstudioConfig = {
    apiURL: %q,
    renderFailurePolicy: %q
};
`, f.ServerAPIURL, f.RenderFailurePolicy)
}
