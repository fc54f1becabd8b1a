package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/drummonds/docstudio/config"
	"github.com/drummonds/docstudio/internal/pdftest"
)

// StartupChecks performs all the checks to make sure everything works
func (serverHandler *ServerHandler) StartupChecks() error {
	if err := storageDirectoryChecks(serverHandler.ServerConfig); err != nil {
		return err
	}
	if err := storageChecks(serverHandler.Engine.Storage); err != nil {
		return err
	}
	return rendererChecks(serverHandler.Engine)
}

// storageDirectoryChecks ensures a file:// bucket has its directory
func storageDirectoryChecks(serverConfig config.ServerConfig) error {
	dir, ok := serverConfig.StorageDir()
	if !ok {
		Logger.Info("Storage is not on the local disk, skipping directory check", "url", serverConfig.StorageURL)
		return nil
	}

	// Check if directory exists
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			Logger.Info("Creating storage directory", "path", dir)
			if err := os.MkdirAll(dir, 0755); err != nil {
				Logger.Error("Failed to create storage directory", "path", dir, "error", err)
				return err
			}
			return nil
		}
		Logger.Error("Error checking storage directory", "path", dir, "error", err)
		return err
	}

	// Check if it's actually a directory
	if !info.IsDir() {
		Logger.Error("Storage path exists but is not a directory", "path", dir)
		return fmt.Errorf("storage path is not a directory: %s", dir)
	}
	Logger.Info("Storage directory exists", "path", dir)
	return nil
}

// storageChecks writes, reads back and removes a check object
func storageChecks(storage *Storage) error {
	ctx := context.Background()
	key := ".startup-check"
	if err := storage.Put(ctx, key, []byte("ok"), "text/plain"); err != nil {
		Logger.Error("Storage is not writable", "url", storage.URL(), "error", err)
		return err
	}
	if _, err := storage.Get(ctx, key); err != nil {
		Logger.Error("Storage is not readable", "url", storage.URL(), "error", err)
		return err
	}
	return storage.Delete(ctx, key)
}

// rendererChecks renders a one page document so a broken renderer shows up
// at startup rather than on the first upload
func rendererChecks(engine *Engine) error {
	src, err := engine.openSource(FormatPDF, pdftest.Build(pdftest.Mark))
	if err != nil {
		Logger.Error("Renderer failed to open a test document", "renderer", engine.Config.Renderer, "error", err)
		return err
	}
	defer src.Close()
	page, err := engine.renderPage(src, 0)
	if err != nil {
		Logger.Error("Renderer failed to render a test page", "renderer", engine.Config.Renderer, "error", err)
		return err
	}
	if page == nil {
		Logger.Warn("Renderer produced a blank test page", "renderer", engine.Config.Renderer)
		return nil
	}
	Logger.Info("Renderer validated", "renderer", engine.Config.Renderer, "bytes", len(page.Data))
	return nil
}
