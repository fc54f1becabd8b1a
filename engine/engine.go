package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/drummonds/docstudio/config"
	"github.com/drummonds/docstudio/database"
	"github.com/drummonds/docstudio/engine/pdfrenderer"
	"github.com/drummonds/docstudio/viewer"
	"github.com/oklog/ulid/v2"
)

// Engine owns the shared document machinery and the workspaces of all
// connected browsers
type Engine struct {
	Config   config.ServerConfig
	DB       database.Repository
	Storage  *Storage
	Renderer pdfrenderer.Renderer

	mu         sync.Mutex
	workspaces map[string]*Workspace
	now        func() time.Time
}

// New wires an engine from already opened parts
func New(serverConfig config.ServerConfig, db database.Repository, storage *Storage, renderer pdfrenderer.Renderer) *Engine {
	return &Engine{
		Config:     serverConfig,
		DB:         db,
		Storage:    storage,
		Renderer:   renderer,
		workspaces: map[string]*Workspace{},
		now:        time.Now,
	}
}

// Open opens the storage bucket and the renderer named in serverConfig
func Open(ctx context.Context, serverConfig config.ServerConfig, db database.Repository) (*Engine, error) {
	storage, err := OpenStorage(ctx, serverConfig.StorageURL)
	if err != nil {
		Logger.Error("Unable to open storage", "url", serverConfig.StorageURL, "error", err)
		return nil, err
	}
	renderer, err := pdfrenderer.NewRenderer(serverConfig.Renderer)
	if err != nil {
		Logger.Error("Unable to start renderer", "renderer", serverConfig.Renderer, "error", err)
		storage.Close()
		return nil, err
	}
	Logger.Info("Engine ready", "storage", serverConfig.StorageURL, "renderer", serverConfig.Renderer)
	return New(serverConfig, db, storage, renderer), nil
}

// InitWorkspace returns the workspace for id, creating it when it is not
// known. An empty id gets a fresh ULID.
func (e *Engine) InitWorkspace(id string) (*Workspace, error) {
	if id == "" {
		newULID, err := database.CalculateUUID(e.now())
		if err != nil {
			return nil, err
		}
		id = newULID.String()
	} else if _, err := ulid.Parse(id); err != nil {
		return nil, fmt.Errorf("workspace id %q: %w", id, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if w, ok := e.workspaces[id]; ok {
		return w, nil
	}
	w := newWorkspace(id, e)
	e.workspaces[id] = w
	Logger.Info("Created workspace", "workspace", id)
	return w, nil
}

// Workspace looks up a workspace created by InitWorkspace
func (e *Engine) Workspace(id string) (*Workspace, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("workspace %q: %w", id, viewer.ErrWorkspaceNotFound)
	}
	return w, nil
}

// WorkspaceCount is the number of live workspaces
func (e *Engine) WorkspaceCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.workspaces)
}

// SweepIdle evicts workspaces unused for longer than ttl and returns how
// many went
func (e *Engine) SweepIdle(ctx context.Context, ttl time.Duration) int {
	cutoff := e.now().Add(-ttl)
	var idle []*Workspace
	e.mu.Lock()
	for id, w := range e.workspaces {
		if w.idleSince().Before(cutoff) {
			idle = append(idle, w)
			delete(e.workspaces, id)
		}
	}
	e.mu.Unlock()

	for _, w := range idle {
		if err := w.close(ctx); err != nil {
			Logger.Warn("Unable to clean up workspace", "workspace", w.ID, "error", err)
		}
		Logger.Info("Evicted idle workspace", "workspace", w.ID)
	}
	return len(idle)
}

// Close evicts every workspace and releases the renderer and storage
func (e *Engine) Close() error {
	e.SweepIdle(context.Background(), -time.Hour)
	return errors.Join(e.Renderer.Close(), e.Storage.Close())
}
