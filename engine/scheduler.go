package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// InitializeSchedules starts the cron jobs, currently the idle workspace sweep.
// The returned cron is already running, stop it on shutdown.
func (serverHandler *ServerHandler) InitializeSchedules() *cron.Cron {
	serverConfig := serverHandler.ServerConfig
	ttl := time.Duration(serverConfig.WorkspaceTTL) * time.Minute

	c := cron.New()
	var sweepJob cron.Job
	sweepJob = cron.FuncJob(func() { serverHandler.sweepJobFunc(ttl) })
	sweepJob = cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(sweepJob) //ensure we don't kick off another if old one is still running
	if _, err := c.AddJob(fmt.Sprintf("@every %dm", serverConfig.WorkspaceSweepInterval), sweepJob); err != nil {
		Logger.Error("Unable to schedule workspace sweep", "error", err)
	}
	Logger.Info("Adding workspace sweep scheduler", "interval_minutes", serverConfig.WorkspaceSweepInterval, "ttl_minutes", serverConfig.WorkspaceTTL)
	c.Start()
	return c
}

func (serverHandler *ServerHandler) sweepJobFunc(ttl time.Duration) {
	// Add panic recovery to prevent entire application crash
	defer func() {
		if r := recover(); r != nil {
			Logger.Error("Panic recovered in workspace sweep", "panic", r)
		}
	}()

	evicted := serverHandler.Engine.SweepIdle(context.Background(), ttl)
	Logger.Debug("Workspace sweep finished", "evicted", evicted, "remaining", serverHandler.Engine.WorkspaceCount())
}
