// Package handlers manages the different versions of the API.
package handlers

import (
	"context"
	"expvar"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/ardanlabs/ledger/app/services/node/handlers/debug/checkgrp"
	v1 "github.com/ardanlabs/ledger/app/services/node/handlers/v1"
	"github.com/ardanlabs/ledger/business/web/mid"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

// MuxConfig contains all the mandatory systems required by handlers.
type MuxConfig struct {
	Shutdown      chan os.Signal
	CorsOrigin    string
	Log           *zap.SugaredLogger
	State         *state.State
	MiningTimeout time.Duration
	Evts          *events.Events
}

// PublicMux constructs a http.Handler with all application routes defined.
func PublicMux(cfg MuxConfig) http.Handler {
	cors := mid.Cors(cfg.CorsOrigin)

	// Errors sits outside Metrics and Panics so a recovered panic is counted
	// and still gets a response.
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Metrics(),
		mid.Panics(),
		cors,
	)

	// Preflight requests are answered by the cors middleware.
	noop := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return nil
	}
	app.Handle(http.MethodOptions, "", "/*", noop)

	v1.PublicRoutes(app, v1.Config{
		Log:           cfg.Log,
		State:         cfg.State,
		MiningTimeout: cfg.MiningTimeout,
		Evts:          cfg.Evts,
	})

	return app
}

// DebugMux returns a mux with the profiling, metrics and health check
// routes. A fresh mux is used instead of http.DefaultServeMux so nothing a
// dependency registers there is exposed.
func DebugMux(build string, log *zap.SugaredLogger, st *state.State) http.Handler {
	cgh := checkgrp.Handlers{
		Build: build,
		Log:   log,
		State: st,
	}

	routes := map[string]http.HandlerFunc{
		"/debug/pprof/":        pprof.Index,
		"/debug/pprof/cmdline": pprof.Cmdline,
		"/debug/pprof/profile": pprof.Profile,
		"/debug/pprof/symbol":  pprof.Symbol,
		"/debug/pprof/trace":   pprof.Trace,
		"/debug/vars":          expvar.Handler().ServeHTTP,
		"/debug/readiness":     cgh.Readiness,
		"/debug/liveness":      cgh.Liveness,
	}

	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}

	return mux
}
