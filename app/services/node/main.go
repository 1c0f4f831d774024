package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

// config holds every setting of the node. Values are overridden by
// LEDGER_ prefixed environment variables or command line flags.
type config struct {
	conf.Version
	Web struct {
		ReadTimeout     time.Duration `conf:"default:5s"`
		WriteTimeout    time.Duration `conf:"default:120s"`
		IdleTimeout     time.Duration `conf:"default:120s"`
		ShutdownTimeout time.Duration `conf:"default:20s"`
		DebugHost       string        `conf:"default:0.0.0.0:7080"`
		PublicHost      string        `conf:"default:0.0.0.0:8080"`
		CorsOrigin      string        `conf:"default:*"`
	}
	State struct {
		Beneficiary   string        `conf:"default:miner"`
		MiningTimeout time.Duration `conf:"default:1m"`
		GenesisPath   string
	}
}

func main() {
	log, err := logger.New("LEDGER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := config{
		Version: conf.Version{
			Build: build,
			Desc:  "single node proof of work ledger",
		},
	}

	help, err := conf.Parse("LEDGER", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Blockchain Support

	// Every event raised by the blockchain packages is logged and forwarded
	// to the websocket clients.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	st, err := newState(cfg, ev)
	if err != nil {
		return err
	}
	defer st.Shutdown()

	worker.Run(st, ev)

	// =========================================================================
	// Start Servers

	go serveDebug(log, cfg.Web.DebugHost, handlers.DebugMux(build, log, st))

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	public := http.Server{
		Addr: cfg.Web.PublicHost,
		Handler: handlers.PublicMux(handlers.MuxConfig{
			Shutdown:      shutdown,
			CorsOrigin:    cfg.Web.CorsOrigin,
			Log:           log,
			State:         st,
			MiningTimeout: cfg.State.MiningTimeout,
			Evts:          evts,
		}),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Websocket handlers return once their channel is closed and a
		// mining request returns once its search is cancelled. Both must
		// happen before the server can drain.
		evts.Shutdown()
		st.Worker.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}

// newState seals the genesis block and returns the node state. The genesis
// values come from the configured file when one is set.
func newState(cfg config, ev state.EventHandler) (*state.State, error) {
	gen := genesis.Default()
	if cfg.State.GenesisPath != "" {
		var err error
		if gen, err = genesis.Load(cfg.State.GenesisPath); err != nil {
			return nil, fmt.Errorf("loading genesis: %w", err)
		}
	}

	storage, err := memory.New()
	if err != nil {
		return nil, fmt.Errorf("constructing storage: %w", err)
	}

	st, err := state.New(state.Config{
		Beneficiary: cfg.State.Beneficiary,
		Genesis:     gen,
		Storage:     storage,
		EvHandler:   ev,
	})
	if err != nil {
		return nil, fmt.Errorf("constructing state: %w", err)
	}

	return st, nil
}

// serveDebug runs the debug server. It isn't shut down with the public
// server.
func serveDebug(log *zap.SugaredLogger, host string, mux http.Handler) {
	log.Infow("startup", "status", "debug router started", "host", host)

	if err := http.ListenAndServe(host, mux); err != nil {
		log.Errorw("shutdown", "status", "debug router closed", "host", host, "ERROR", err)
	}
}
