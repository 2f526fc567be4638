// Package daemon wires storage, the ledger, the reward surfaces and the HTTP
// API into one long-running process.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/earnbox/earnbox/internal/api"
	"github.com/earnbox/earnbox/internal/app/ledger"
	"github.com/earnbox/earnbox/internal/app/manual"
	"github.com/earnbox/earnbox/internal/app/reward"
	"github.com/earnbox/earnbox/internal/app/withdraw"
	"github.com/earnbox/earnbox/internal/domain"
	"github.com/earnbox/earnbox/internal/infra/clock"
	"github.com/earnbox/earnbox/internal/infra/kv"
	"github.com/earnbox/earnbox/internal/infra/sqlite"
)

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 5 * time.Second

// HealthTimeout bounds the /health request made by Running.
const HealthTimeout = 500 * time.Millisecond

// ErrDaemonRunning is returned by offline writers when a daemon already owns
// the ledger.
var ErrDaemonRunning = errors.New("earnbox daemon is running")

// Running reports whether a daemon answers /health at cfg's address.
// Wildcard hosts are checked on loopback.
func Running(cfg APIConfig) bool {
	host := cfg.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	client := &http.Client{Timeout: HealthTimeout}
	resp, err := client.Get("http://" + net.JoinHostPort(host, strconv.Itoa(cfg.Port)) + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Daemon owns every long-lived component.
type Daemon struct {
	cfg Config

	closeStore func() error

	Ledger   *ledger.Store
	Surfaces *reward.Registry
	Withdraw *withdraw.Flow
	Manual   *manual.Form
	Hub      *api.EarningsHub
	Server   *api.Server
}

// OpenStorage opens the key-value store described by cfg.
func OpenStorage(cfg StorageConfig) (domain.KeyValueStore, func() error, error) {
	if cfg.InMemory {
		return kv.NewMemory(), func() error { return nil }, nil
	}
	db, err := sqlite.Open(cfg.Path())
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	key := cfg.Ledger().Key
	if saved, err := db.UpdatedAt(key); err == nil && !saved.IsZero() {
		log.Printf("[daemon] storage %s, %q last saved %s UTC", db.Path(), key, saved.Format(time.DateTime))
	} else {
		log.Printf("[daemon] storage %s, %q not saved yet", db.Path(), key)
	}
	return db, db.Close, nil
}

// OpenLedger opens storage and loads the ledger from it.
func OpenLedger(cfg StorageConfig) (*ledger.Store, func() error, error) {
	store, closeStore, err := OpenStorage(cfg)
	if err != nil {
		return nil, nil, err
	}
	return ledger.Load(store, cfg.Ledger()), closeStore, nil
}

// New builds a daemon from cfg. clk drives every timer.
func New(cfg Config, clk clock.Clock) (*Daemon, error) {
	surfaceCfgs, err := cfg.Rewards.Surfaces()
	if err != nil {
		return nil, err
	}
	flowCfg, err := cfg.Withdraw.Flow()
	if err != nil {
		return nil, err
	}

	l, closeStore, err := OpenLedger(cfg.Storage)
	if err != nil {
		return nil, err
	}

	surfaces, err := reward.NewRegistry(surfaceCfgs, clk, l, reward.LogOpener())
	if err != nil {
		closeStore()
		return nil, err
	}

	d := &Daemon{
		cfg:        cfg,
		closeStore: closeStore,
		Ledger:     l,
		Surfaces:   surfaces,
		Withdraw:   withdraw.NewFlow(l, clk, flowCfg),
		Manual:     manual.NewForm(l, clk),
		Hub:        api.NewEarningsHub(),
	}
	l.OnAppend(d.Hub.Publish)

	d.Server = api.NewServer(l, surfaces)
	d.Server.SetWithdraw(d.Withdraw)
	d.Server.SetManual(d.Manual)
	d.Server.SetEarningsHub(d.Hub)
	d.Server.SetCORSOrigins(cfg.API.CORSOrigins)
	if cfg.Metrics.Enabled {
		d.Server.EnableMetrics()
	}

	log.Printf("[daemon] ledger loaded: %d transactions, balance RS %s",
		l.Len(), l.Balance().StringFixed(2))
	return d, nil
}

// Run listens on the configured address and serves until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", d.cfg.API.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", d.cfg.API.Addr(), err)
	}
	return d.Serve(ctx, ln)
}

// Serve serves the API on ln until ctx is cancelled, then shuts down
// gracefully. Open live feeds are disconnected on shutdown.
func (d *Daemon) Serve(ctx context.Context, ln net.Listener) error {
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	srv := &http.Server{
		Handler:           d.Server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Printf("[daemon] listening on http://%s", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Printf("[daemon] shutting down")
	cancelBase()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close tears down the surfaces, flushes the ledger and closes storage.
// Pending reward credits are cancelled, never posted.
func (d *Daemon) Close() error {
	d.Surfaces.Close()
	d.Withdraw.Close()
	d.Ledger.Persist()
	return d.closeStore()
}
