package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"cardbox/internal/capture"
	"cardbox/internal/config"
	"cardbox/internal/contact"
	"cardbox/internal/logging"
	"cardbox/internal/store"
)

// Daemon runs the inbox watcher for the lifetime of the process. One
// instance per data directory; the lock file enforces it.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	session *capture.Session
	watcher *capture.Watcher

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status reports daemon runtime information.
type Status struct {
	Running      bool
	SessionID    string
	DatabasePath string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, session *capture.Session, watcher *capture.Watcher, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || session == nil || watcher == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, session, watcher, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "cardboxd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    st,
		session:  session,
		watcher:  watcher,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the inbox watcher.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another cardbox daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.watcher.Start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		return fmt.Errorf("start inbox watcher: %w", err)
	}
	d.cancel = cancel

	d.running.Store(true)
	d.logger.Info("cardbox daemon started",
		logging.String("lock", d.lockPath),
		logging.String(logging.FieldSessionID, d.session.ID()),
	)
	return nil
}

// Stop halts the watcher and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.watcher.Stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("cardbox daemon stopped")
}

// Close stops the daemon if needed and closes the store.
func (d *Daemon) Close() {
	d.Stop()
	if err := d.store.Close(); err != nil {
		d.logger.Warn("close contact store", logging.Error(err))
	}
}

// Record returns the current reconciled contact record.
func (d *Daemon) Record() contact.Record {
	return d.session.Record()
}

// ResetRecord clears the contact record on behalf of a control client.
func (d *Daemon) ResetRecord(ctx context.Context) {
	d.session.Reset(ctx)
}

// Status returns runtime details for diagnostics.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		SessionID:    d.session.ID(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
	}
}
