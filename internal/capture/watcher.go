package capture

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"cardbox/internal/config"
	"cardbox/internal/logging"
	"cardbox/internal/scanner"
	"cardbox/internal/services"
)

// Inbox subdirectory names. Images dropped under qr/ are decoded as QR
// stills; images under cards/ go through the OCR pipeline.
const (
	InboxQRDir    = "qr"
	InboxCardsDir = "cards"
)

var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// Watcher feeds the session from the filesystem inbox.
type Watcher struct {
	inboxDir string
	session  *Session
	decoder  scanner.Decoder
	logger   *slog.Logger

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	processed map[string]struct{}

	wg sync.WaitGroup
}

// NewWatcher prepares the inbox directories and the watcher over them.
func NewWatcher(cfg *config.Config, session *Session, decoder scanner.Decoder, logger *slog.Logger) (*Watcher, error) {
	inbox := cfg.Paths.InboxDir
	for _, sub := range []string{InboxQRDir, InboxCardsDir} {
		if err := os.MkdirAll(filepath.Join(inbox, sub), 0o755); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "watcher", "setup", "create inbox directory", err)
		}
	}
	return &Watcher{
		inboxDir:  inbox,
		session:   session,
		decoder:   decoder,
		logger:    logging.NewComponentLogger(logger, "watcher"),
		processed: make(map[string]struct{}),
	}, nil
}

// Start begins watching the inbox. Files already present are processed
// first so a drop made while the daemon was down is not lost.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return services.Wrap(services.ErrValidation, "watcher", "start", "already running", nil)
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.running = true
	w.cancel = cancel
	w.mu.Unlock()

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		w.markStopped()
		cancel()
		return services.Wrap(services.ErrConfiguration, "watcher", "start", "create fs watcher", err)
	}
	for _, sub := range []string{InboxQRDir, InboxCardsDir} {
		if err := notifier.Add(filepath.Join(w.inboxDir, sub)); err != nil {
			_ = notifier.Close()
			w.markStopped()
			cancel()
			return services.Wrap(services.ErrConfiguration, "watcher", "start", "watch inbox directory", err)
		}
	}

	w.wg.Add(1)
	go w.run(runCtx, notifier)

	w.logger.Info("inbox watcher started", logging.String("inbox", w.inboxDir))
	return nil
}

// Stop halts the watcher and waits for in-flight processing to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
	w.markStopped()
}

func (w *Watcher) markStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

func (w *Watcher) run(ctx context.Context, notifier *fsnotify.Watcher) {
	defer w.wg.Done()
	defer notifier.Close()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-notifier.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					w.forget(event.Name)
				}
				continue
			}
			w.handle(ctx, event.Name)
		case err, ok := <-notifier.Errors:
			if !ok {
				return
			}
			w.logger.Warn("inbox watch error", logging.Error(err))
		}
	}
}

// sweep processes files that were already sitting in the inbox.
func (w *Watcher) sweep(ctx context.Context) {
	for _, sub := range []string{InboxQRDir, InboxCardsDir} {
		dir := filepath.Join(w.inboxDir, sub)
		entries, err := os.ReadDir(dir)
		if err != nil {
			w.logger.Warn("read inbox directory", logging.String("dir", dir), logging.Error(err))
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			w.handle(ctx, filepath.Join(dir, entry.Name()))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	if _, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
		return
	}
	if !w.claim(path) {
		return
	}
	if !waitForSettle(ctx, path) {
		w.forget(path)
		return
	}

	var err error
	switch filepath.Base(filepath.Dir(path)) {
	case InboxQRDir:
		_, err = w.session.ProcessQRImage(ctx, path, w.decoder)
	case InboxCardsDir:
		_, err = w.session.ProcessCardImage(ctx, path)
	default:
		return
	}
	if err != nil {
		w.logger.Warn("inbox file not processed",
			logging.String("path", path),
			logging.Error(err),
		)
		return
	}
	w.logger.Info("inbox file processed",
		logging.String(logging.FieldEventType, "inbox_processed"),
		logging.String("path", path),
	)
}

// claim marks the path as handled so Create followed by Write does not
// process the same drop twice.
func (w *Watcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, done := w.processed[path]; done {
		return false
	}
	w.processed[path] = struct{}{}
	return true
}

func (w *Watcher) forget(path string) {
	w.mu.Lock()
	delete(w.processed, path)
	w.mu.Unlock()
}

// waitForSettle waits until the file size stops changing, so a partially
// copied image is not fed to the decoder. Returns false when the context
// ends or the file disappears.
func waitForSettle(ctx context.Context, path string) bool {
	var lastSize int64 = -1
	for i := 0; i < 50; i++ {
		info, err := os.Stat(path)
		if err != nil {
			return false
		}
		if info.Size() > 0 && info.Size() == lastSize {
			return true
		}
		lastSize = info.Size()
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
	return false
}
