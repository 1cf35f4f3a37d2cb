// Command cardboxd is the background capture daemon. It watches the inbox
// for dropped QR stills and card photos, merges everything into the single
// contact record, and publishes notifications.
package main

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"cardbox/internal/capture"
	"cardbox/internal/config"
	"cardbox/internal/daemon"
	"cardbox/internal/ipc"
	"cardbox/internal/logging"
	"cardbox/internal/notifications"
	"cardbox/internal/ocr"
	"cardbox/internal/scanner"
	"cardbox/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	st, err := store.Open(cfg, logger)
	if err != nil {
		logger.Error("open contact store", logging.Error(err))
		return
	}

	recognizer := ocr.NewService(ocr.Config{
		Binary:      cfg.OCR.Binary,
		Languages:   cfg.OCR.Languages,
		PageSegMode: cfg.OCR.PageSegMode,
		Timeout:     cfg.OCRTimeout(),
	}, logger)
	if err := recognizer.Available(); err != nil {
		logger.Warn("tesseract unavailable; card photos will fail until installed", logging.Error(err))
	}

	notifier := notifications.NewService(cfg)
	session := capture.NewSession(cfg, st, notifier, recognizer, logger)

	watcher, err := capture.NewWatcher(cfg, session, scanner.NewQRDecoder(), logger)
	if err != nil {
		logger.Error("create inbox watcher", logging.Error(err))
		_ = st.Close()
		return
	}

	d, err := daemon.New(cfg, st, session, watcher, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = st.Close()
		return
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(ctx, socketPath(cfg), d, logger)
	if err != nil {
		logger.Error("start IPC server", logging.Error(err))
		return
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("cardboxd shutting down")
}

func socketPath(cfg *config.Config) string {
	if cfg == nil {
		return "cardboxd.sock"
	}
	return filepath.Join(cfg.Paths.DataDir, "cardboxd.sock")
}
