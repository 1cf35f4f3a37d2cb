package capture_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cardbox/internal/capture"
	"cardbox/internal/contact"
	"cardbox/internal/logging"
	"cardbox/internal/services"
	"cardbox/internal/testsupport"
)

func waitForRecord(t *testing.T, session *capture.Session, check func(contact.Record) bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if check(session.Record()) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("record never reached expected shape: %+v", session.Record())
}

func TestWatcherProcessesExistingQRDrop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	session := capture.NewSession(cfg, st, nil, nil, logging.NewNop())

	// Dropped before the watcher starts; the initial sweep must find it.
	testsupport.WritePNG(t, filepath.Join(cfg.Paths.InboxDir, capture.InboxQRDir, "drop.png"), 50, 50)

	watcher, err := capture.NewWatcher(cfg, session, fixedDecoder{text: sampleVCard}, logging.NewNop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := watcher.Start(context.Background()); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer watcher.Stop()

	waitForRecord(t, session, func(rec contact.Record) bool {
		return rec.Name == "Maria Lopez"
	})
}

func TestWatcherRoutesCardDropsToOCR(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	recognizer := &cannedRecognizer{text: "ANA RUIZ\nana@firm.com"}
	session := capture.NewSession(cfg, st, nil, recognizer, logging.NewNop())

	watcher, err := capture.NewWatcher(cfg, session, fixedDecoder{err: errors.New("unused")}, logging.NewNop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := watcher.Start(context.Background()); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer watcher.Stop()

	testsupport.WritePNG(t, filepath.Join(cfg.Paths.InboxDir, capture.InboxCardsDir, "card.png"), 80, 50)

	waitForRecord(t, session, func(rec contact.Record) bool {
		return rec.Email == "ana@firm.com"
	})
}

func TestWatcherIgnoresNonImageFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	session := capture.NewSession(cfg, st, nil, nil, logging.NewNop())

	watcher, err := capture.NewWatcher(cfg, session, fixedDecoder{text: sampleVCard}, logging.NewNop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := watcher.Start(context.Background()); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer watcher.Stop()

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InboxDir, capture.InboxQRDir, "readme.txt"), "ignore me")

	time.Sleep(300 * time.Millisecond)
	if got := session.Record(); !got.IsEmpty() {
		t.Fatalf("non-image drop mutated the record: %+v", got)
	}
}

func TestWatcherStartTwiceFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	session := capture.NewSession(cfg, st, nil, nil, logging.NewNop())

	watcher, err := capture.NewWatcher(cfg, session, fixedDecoder{text: "x"}, logging.NewNop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := watcher.Start(context.Background()); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(context.Background()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	session := capture.NewSession(cfg, st, nil, nil, logging.NewNop())

	watcher, err := capture.NewWatcher(cfg, session, fixedDecoder{text: "x"}, logging.NewNop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := watcher.Start(context.Background()); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	watcher.Stop()
	watcher.Stop()
}
