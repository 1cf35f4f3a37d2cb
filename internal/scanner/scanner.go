package scanner

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"time"

	"cardbox/internal/imaging"
	"cardbox/internal/logging"
	"cardbox/internal/services"
)

// State is the scan loop lifecycle state.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateDecoded
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateDecoded:
		return "decoded"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Decoder is the externally supplied decode primitive. Implementations
// return the raw decoded text or an error when the image carries no
// readable code.
type Decoder interface {
	Decode(img image.Image) (string, error)
}

// ErrNoFrame is returned by frame sources when no frame is ready yet. The
// loop treats it as a skipped tick, not a failure.
var ErrNoFrame = errors.New("no frame available")

// FrameSource is the capture collaborator feeding the live loop. Close
// releases the underlying capture resource and must be safe to call more
// than once.
type FrameSource interface {
	Frame(ctx context.Context) (image.Image, error)
	Close() error
}

// Config tunes the scan loop.
type Config struct {
	// Debounce is the minimum gap between accepted decodes. Zero takes
	// the 800ms default.
	Debounce time.Duration
	// PollInterval is the delay between ticks. Zero takes 150ms.
	PollInterval time.Duration
	// Continuous keeps the loop running after an accepted decode instead
	// of the default single-shot stop.
	Continuous bool
	// ROI restricts decoding to a display-relative region. Nil decodes
	// the full frame unless ROIFraction applies.
	ROI *ROI
	// Display carries the layout the ROI is expressed in. An invalid
	// layout falls back to full-frame decoding.
	Display Layout
	// ROIFraction, when positive and no explicit ROI is given, sizes a
	// centered square region per frame with the frame itself as the
	// layout. This is how headless sources without display geometry get
	// the same center-weighted decode as a live viewfinder.
	ROIFraction float64
	// Now is a clock seam for tests.
	Now func() time.Time
}

const (
	defaultDebounce     = 800 * time.Millisecond
	defaultPollInterval = 150 * time.Millisecond
)

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = defaultDebounce
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Scanner runs the decode loop. Accepted decodes are delivered to the
// OnDecode callback on the loop goroutine.
type Scanner struct {
	cfg      Config
	source   FrameSource
	decoder  Decoder
	onDecode func(text string)
	logger   *slog.Logger

	mu           sync.Mutex
	state        State
	lastAccepted time.Time
	cancel       context.CancelFunc
	cleaned      bool

	wg sync.WaitGroup
}

// New builds a scanner over the given source and decode primitive.
func New(source FrameSource, decoder Decoder, onDecode func(string), cfg Config, logger *slog.Logger) *Scanner {
	return &Scanner{
		cfg:      cfg.withDefaults(),
		source:   source,
		decoder:  decoder,
		onDecode: onDecode,
		logger:   logging.NewComponentLogger(logger, "scanner"),
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *Scanner) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start transitions Idle to Scanning and launches the decode loop.
func (s *Scanner) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateScanning {
		return services.Wrap(services.ErrValidation, "scanner", "start", "already scanning", nil)
	}
	if s.source == nil || s.decoder == nil {
		return services.Wrap(services.ErrConfiguration, "scanner", "start", "frame source and decoder are required", nil)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.cleaned = false
	s.state = StateScanning

	s.wg.Add(1)
	go s.run(runCtx)
	return nil
}

// Stop cancels the pending tick and releases the capture resource. It is
// safe to call from any state, including repeatedly.
func (s *Scanner) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	if s.state == StateScanning {
		s.state = StateStopped
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	s.cleanup()
}

// run is the self-rescheduling tick loop.
func (s *Scanner) run(ctx context.Context) {
	defer s.wg.Done()
	defer s.cleanup()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	if done := s.tick(ctx); done {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if done := s.tick(ctx); done {
				return
			}
		}
	}
}

// tick reads one frame and attempts one decode. It reports true when the
// loop should end (single-shot accepted decode).
func (s *Scanner) tick(ctx context.Context) bool {
	frame, err := s.source.Frame(ctx)
	if err != nil {
		if errors.Is(err, ErrNoFrame) || errors.Is(err, context.Canceled) {
			return false
		}
		s.logger.Warn("frame read failed; will retry", logging.Error(err))
		return false
	}
	if frame == nil {
		return false
	}

	text, err := s.decoder.Decode(s.regionOf(frame))
	if err != nil || text == "" {
		// Most ticks see no code at all; stay quiet.
		return false
	}

	if !s.acceptDecode() {
		return false
	}

	s.logger.Info("decode accepted",
		logging.String(logging.FieldEventType, "qr_decoded"),
		logging.Int("payload_len", len(text)),
	)
	if s.onDecode != nil {
		s.onDecode(text)
	}

	if s.cfg.Continuous {
		s.mu.Lock()
		s.state = StateScanning
		s.mu.Unlock()
		return false
	}
	return true
}

// regionOf returns the ROI sub-rectangle of the frame, or the full frame
// when no layout information is available.
func (s *Scanner) regionOf(frame image.Image) image.Image {
	bounds := frame.Bounds()

	roi := s.cfg.ROI
	display := s.cfg.Display
	if roi == nil {
		if s.cfg.ROIFraction <= 0 {
			return frame
		}
		display = Layout{
			DisplayWidth:  float64(bounds.Dx()),
			DisplayHeight: float64(bounds.Dy()),
		}
		centered := CenteredROI(display, s.cfg.ROIFraction)
		roi = &centered
	}

	rect, ok := roi.FrameRect(bounds.Dx(), bounds.Dy(), display)
	if !ok {
		return frame
	}
	if sub := imaging.SubImage(frame, rect.Add(bounds.Min)); sub != nil {
		return sub
	}
	return frame
}

// acceptDecode applies the debounce window and, when accepted, transitions
// to Decoded.
func (s *Scanner) acceptDecode() bool {
	now := s.cfg.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateScanning {
		return false
	}
	if !s.lastAccepted.IsZero() && now.Sub(s.lastAccepted) < s.cfg.Debounce {
		return false
	}
	s.lastAccepted = now
	s.state = StateDecoded
	return true
}

// cleanup releases the capture resource and returns the scanner to Idle.
func (s *Scanner) cleanup() {
	s.mu.Lock()
	if s.cleaned {
		s.mu.Unlock()
		return
	}
	s.cleaned = true
	s.cancel = nil
	s.state = StateIdle
	s.mu.Unlock()

	if s.source == nil {
		return
	}
	if err := s.source.Close(); err != nil {
		s.logger.Warn("release capture source", logging.Error(err))
	}
}

// ScanImage performs a single decode attempt against an uploaded still.
// Debounce does not apply; the image either decodes or it does not.
func (s *Scanner) ScanImage(img image.Image) (string, error) {
	if s.decoder == nil {
		return "", services.Wrap(services.ErrConfiguration, "scanner", "scan-image", "decoder is required", nil)
	}
	text, err := s.decoder.Decode(img)
	if err != nil {
		return "", services.Wrap(services.ErrDecode, "scanner", "scan-image", "no readable code", err)
	}
	return text, nil
}
