package capture

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"

	"github.com/google/uuid"

	"cardbox/internal/config"
	"cardbox/internal/contact"
	"cardbox/internal/extract"
	"cardbox/internal/imaging"
	"cardbox/internal/logging"
	"cardbox/internal/notifications"
	"cardbox/internal/scanner"
	"cardbox/internal/services"
	"cardbox/internal/store"
	"cardbox/internal/vcard"
)

// Capture channel names recorded in logs and context.
const (
	ChannelQR     = "qr"
	ChannelOCR    = "ocr"
	ChannelManual = "manual"
)

// Recognizer is the OCR collaborator. *ocr.Service satisfies it; tests
// substitute a canned implementation.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Session drives one capture run across all channels.
type Session struct {
	id         string
	cfg        *config.Config
	store      *store.Store
	notifier   notifications.Service
	recognizer Recognizer
	extractor  *extract.Extractor
	logger     *slog.Logger
}

// NewSession wires a capture session. A nil recognizer disables the card
// image channel; QR and manual entry still work.
func NewSession(cfg *config.Config, st *store.Store, notifier notifications.Service, recognizer Recognizer, logger *slog.Logger) *Session {
	return &Session{
		id:         uuid.NewString(),
		cfg:        cfg,
		store:      st,
		notifier:   notifier,
		recognizer: recognizer,
		extractor: extract.New(extract.Thresholds{
			PhoneMinDigits: cfg.Extract.PhoneMinDigits,
			NameMinLen:     cfg.Extract.NameMinLen,
			NameMaxLen:     cfg.Extract.NameMaxLen,
		}),
		logger: logging.NewComponentLogger(logger, "capture"),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Record returns the current reconciled record.
func (s *Session) Record() contact.Record {
	return s.store.Get()
}

// HandleDecodedText routes a QR payload. vCard payloads go through the
// parser; anything else lands in notes verbatim so nothing scanned is
// ever lost.
func (s *Session) HandleDecodedText(ctx context.Context, text string) (contact.Record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return contact.Record{}, services.Wrap(services.ErrValidation, "capture", "qr", "empty payload", nil)
	}
	ctx = s.channelContext(ctx, ChannelQR)
	logger := logging.WithContext(ctx, s.logger)

	var patch contact.Patch
	if vcard.IsVCard(text) {
		patch = vcard.Parse(text)
		logger.Info("vcard payload parsed",
			logging.String(logging.FieldEventType, "vcard_parsed"),
			logging.Int("fields", len(patch)),
		)
	} else {
		patch = contact.Patch{}
		patch.Set(contact.FieldNotes, "QR: "+text)
		logger.Info("plain payload stored in notes",
			logging.String(logging.FieldEventType, "qr_plain_text"),
		)
	}

	rec := s.store.Set(ctx, patch)
	s.notifyUpdated(ctx, ChannelQR, rec)
	return rec, nil
}

// ProcessCardImage runs the OCR pipeline over a card photo: crop to the
// card aspect, preprocess, recognize, extract, merge.
func (s *Session) ProcessCardImage(ctx context.Context, path string) (contact.Record, error) {
	if s.recognizer == nil {
		return contact.Record{}, services.Wrap(services.ErrConfiguration, "capture", "ocr", "no recognizer configured", nil)
	}
	ctx = s.channelContext(ctx, ChannelOCR)
	logger := logging.WithContext(ctx, s.logger)

	img, err := loadImage(path)
	if err != nil {
		return contact.Record{}, services.Wrap(services.ErrValidation, "capture", "ocr", "load image", err)
	}

	cropped := imaging.CropToAspect(img, s.cfg.OCR.CardAspectRatio, s.cfg.OCR.MaxWidth)
	prepared := imaging.Preprocess(cropped, imaging.Options{
		MaxWidth:   s.cfg.OCR.MaxWidth,
		Contrast:   s.cfg.OCR.Contrast,
		Brightness: s.cfg.OCR.Brightness,
		Binarize:   s.cfg.OCR.Binarize,
	})

	tmpPath, cleanupTmp, err := writeTempPNG(prepared)
	if err != nil {
		return contact.Record{}, services.Wrap(services.ErrAcquisition, "capture", "ocr", "stage preprocessed image", err)
	}
	defer cleanupTmp()

	text, err := s.recognizer.Recognize(ctx, tmpPath)
	if err != nil {
		s.notifyRecognitionFailed(ctx, path, err)
		return contact.Record{}, err
	}
	if strings.TrimSpace(text) == "" {
		err := services.Wrap(services.ErrRecognition, "capture", "ocr", "no text recognized", nil)
		s.notifyRecognitionFailed(ctx, path, err)
		return contact.Record{}, err
	}

	patch := s.extractor.Extract(text)
	fields := countStructured(patch)
	logger.Info("card text extracted",
		logging.String(logging.FieldEventType, "card_extracted"),
		logging.String("image", path),
		logging.Int("fields", fields),
	)

	rec := s.store.Set(ctx, patch)
	if s.notifier != nil {
		_ = s.notifier.Publish(ctx, notifications.EventScanCompleted, notifications.Payload{
			"summary": fmt.Sprintf("%d fields extracted from %s", fields, filepath.Base(path)),
		})
	}
	return rec, nil
}

// ProcessQRImage decodes a single uploaded still and routes the payload.
func (s *Session) ProcessQRImage(ctx context.Context, path string, decoder scanner.Decoder) (contact.Record, error) {
	img, err := loadImage(path)
	if err != nil {
		return contact.Record{}, services.Wrap(services.ErrValidation, "capture", "qr", "load image", err)
	}
	text, err := decoder.Decode(img)
	if err != nil {
		return contact.Record{}, services.Wrap(services.ErrDecode, "capture", "qr", "no readable code in image", err)
	}
	return s.HandleDecodedText(ctx, text)
}

// ManualUpdate merges a hand-entered patch. Phone and email values are
// normalized first so manual entry obeys the same canon as extraction.
func (s *Session) ManualUpdate(ctx context.Context, patch contact.Patch) contact.Record {
	ctx = s.channelContext(ctx, ChannelManual)

	rec := s.store.Set(ctx, normalizePatch(patch))
	s.notifyUpdated(ctx, ChannelManual, rec)
	return rec
}

// ManualOverwrite replaces the named fields with hand-entered values,
// bypassing the first-writer-wins merge. Notes are replaced too.
func (s *Session) ManualOverwrite(ctx context.Context, patch contact.Patch) contact.Record {
	ctx = s.channelContext(ctx, ChannelManual)

	next := contact.Overwrite(s.store.Get(), normalizePatch(patch))
	rec := s.store.Replace(ctx, next)
	s.notifyUpdated(ctx, ChannelManual, rec)
	return rec
}

func normalizePatch(patch contact.Patch) contact.Patch {
	normalized := contact.Patch{}
	for field, value := range patch {
		switch field {
		case contact.FieldPhone:
			value = contact.NormalizePhone(value)
		case contact.FieldEmail:
			value = contact.NormalizeEmail(value)
		}
		normalized.Set(field, value)
	}
	return normalized
}

// Reset clears the record and announces it.
func (s *Session) Reset(ctx context.Context) {
	s.store.Reset(ctx)
	if s.notifier != nil {
		_ = s.notifier.Publish(ctx, notifications.EventContactReset, nil)
	}
}

func (s *Session) channelContext(ctx context.Context, channel string) context.Context {
	ctx = services.WithSessionID(ctx, s.id)
	return services.WithChannel(ctx, channel)
}

func (s *Session) notifyUpdated(ctx context.Context, channel string, rec contact.Record) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Publish(ctx, notifications.EventContactUpdated, notifications.Payload{
		"channel": channel,
		"summary": Summarize(rec),
	})
}

func (s *Session) notifyRecognitionFailed(ctx context.Context, source string, err error) {
	logging.WithContext(ctx, s.logger).Warn("recognition failed",
		logging.String("image", source),
		logging.Error(err),
	)
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Publish(ctx, notifications.EventRecognitionFailed, notifications.Payload{
		"source": filepath.Base(source),
		"error":  err.Error(),
	})
}

// Summarize renders a short human-readable digest of the record for
// notification payloads.
func Summarize(rec contact.Record) string {
	parts := make([]string, 0, 3)
	if rec.Name != "" {
		parts = append(parts, rec.Name)
	}
	if rec.Company != "" {
		parts = append(parts, rec.Company)
	}
	if rec.Email != "" {
		parts = append(parts, "<"+rec.Email+">")
	} else if rec.Phone != "" {
		parts = append(parts, rec.Phone)
	}
	if len(parts) == 0 {
		return "notes only"
	}
	return strings.Join(parts, " ")
}

func countStructured(patch contact.Patch) int {
	count := 0
	for field := range patch {
		if field != contact.FieldNotes {
			count++
		}
	}
	return count
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func writeTempPNG(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "cardbox-ocr-*.png")
	if err != nil {
		return "", nil, err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	path := f.Name()
	return path, func() { _ = os.Remove(path) }, nil
}
