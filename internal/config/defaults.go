package config

const (
	defaultDataDir  = "~/.local/share/cardbox"
	defaultLogDir   = "~/.local/share/cardbox/logs"
	defaultInboxDir = "~/.local/share/cardbox/inbox"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	// Decode loop timing from the capture tuning that shipped with the
	// original scanner: 800ms between accepted reads of a live source.
	defaultDebounceMS     = 800
	defaultPollIntervalMS = 150
	defaultROIFraction    = 0.7

	defaultOCRBinary      = "tesseract"
	defaultOCRLanguages   = "spa+eng"
	defaultOCRPageSegMode = 6
	defaultOCRTimeout     = 120

	// Preprocessing constants tuned empirically against business-card
	// photos; see internal/imaging.
	defaultOCRMaxWidth   = 1200
	defaultOCRContrast   = 1.35
	defaultOCRBrightness = 8
	defaultCardAspect    = 1.586

	// Extraction thresholds. Empirical; kept configurable on purpose.
	defaultPhoneMinDigits = 7
	defaultNameMinLen     = 4
	defaultNameMaxLen     = 48

	defaultNotifyRequestTimeout = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			InboxDir: defaultInboxDir,
		},
		Scanner: Scanner{
			DebounceMS:     defaultDebounceMS,
			PollIntervalMS: defaultPollIntervalMS,
			Continuous:     false,
			ROIFraction:    defaultROIFraction,
		},
		OCR: OCR{
			Binary:          defaultOCRBinary,
			Languages:       defaultOCRLanguages,
			PageSegMode:     defaultOCRPageSegMode,
			TimeoutSeconds:  defaultOCRTimeout,
			MaxWidth:        defaultOCRMaxWidth,
			Contrast:        defaultOCRContrast,
			Brightness:      defaultOCRBrightness,
			Binarize:        true,
			CardAspectRatio: defaultCardAspect,
		},
		Extract: Extract{
			PhoneMinDigits: defaultPhoneMinDigits,
			NameMinLen:     defaultNameMinLen,
			NameMaxLen:     defaultNameMaxLen,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			ContactUpdates: true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
