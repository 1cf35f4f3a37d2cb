package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"cardbox/internal/contact"
)

// OCRBlockSeparator delimits the verbatim recognized text appended to notes.
const OCRBlockSeparator = "—— OCR ——"

var (
	emailPattern = regexp.MustCompile(`[\w.%+-]+@[\w.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+\d{1,3}[\s-]?)?\(?\d{2,4}\)?[\s.-]?\d{2,4}[\s.-]?\d{2,4}[\s.-]?\d{0,4}`)
	urlPattern   = regexp.MustCompile(`(?i)https?://\S+`)

	// Role and company keyword lists carry the mixed Spanish/English card
	// vocabulary from the capture corpus. Matching happens on
	// diacritic-folded lines.
	rolePattern    = regexp.MustCompile(`(?i)(gerente|director|jefe|coordinador|coordinator|analista|analyst|ingenier|engineer|ventas|sales|marketing|compras|purchasing|ceo|cto|coo|founder|manager|head|lead)`)
	companyPattern = regexp.MustCompile(`(?i)\b(sas|s\.a\.|s\.a|srl|ltda|corp|inc|company|industria|manufact|fabric|group|grupo)\b`)

	separatorChars = regexp.MustCompile(`[|•·]+`)
	spaceRuns      = regexp.MustCompile(`\s{2,}`)
)

// socialPatterns probe fixed social-network domains and emit one normalized
// note line per match, independent of the generic URL capture.
var socialPatterns = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"Instagram", regexp.MustCompile(`(?i)\binstagram\.com/\S+`)},
	{"TikTok", regexp.MustCompile(`(?i)\btiktok\.com/@\S+`)},
	{"YouTube", regexp.MustCompile(`(?i)\byoutube\.com/\S+|youtu\.be/\S+`)},
	{"Facebook", regexp.MustCompile(`(?i)\bfacebook\.com/\S+`)},
	{"LinkedIn", regexp.MustCompile(`(?i)\blinkedin\.com/in/\S+`)},
	{"Twitter", regexp.MustCompile(`(?i)\b(?:twitter|x)\.com/\S+`)},
	{"WhatsApp", regexp.MustCompile(`(?i)\bwa\.me/\d+`)},
}

// Thresholds are the empirically tuned extraction limits. They are
// configuration, not semantics; see the extract section of the sample config.
type Thresholds struct {
	// PhoneMinDigits is the minimum digit count for a match to count as a
	// phone number.
	PhoneMinDigits int
	// NameMinLen and NameMaxLen bound the accepted length (in runes) of the
	// heuristic name line.
	NameMinLen int
	NameMaxLen int
}

// DefaultThresholds returns the tuning the original capture pipeline shipped
// with.
func DefaultThresholds() Thresholds {
	return Thresholds{PhoneMinDigits: 7, NameMinLen: 4, NameMaxLen: 48}
}

// Extractor turns recognized free text into a contact patch.
type Extractor struct {
	thresholds Thresholds
}

// New builds an extractor. Zero threshold values fall back to the defaults.
func New(thresholds Thresholds) *Extractor {
	defaults := DefaultThresholds()
	if thresholds.PhoneMinDigits <= 0 {
		thresholds.PhoneMinDigits = defaults.PhoneMinDigits
	}
	if thresholds.NameMinLen <= 0 {
		thresholds.NameMinLen = defaults.NameMinLen
	}
	if thresholds.NameMaxLen <= 0 {
		thresholds.NameMaxLen = defaults.NameMaxLen
	}
	return &Extractor{thresholds: thresholds}
}

// Extract applies the ordered heuristics to recognized text and returns the
// resulting patch. The full input is always appended to the notes behind a
// separator line, so nothing recognized is lost even when every heuristic
// misfires.
func (e *Extractor) Extract(text string) contact.Patch {
	patch := contact.Patch{}
	if strings.TrimSpace(text) == "" {
		return patch
	}

	emails := emailPattern.FindAllString(text, -1)
	if len(emails) > 0 {
		patch.Set(contact.FieldEmail, contact.NormalizeEmail(emails[0]))
	}

	phones := findPhones(text, e.thresholds.PhoneMinDigits)
	var primaryPhone string
	if len(phones) > 0 {
		primaryPhone = phones[0]
		patch.Set(contact.FieldPhone, contact.NormalizePhone(primaryPhone))
	}

	if line := findLine(text, rolePattern); line != "" {
		patch.Set(contact.FieldPosition, cleanup(line))
	}
	if line := findLine(text, companyPattern); line != "" {
		patch.Set(contact.FieldCompany, cleanup(line))
	}

	if name := e.findName(text, emails, primaryPhone); name != "" {
		patch.Set(contact.FieldName, name)
	}

	var noteLines []string

	for _, u := range urlPattern.FindAllString(text, -1) {
		noteLines = append(noteLines, "URL: "+u)
	}
	for _, social := range socialPatterns {
		if m := social.pattern.FindString(text); m != "" {
			noteLines = append(noteLines, social.label+": https://"+stripScheme(m))
		}
	}

	for _, extra := range emails[min(len(emails), 1):] {
		noteLines = append(noteLines, "Email extra: "+contact.NormalizeEmail(extra))
	}

	seen := map[string]struct{}{}
	for _, ph := range phones[min(len(phones), 1):] {
		normalized := contact.NormalizePhone(ph)
		if normalized == "" || normalized == patch[contact.FieldPhone] {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		noteLines = append(noteLines, "Tel extra: "+normalized)
	}

	noteLines = append(noteLines, OCRBlockSeparator, strings.TrimSpace(text))
	patch.Set(contact.FieldNotes, strings.Join(noteLines, "\n"))

	return patch
}

// findPhones returns every phone-like match carrying enough digits, in
// document order.
func findPhones(text string, minDigits int) []string {
	var out []string
	for _, m := range phonePattern.FindAllString(text, -1) {
		if digitCount(m) >= minDigits {
			out = append(out, m)
		}
	}
	return out
}

// findName scans lines top to bottom and accepts the first one that is not an
// email, phone, or URL carrier and fits the configured length bounds.
func (e *Extractor) findName(text string, emails []string, primaryPhone string) string {
	for _, line := range lines(text) {
		if containsAny(line, emails) {
			continue
		}
		if primaryPhone != "" && strings.Contains(line, strings.TrimSpace(primaryPhone)) {
			continue
		}
		if urlPattern.MatchString(line) {
			continue
		}
		length := utf8.RuneCountInString(line)
		if length >= e.thresholds.NameMinLen && length <= e.thresholds.NameMaxLen {
			return cleanup(line)
		}
	}
	return ""
}

func lines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// findLine returns the first line whose diacritic-folded form matches the
// pattern.
func findLine(text string, pattern *regexp.Regexp) string {
	for _, line := range lines(text) {
		if pattern.MatchString(foldDiacritics(line)) {
			return line
		}
	}
	return ""
}

func containsAny(line string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(line, n) {
			return true
		}
	}
	return false
}

// cleanup collapses whitespace runs, strips bullet and pipe separators, and
// trims the result.
func cleanup(s string) string {
	s = separatorChars.ReplaceAllString(s, "")
	s = spaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func stripScheme(u string) string {
	lower := strings.ToLower(u)
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(lower, scheme) {
			return u[len(scheme):]
		}
	}
	return u
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// foldDiacritics removes combining marks so accented vocabulary matches the
// unaccented keyword lists.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
