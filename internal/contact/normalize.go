package contact

import "strings"

// NormalizePhone canonicalizes a phone value to its digits, keeping a single
// leading "+" when present. Grouping characters, extensions punctuation, and
// whitespace are dropped. The input is returned empty if it carries no
// digits. No syntax validation happens here; the capture channels accept
// whatever digit groups they matched.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	plus := strings.HasPrefix(raw, "+")
	if plus {
		b.WriteByte('+')
	}
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" || out == "+" {
		return ""
	}
	return out
}

// NormalizeEmail canonicalizes an email value: trimmed and lowercased.
// Anything beyond light normalization is out of scope for the engine.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
