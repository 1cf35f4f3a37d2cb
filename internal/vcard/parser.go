package vcard

import (
	"regexp"
	"strconv"
	"strings"

	"cardbox/internal/contact"
)

// Marker identifies vCard payloads among arbitrary decoded text.
const Marker = "BEGIN:VCARD"

// IsVCard reports whether the decoded text looks like a vCard block.
func IsVCard(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), Marker)
}

var (
	groupPrefixPattern = regexp.MustCompile(`(?i)^item\d+\.`)
	mobileTypePattern  = regexp.MustCompile(`cell|mobile|m[oó]vil`)
)

// Candidate preference scores. Ties keep the first-seen candidate; the values
// come straight from the capture tuning and are ordered, not meaningful in
// magnitude.
const (
	scorePref     = 100
	scoreMobile   = 90
	scoreWork     = 70
	scoreHome     = 50
	scoreDefault  = 10
	bonusInternet = 1
)

type candidate struct {
	value string
	score int
}

// Parse turns a vCard-formatted text block into a contact patch. Malformed
// input never fails the parse; at worst the patch carries only notes built
// from leftover properties.
func Parse(raw string) contact.Patch {
	patch := contact.Patch{}

	unfolded := unfold(raw)
	lines := strings.Split(unfolded, "\n")

	var (
		phones     []candidate
		emails     []candidate
		extraNotes []string
	)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "BEGIN:") || strings.HasPrefix(line, "END:") {
			continue
		}

		line = groupPrefixPattern.ReplaceAllString(line, "")

		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		left, value := line[:idx], line[idx+1:]

		key, params := parseKey(left)

		if hasParam(params, "ENCODING", "QUOTED-PRINTABLE") {
			value = decodeQuotedPrintable(value)
		}
		value = strings.TrimSpace(unescape(value))
		if value == "" {
			continue
		}

		switch key {
		case "FN":
			patch.Set(contact.FieldName, value)
		case "N":
			if _, ok := patch[contact.FieldName]; !ok {
				patch.Set(contact.FieldName, composeName(value))
			}
		case "ORG":
			company, _, _ := strings.Cut(value, ";")
			patch.Set(contact.FieldCompany, company)
		case "TITLE", "ROLE":
			if _, ok := patch[contact.FieldPosition]; !ok {
				patch.Set(contact.FieldPosition, value)
			}
		case "NOTE":
			extraNotes = append(extraNotes, "Note: "+value)
		case "TEL", "PHONE":
			types := typeValues(params)
			value = strings.TrimPrefix(strings.TrimPrefix(value, "tel:"), "TEL:")
			phones = append(phones, candidate{value: value, score: preference(types)})
		case "EMAIL":
			types := typeValues(params)
			score := preference(types)
			if contains(types, "internet") {
				score += bonusInternet
			}
			emails = append(emails, candidate{value: value, score: score})
		default:
			extraNotes = append(extraNotes, key+": "+value)
		}
	}

	if best, ok := pickBest(phones); ok {
		patch.Set(contact.FieldPhone, best)
	}
	if best, ok := pickBest(emails); ok {
		patch.Set(contact.FieldEmail, best)
	}

	// No name anywhere on the card: fall back to the email local part.
	if _, ok := patch[contact.FieldName]; !ok {
		if email, ok := patch[contact.FieldEmail]; ok {
			local, _, _ := strings.Cut(email, "@")
			patch.Set(contact.FieldName, local)
		}
	}

	if len(extraNotes) > 0 {
		patch.Set(contact.FieldNotes, strings.Join(extraNotes, "\n"))
	}

	return patch
}

// unfold removes vCard soft line folding: a line break immediately followed
// by a single space or tab continues the previous logical line.
func unfold(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	var b strings.Builder
	b.Grow(len(normalized))
	for i := 0; i < len(normalized); i++ {
		c := normalized[i]
		if c == '\n' && i+1 < len(normalized) && (normalized[i+1] == ' ' || normalized[i+1] == '\t') {
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// parseKey splits "KEY;PARAM1;PARAM2=VAL,VAL2" into the uppercased key and a
// parameter map. A bare token with no '=' is an implicit TYPE value.
func parseKey(left string) (string, map[string][]string) {
	parts := strings.Split(left, ";")
	key := strings.ToUpper(strings.TrimSpace(parts[0]))

	params := make(map[string][]string)
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, rest, found := strings.Cut(part, "=")
		if !found {
			params["TYPE"] = append(params["TYPE"], strings.ToUpper(part))
			continue
		}
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		for _, v := range strings.Split(rest, ",") {
			params[name] = append(params[name], strings.TrimSpace(v))
		}
	}
	return key, params
}

func hasParam(params map[string][]string, name, want string) bool {
	for _, v := range params[name] {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func typeValues(params map[string][]string) []string {
	raw := params["TYPE"]
	types := make([]string, 0, len(raw))
	for _, v := range raw {
		types = append(types, strings.ToLower(v))
	}
	return types
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// preference scores a candidate by its TYPE set.
func preference(types []string) int {
	if contains(types, "pref") {
		return scorePref
	}
	for _, t := range types {
		if mobileTypePattern.MatchString(t) {
			return scoreMobile
		}
	}
	if contains(types, "work") || contains(types, "empresa") {
		return scoreWork
	}
	if contains(types, "home") || contains(types, "personal") {
		return scoreHome
	}
	return scoreDefault
}

// pickBest returns the highest-scoring candidate, keeping the first seen on
// ties so the selection is stable.
func pickBest(candidates []candidate) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score {
			best = c
		}
	}
	return best.value, true
}

// composeName rebuilds a display name from the semicolon-delimited N
// subfields (last;first;middle;prefix;suffix) as
// "prefix first middle last suffix".
func composeName(value string) string {
	fields := strings.Split(value, ";")
	part := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}
	ordered := []string{part(3), part(1), part(2), part(0), part(4)}
	kept := ordered[:0]
	for _, p := range ordered {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// decodeQuotedPrintable undoes ENCODING=QUOTED-PRINTABLE values: trailing '='
// soft line breaks are removed and =XX escapes become bytes. The decoded byte
// sequence is interpreted as UTF-8, which covers the accented names this
// encoding shows up on in practice.
func decodeQuotedPrintable(value string) string {
	value = strings.ReplaceAll(value, "=\n", "")
	value = strings.TrimSuffix(value, "=")

	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		if value[i] == '=' && i+2 < len(value) {
			if n, err := strconv.ParseUint(value[i+1:i+3], 16, 8); err == nil {
				out = append(out, byte(n))
				i += 2
				continue
			}
		}
		out = append(out, value[i])
	}
	return string(out)
}

// unescape undoes vCard text escaping.
var textUnescaper = strings.NewReplacer(
	`\n`, "\n",
	`\N`, "\n",
	`\,`, ",",
	`\;`, ";",
	`\\`, `\`,
)

func unescape(value string) string {
	return textUnescaper.Replace(value)
}
