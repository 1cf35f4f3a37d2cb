package extract_test

import (
	"strings"
	"testing"

	"cardbox/internal/contact"
	"cardbox/internal/extract"
)

func TestExtractBusinessCard(t *testing.T) {
	text := strings.Join([]string{
		"Contact: maria@firm.com",
		"Tel: 300-555-1212",
		"Sales Manager",
	}, "\n")

	patch := extract.New(extract.DefaultThresholds()).Extract(text)

	if patch[contact.FieldEmail] != "maria@firm.com" {
		t.Errorf("email = %q", patch[contact.FieldEmail])
	}
	if patch[contact.FieldPhone] != "3005551212" {
		t.Errorf("phone = %q", patch[contact.FieldPhone])
	}
	if patch[contact.FieldPosition] != "Sales Manager" {
		t.Errorf("position = %q", patch[contact.FieldPosition])
	}
}

func TestExtractSpanishRoleWithDiacritics(t *testing.T) {
	text := "ACME S.A.S\nDirectora de Ingeniería\nLaura Gómez"
	patch := extract.New(extract.Thresholds{}).Extract(text)

	if patch[contact.FieldPosition] != "Directora de Ingeniería" {
		t.Errorf("position = %q", patch[contact.FieldPosition])
	}
	if patch[contact.FieldCompany] != "ACME S.A.S" {
		t.Errorf("company = %q", patch[contact.FieldCompany])
	}
}

func TestExtractNameSkipsContactLines(t *testing.T) {
	text := strings.Join([]string{
		"jane@acme.com",
		"+1 555 010 0200",
		"https://acme.example",
		"Jane Doe",
		"Another line that is much much much much much too long to be a name",
	}, "\n")

	patch := extract.New(extract.DefaultThresholds()).Extract(text)
	if patch[contact.FieldName] != "Jane Doe" {
		t.Fatalf("name = %q", patch[contact.FieldName])
	}
}

func TestExtractNameLengthBounds(t *testing.T) {
	patch := extract.New(extract.Thresholds{NameMinLen: 4, NameMaxLen: 10}).Extract("abc\nJane Doe\n")
	if patch[contact.FieldName] != "Jane Doe" {
		t.Fatalf("name = %q", patch[contact.FieldName])
	}
}

func TestExtractPhoneDigitThreshold(t *testing.T) {
	patch := extract.New(extract.DefaultThresholds()).Extract("call 12 34\nno numbers here")
	if _, ok := patch[contact.FieldPhone]; ok {
		t.Fatalf("short digit group accepted as phone: %q", patch[contact.FieldPhone])
	}

	patch = extract.New(extract.Thresholds{PhoneMinDigits: 4}).Extract("call 12 34")
	if patch[contact.FieldPhone] != "1234" {
		t.Fatalf("configured threshold ignored: %q", patch[contact.FieldPhone])
	}
}

func TestExtractExtrasBecomeNotes(t *testing.T) {
	text := strings.Join([]string{
		"maria@firm.com",
		"backup@firm.com",
		"Tel: 300-555-1212",
		"Alt: 301-555-0000",
		"Alt: 301-555-0000",
	}, "\n")

	patch := extract.New(extract.DefaultThresholds()).Extract(text)
	notes := patch[contact.FieldNotes]

	if !strings.Contains(notes, "Email extra: backup@firm.com") {
		t.Errorf("email extra missing: %q", notes)
	}
	if strings.Count(notes, "Tel extra: 3015550000") != 1 {
		t.Errorf("tel extras not deduplicated: %q", notes)
	}
	if strings.Contains(notes, "Tel extra: 3005551212") {
		t.Errorf("primary phone listed as extra: %q", notes)
	}
}

func TestExtractSocialLinks(t *testing.T) {
	text := strings.Join([]string{
		"Follow us: https://instagram.com/acmecorp",
		"linkedin.com/in/janedoe",
		"wa.me/573005551212",
	}, "\n")

	patch := extract.New(extract.DefaultThresholds()).Extract(text)
	notes := patch[contact.FieldNotes]

	for _, want := range []string{
		"URL: https://instagram.com/acmecorp",
		"Instagram: https://instagram.com/acmecorp",
		"LinkedIn: https://linkedin.com/in/janedoe",
		"WhatsApp: https://wa.me/573005551212",
	} {
		if !strings.Contains(notes, want) {
			t.Errorf("notes missing %q:\n%s", want, notes)
		}
	}
}

func TestExtractAlwaysKeepsVerbatimText(t *testing.T) {
	text := "completely unstructured scribble"
	patch := extract.New(extract.DefaultThresholds()).Extract(text)
	notes := patch[contact.FieldNotes]

	if !strings.Contains(notes, extract.OCRBlockSeparator) {
		t.Fatalf("separator missing: %q", notes)
	}
	if !strings.Contains(notes, text) {
		t.Fatalf("verbatim text missing: %q", notes)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	patch := extract.New(extract.DefaultThresholds()).Extract("  \n ")
	if !patch.IsEmpty() {
		t.Fatalf("expected empty patch, got %v", patch)
	}
}

func TestExtractCleansSeparatorCharacters(t *testing.T) {
	patch := extract.New(extract.DefaultThresholds()).Extract("Jane Doe | CEO\n")
	if patch[contact.FieldPosition] != "Jane Doe CEO" {
		t.Errorf("position = %q", patch[contact.FieldPosition])
	}
}
