package vcard_test

import (
	"strings"
	"testing"

	"cardbox/internal/contact"
	"cardbox/internal/vcard"
)

func TestParseFullCard(t *testing.T) {
	raw := strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:Jane Doe",
		"ORG:Acme Corp",
		"TITLE:Engineer",
		"TEL;TYPE=CELL,PREF:+1 555 0100",
		"EMAIL;TYPE=WORK,INTERNET:jane@acme.com",
		"END:VCARD",
	}, "\n")

	patch := vcard.Parse(raw)

	want := contact.Patch{
		contact.FieldName:     "Jane Doe",
		contact.FieldCompany:  "Acme Corp",
		contact.FieldPosition: "Engineer",
		contact.FieldPhone:    "+1 555 0100",
		contact.FieldEmail:    "jane@acme.com",
	}
	for f, v := range want {
		if patch[f] != v {
			t.Errorf("%s = %q, want %q", f, patch[f], v)
		}
	}
	// Unhandled properties land in notes, VERSION included.
	if patch[contact.FieldNotes] != "VERSION: 3.0" {
		t.Errorf("notes = %q, want %q", patch[contact.FieldNotes], "VERSION: 3.0")
	}
}

func TestParsePreferenceRanking(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "pref beats plain regardless of order",
			lines: []string{"TEL:111", "TEL;TYPE=PREF:222"},
			want:  "222",
		},
		{
			name:  "pref first also wins",
			lines: []string{"TEL;TYPE=PREF:222", "TEL:111"},
			want:  "222",
		},
		{
			name:  "cell beats work",
			lines: []string{"TEL;TYPE=WORK:111", "TEL;TYPE=CELL:222"},
			want:  "222",
		},
		{
			name:  "work beats home",
			lines: []string{"TEL;TYPE=HOME:111", "TEL;TYPE=WORK:222"},
			want:  "222",
		},
		{
			name:  "tie keeps first seen",
			lines: []string{"TEL;TYPE=WORK:111", "TEL;TYPE=WORK:222"},
			want:  "111",
		},
		{
			name:  "bare short-form types count",
			lines: []string{"TEL;HOME:111", "TEL;CELL;PREF:222"},
			want:  "222",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := "BEGIN:VCARD\n" + strings.Join(tt.lines, "\n") + "\nEND:VCARD"
			patch := vcard.Parse(raw)
			if patch[contact.FieldPhone] != tt.want {
				t.Fatalf("phone = %q, want %q", patch[contact.FieldPhone], tt.want)
			}
		})
	}
}

func TestParseEmailInternetBonusBreaksTie(t *testing.T) {
	raw := strings.Join([]string{
		"BEGIN:VCARD",
		"EMAIL;TYPE=WORK:plain@acme.com",
		"EMAIL;TYPE=WORK,INTERNET:net@acme.com",
		"END:VCARD",
	}, "\n")
	patch := vcard.Parse(raw)
	if patch[contact.FieldEmail] != "net@acme.com" {
		t.Fatalf("email = %q", patch[contact.FieldEmail])
	}
}

func TestParseNComposition(t *testing.T) {
	raw := "BEGIN:VCARD\nN:Doe;Jane;Marie;Dr.;PhD\nEND:VCARD"
	patch := vcard.Parse(raw)
	if patch[contact.FieldName] != "Dr. Jane Marie Doe PhD" {
		t.Fatalf("name = %q", patch[contact.FieldName])
	}
}

func TestParseFNWinsOverN(t *testing.T) {
	raw := "BEGIN:VCARD\nFN:Jane Doe\nN:Other;Someone\nEND:VCARD"
	patch := vcard.Parse(raw)
	if patch[contact.FieldName] != "Jane Doe" {
		t.Fatalf("name = %q", patch[contact.FieldName])
	}

	// Order must not matter: N before FN still yields FN.
	raw = "BEGIN:VCARD\nN:Other;Someone\nFN:Jane Doe\nEND:VCARD"
	patch = vcard.Parse(raw)
	if patch[contact.FieldName] != "Jane Doe" {
		t.Fatalf("name with N first = %q", patch[contact.FieldName])
	}
}

func TestParseLineFolding(t *testing.T) {
	raw := "BEGIN:VCARD\nFN:Jane\n  Doe\nNOTE:line one\n\tfolded tail\nEND:VCARD"
	patch := vcard.Parse(raw)
	if patch[contact.FieldName] != "Jane Doe" {
		t.Fatalf("folded name = %q", patch[contact.FieldName])
	}
	if !strings.Contains(patch[contact.FieldNotes], "line onefolded tail") {
		t.Fatalf("folded note = %q", patch[contact.FieldNotes])
	}
}

func TestParseQuotedPrintable(t *testing.T) {
	raw := "BEGIN:VCARD\nFN;ENCODING=QUOTED-PRINTABLE:Jos=C3=A9 P=C3=A9rez\nEND:VCARD"
	patch := vcard.Parse(raw)
	if patch[contact.FieldName] != "José Pérez" {
		t.Fatalf("name = %q", patch[contact.FieldName])
	}
}

func TestParseTextUnescaping(t *testing.T) {
	raw := "BEGIN:VCARD\nNOTE:one\\ntwo\\, with comma\\; and semi\nEND:VCARD"
	patch := vcard.Parse(raw)
	want := "Note: one\ntwo, with comma; and semi"
	if patch[contact.FieldNotes] != want {
		t.Fatalf("notes = %q, want %q", patch[contact.FieldNotes], want)
	}
}

func TestParseGroupedVendorPrefix(t *testing.T) {
	raw := "BEGIN:VCARD\nitem1.TEL;TYPE=CELL:tel:+57 300 555 1212\nEND:VCARD"
	patch := vcard.Parse(raw)
	if patch[contact.FieldPhone] != "+57 300 555 1212" {
		t.Fatalf("phone = %q", patch[contact.FieldPhone])
	}
}

func TestParseUnknownKeysLandInNotes(t *testing.T) {
	raw := strings.Join([]string{
		"BEGIN:VCARD",
		"FN:Jane Doe",
		"URL:https://acme.example",
		"BDAY:1990-01-01",
		"END:VCARD",
	}, "\n")
	patch := vcard.Parse(raw)
	notes := patch[contact.FieldNotes]
	if !strings.Contains(notes, "URL: https://acme.example") {
		t.Errorf("URL missing from notes: %q", notes)
	}
	if !strings.Contains(notes, "BDAY: 1990-01-01") {
		t.Errorf("BDAY missing from notes: %q", notes)
	}
}

func TestParseNameFallsBackToEmailLocalPart(t *testing.T) {
	raw := "BEGIN:VCARD\nEMAIL:maria.lopez@firm.com\nEND:VCARD"
	patch := vcard.Parse(raw)
	if patch[contact.FieldName] != "maria.lopez" {
		t.Fatalf("name = %q", patch[contact.FieldName])
	}
}

func TestParseSkipsMalformedLines(t *testing.T) {
	raw := "BEGIN:VCARD\ngarbage line without colon\nFN:Jane Doe\nEND:VCARD"
	patch := vcard.Parse(raw)
	if patch[contact.FieldName] != "Jane Doe" {
		t.Fatalf("name = %q", patch[contact.FieldName])
	}
}

func TestParseWorstCaseYieldsNotesOnly(t *testing.T) {
	raw := "BEGIN:VCARD\nX-SOCIALPROFILE:https://linkedin.com/in/jane\nEND:VCARD"
	patch := vcard.Parse(raw)
	if len(patch) != 1 {
		t.Fatalf("patch = %v", patch)
	}
	if !strings.Contains(patch[contact.FieldNotes], "X-SOCIALPROFILE: https://linkedin.com/in/jane") {
		t.Fatalf("notes = %q", patch[contact.FieldNotes])
	}
}

func TestIsVCard(t *testing.T) {
	if !vcard.IsVCard("  BEGIN:VCARD\nEND:VCARD") {
		t.Fatal("vCard not detected")
	}
	if vcard.IsVCard("https://example.com") {
		t.Fatal("plain text misdetected")
	}
}
