package contact_test

import (
	"strings"
	"testing"

	"cardbox/internal/contact"
)

func TestMergeFirstWriterWins(t *testing.T) {
	existing := contact.Record{Name: "Jane Doe", Email: "jane@acme.com"}
	incoming := contact.Patch{
		contact.FieldName:    "J. Doe",
		contact.FieldCompany: "Acme Corp",
	}

	out := contact.Merge(existing, incoming)
	if out.Name != "Jane Doe" {
		t.Fatalf("existing name overwritten: %q", out.Name)
	}
	if out.Company != "Acme Corp" {
		t.Fatalf("empty field not filled: %q", out.Company)
	}
	if out.Email != "jane@acme.com" {
		t.Fatalf("unrelated field changed: %q", out.Email)
	}
}

func TestMergeSequenceNeverLosesEarlierPatch(t *testing.T) {
	p1 := contact.Patch{
		contact.FieldName:  "Maria Perez",
		contact.FieldPhone: "3005551212",
		contact.FieldNotes: "URL: https://example.com",
	}
	p2 := contact.Patch{
		contact.FieldName:  "M. Perez",
		contact.FieldEmail: "maria@firm.com",
		contact.FieldNotes: "Tel extra: 3015550000",
	}

	out := contact.Merge(contact.Merge(contact.Record{}, p1), p2)

	if out.Name != "Maria Perez" {
		t.Fatalf("p1 name lost: %q", out.Name)
	}
	if out.Phone != "3005551212" {
		t.Fatalf("p1 phone lost: %q", out.Phone)
	}
	if out.Email != "maria@firm.com" {
		t.Fatalf("p2 email missing: %q", out.Email)
	}
	want := "URL: https://example.com\nTel extra: 3015550000"
	if out.Notes != want {
		t.Fatalf("notes not concatenated in order: %q", out.Notes)
	}
}

func TestMergeIdempotentForNonNoteFields(t *testing.T) {
	r := contact.Record{Name: "Jane Doe", Company: "Acme Corp", Phone: "+15550100"}
	out := contact.Merge(r, contact.Patch{
		contact.FieldName:    r.Name,
		contact.FieldCompany: r.Company,
		contact.FieldPhone:   r.Phone,
	})
	if out != r {
		t.Fatalf("merge changed record: %+v", out)
	}
}

func TestMergeNotesAccumulate(t *testing.T) {
	out := contact.Merge(contact.Record{Notes: "first"}, contact.Patch{contact.FieldNotes: "second"})
	if out.Notes != "first\nsecond" {
		t.Fatalf("notes = %q", out.Notes)
	}

	out = contact.Merge(contact.Record{}, contact.Patch{contact.FieldNotes: "only"})
	if out.Notes != "only" {
		t.Fatalf("notes = %q", out.Notes)
	}
}

func TestMergeIgnoresAbsentAndEmptyValues(t *testing.T) {
	existing := contact.Record{Name: "Jane Doe"}
	out := contact.Merge(existing, contact.Patch{contact.FieldCompany: ""})
	if out != existing {
		t.Fatalf("empty patch value mutated record: %+v", out)
	}
}

func TestPatchSetDropsBlankValues(t *testing.T) {
	p := contact.Patch{}
	p.Set(contact.FieldName, "  ")
	p.Set(contact.FieldEmail, " jane@acme.com ")
	if !strings.Contains(p[contact.FieldEmail], "@") || len(p) != 1 {
		t.Fatalf("unexpected patch contents: %v", p)
	}
}

func TestOverwriteReplacesNamedFields(t *testing.T) {
	existing := contact.Record{Name: "Jane Doe", Phone: "+15550100", Notes: "old"}
	out := contact.Overwrite(existing, contact.Patch{
		contact.FieldName:  "Ana Ruiz",
		contact.FieldNotes: "new",
	})

	if out.Name != "Ana Ruiz" {
		t.Errorf("name not overwritten: %q", out.Name)
	}
	if out.Notes != "new" {
		t.Errorf("notes should be replaced, not appended: %q", out.Notes)
	}
	if out.Phone != "+15550100" {
		t.Errorf("untouched field lost: %q", out.Phone)
	}
}
