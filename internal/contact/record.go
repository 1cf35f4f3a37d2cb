package contact

import "strings"

// Field names a single record field. Patches are keyed by Field.
type Field string

const (
	FieldName     Field = "name"
	FieldCompany  Field = "company"
	FieldPosition Field = "position"
	FieldPhone    Field = "phone"
	FieldEmail    Field = "email"
	FieldNotes    Field = "notes"
)

// Fields lists every record field in canonical order.
var Fields = []Field{FieldName, FieldCompany, FieldPosition, FieldPhone, FieldEmail, FieldNotes}

// Record is the contact being assembled during a capture session. Every field
// is either the empty string or a normalized non-empty value. Notes is an
// append-only log joined with newlines.
type Record struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Position string `json:"position"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Notes    string `json:"notes"`
}

// IsEmpty reports whether every field of the record is empty.
func (r Record) IsEmpty() bool {
	return r == Record{}
}

// Get returns the value of the named field.
func (r Record) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldCompany:
		return r.Company
	case FieldPosition:
		return r.Position
	case FieldPhone:
		return r.Phone
	case FieldEmail:
		return r.Email
	case FieldNotes:
		return r.Notes
	default:
		return ""
	}
}

func (r *Record) set(f Field, value string) {
	switch f {
	case FieldName:
		r.Name = value
	case FieldCompany:
		r.Company = value
	case FieldPosition:
		r.Position = value
	case FieldPhone:
		r.Phone = value
	case FieldEmail:
		r.Email = value
	case FieldNotes:
		r.Notes = value
	}
}

// Patch is one capture channel's partial contribution to the record. An
// absent key means "no opinion"; extractors never produce empty-string
// values, and a patch carries no delete semantics.
type Patch map[Field]string

// Set records a value on the patch, dropping empty or whitespace-only input
// so a patch never carries an empty-string opinion.
func (p Patch) Set(f Field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	p[f] = value
}

// IsEmpty reports whether the patch carries no values.
func (p Patch) IsEmpty() bool {
	return len(p) == 0
}
