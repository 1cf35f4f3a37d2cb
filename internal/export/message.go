// Package export renders the reconciled contact for sharing.
package export

import (
	"fmt"
	"net/url"
	"strings"

	"cardbox/internal/contact"
)

// MessageHeader opens every share message. The corpus of cards this tool
// digests comes from Spanish-language business rounds, so the canned text
// stays in Spanish.
const MessageHeader = "Nuevo contacto de Rueda de Negocios:"

var fieldLabels = map[contact.Field]string{
	contact.FieldName:     "Nombre",
	contact.FieldCompany:  "Empresa",
	contact.FieldPosition: "Cargo",
	contact.FieldPhone:    "Teléfono",
	contact.FieldEmail:    "Email",
	contact.FieldNotes:    "Notas",
}

// Message renders the record as a labelled share message. Empty fields are
// omitted entirely rather than rendered blank.
func Message(rec contact.Record) string {
	var b strings.Builder
	b.WriteString(MessageHeader)
	b.WriteString("\n\n")
	for _, field := range contact.Fields {
		value := rec.Get(field)
		if value == "" {
			continue
		}
		fmt.Fprintf(&b, "*%s:* %s\n", fieldLabels[field], value)
	}
	return b.String()
}

// WhatsAppURL builds a wa.me link carrying the share message. A number in
// international digits-only form targets a specific chat; an empty number
// opens the recipient picker.
func WhatsAppURL(rec contact.Record, number string) string {
	encoded := url.QueryEscape(Message(rec))
	number = strings.TrimSpace(number)
	if number != "" {
		return fmt.Sprintf("https://wa.me/%s?text=%s", number, encoded)
	}
	return "https://wa.me/?text=" + encoded
}
