package export_test

import (
	"strings"
	"testing"

	"cardbox/internal/contact"
	"cardbox/internal/export"
)

func TestMessageIncludesOnlyPopulatedFields(t *testing.T) {
	rec := contact.Record{
		Name:  "Maria Lopez",
		Phone: "3005551212",
	}

	msg := export.Message(rec)

	if !strings.HasPrefix(msg, export.MessageHeader+"\n\n") {
		t.Fatalf("message missing header: %q", msg)
	}
	if !strings.Contains(msg, "*Nombre:* Maria Lopez\n") {
		t.Errorf("name line missing: %q", msg)
	}
	if !strings.Contains(msg, "*Teléfono:* 3005551212\n") {
		t.Errorf("phone line missing: %q", msg)
	}
	if strings.Contains(msg, "Empresa") || strings.Contains(msg, "Email") || strings.Contains(msg, "Notas") {
		t.Errorf("empty fields rendered: %q", msg)
	}
}

func TestMessageFieldOrder(t *testing.T) {
	rec := contact.Record{
		Name:     "Maria Lopez",
		Company:  "Firm S.A.S",
		Position: "Gerente",
		Phone:    "3005551212",
		Email:    "maria@firm.com",
		Notes:    "met at booth 12",
	}

	msg := export.Message(rec)
	order := []string{"*Nombre:*", "*Empresa:*", "*Cargo:*", "*Teléfono:*", "*Email:*", "*Notas:*"}
	last := -1
	for _, label := range order {
		idx := strings.Index(msg, label)
		if idx < 0 {
			t.Fatalf("label %s missing: %q", label, msg)
		}
		if idx < last {
			t.Fatalf("label %s out of order: %q", label, msg)
		}
		last = idx
	}
}

func TestWhatsAppURL(t *testing.T) {
	rec := contact.Record{Name: "Maria"}

	open := export.WhatsAppURL(rec, "")
	if !strings.HasPrefix(open, "https://wa.me/?text=") {
		t.Fatalf("unexpected picker URL %q", open)
	}

	direct := export.WhatsAppURL(rec, "573133845117")
	if !strings.HasPrefix(direct, "https://wa.me/573133845117?text=") {
		t.Fatalf("unexpected direct URL %q", direct)
	}
	if strings.Contains(direct, " ") || strings.Contains(direct, "\n") {
		t.Fatalf("message not escaped: %q", direct)
	}
}
