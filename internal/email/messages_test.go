package email

import (
	"strings"
	"testing"
)

func TestRegistrationConfirmation(t *testing.T) {
	msg := RegistrationConfirmation{
		UserName:      "Jo",
		ClassName:     "Morning Flow",
		ClassDate:     "Monday, January 1, 2024",
		ClassTime:     "8:00 AM",
		Instructor:    "Sarah",
		ClassLocation: "Main Studio",
		PaymentAmount: 12,
	}
	if got := msg.Subject(); got != "Registration Confirmed - Morning Flow" {
		t.Errorf("subject %q", got)
	}
	html := msg.HTML()
	for _, want := range []string{"Jo", "Morning Flow", "Monday, January 1, 2024", "8:00 AM", "Sarah", "Main Studio", "$12.00"} {
		if !strings.Contains(html, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestClassCancellation(t *testing.T) {
	msg := ClassCancellation{
		UserName:      "Jo",
		ClassName:     "Morning Flow",
		ClassDate:     "Monday, January 1, 2024",
		ClassTime:     "8:00 AM",
		Instructor:    "Sarah",
		PaymentAmount: 12,
	}
	if got := msg.Subject(); got != "Class Cancelled - Morning Flow" {
		t.Errorf("subject %q", got)
	}
	if !strings.Contains(msg.HTML(), "refund") {
		t.Error("paid cancellation must mention the refund path")
	}

	msg.PaymentAmount = 0
	if strings.Contains(msg.HTML(), "refund") {
		t.Error("unpaid cancellation must not mention a refund")
	}
}

func TestWaiverAgreementEscaping(t *testing.T) {
	msg := WaiverAgreement{
		UserName:      "Jo <script>",
		AgreementDate: "January 1, 2024",
		WaiverHTML:    "<h1>Terms</h1>",
	}
	html := msg.HTML()
	if strings.Contains(html, "<script>") {
		t.Error("user-supplied name not escaped")
	}
	if !strings.Contains(html, "<h1>Terms</h1>") {
		t.Error("pre-rendered waiver HTML must pass through unescaped")
	}
}
