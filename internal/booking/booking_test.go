package booking

import (
	"testing"
	"time"

	"github.com/stillpoint/studio/internal/models"
)

func reg(id, classID uint, created time.Time) models.Registration {
	return models.Registration{ID: id, ClassID: classID, CreatedAt: created}
}

func TestBookedClassIDs(t *testing.T) {
	now := time.Now()
	regs := []models.Registration{
		reg(1, 10, now),
		reg(2, 20, now),
		reg(3, 10, now), // duplicate row: still one set entry
	}
	booked := BookedClassIDs(regs)
	if len(booked) != 2 {
		t.Fatalf("expected 2 booked ids, got %d", len(booked))
	}
	if !booked[10] || !booked[20] {
		t.Errorf("booked set missing entries: %v", booked)
	}
	if booked[30] {
		t.Error("booked set contains an id with no backing row")
	}
}

func TestRegistrationForClass(t *testing.T) {
	now := time.Now()
	regs := []models.Registration{reg(1, 10, now), reg(2, 20, now)}

	got, ok := RegistrationForClass(regs, 20)
	if !ok || got.ID != 2 {
		t.Errorf("got %v ok=%v, want id 2", got.ID, ok)
	}
	if _, ok := RegistrationForClass(regs, 99); ok {
		t.Error("found a registration for an unbooked class")
	}
}

// Two rows for the same class is a data-integrity violation the store
// should prevent; the lookup must still pick exactly one — the most
// recently created — instead of failing.
func TestRegistrationForClassDuplicates(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	regs := []models.Registration{
		reg(1, 10, base),
		reg(2, 10, base.Add(time.Hour)),
		reg(3, 10, base.Add(30*time.Minute)),
	}
	got, ok := RegistrationForClass(regs, 10)
	if !ok || got.ID != 2 {
		t.Errorf("got id %d ok=%v, want most recent id 2", got.ID, ok)
	}
}

func TestPaymentClicked(t *testing.T) {
	now := time.Now()
	regs := []models.Registration{
		{ID: 1, ClassID: 10, CreatedAt: now, PaymentLinkClicked: true, PaymentMethod: "venmo"},
		{ID: 2, ClassID: 20, CreatedAt: now},
	}
	if !PaymentClicked(regs, 10) {
		t.Error("expected clicked=true for class 10")
	}
	if PaymentClicked(regs, 20) {
		t.Error("expected clicked=false for class 20")
	}
	if PaymentClicked(regs, 99) {
		t.Error("expected clicked=false for unbooked class")
	}
}

func TestUpcomingClasses(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

	classes := []models.Class{
		{ID: 1, Name: "Tomorrow", StartTime: now.AddDate(0, 0, 1)},
		{ID: 2, Name: "Yesterday", StartTime: now.AddDate(0, 0, -1)},
		// Earlier today: start of the local day, not a rolling 24h
		// window, so it still counts as upcoming.
		{ID: 3, Name: "This morning", StartTime: time.Date(2024, 6, 15, 6, 0, 0, 0, time.UTC)},
		{ID: 4, Name: "Next week", StartTime: now.AddDate(0, 0, 7)},
	}

	got := UpcomingClasses(classes, now)
	if len(got) != 3 {
		t.Fatalf("expected 3 upcoming classes, got %d", len(got))
	}
	wantOrder := []uint{3, 1, 4}
	for i, c := range got {
		if c.ID != wantOrder[i] {
			t.Errorf("position %d: class %d, want %d", i, c.ID, wantOrder[i])
		}
	}
	// Input untouched.
	if classes[0].ID != 1 || len(classes) != 4 {
		t.Error("input slice was modified")
	}
}
