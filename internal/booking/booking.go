// Package booking derives per-class view state from the class list and a
// user's registrations, and performs the registration mutations.
package booking

import (
	"log"
	"sort"
	"time"

	"github.com/stillpoint/studio/internal/models"
)

// BookedClassIDs returns the set of class ids the registration list
// covers. Set semantics: duplicate rows collapse to one entry.
func BookedClassIDs(regs []models.Registration) map[uint]bool {
	booked := make(map[uint]bool, len(regs))
	for _, r := range regs {
		booked[r.ClassID] = true
	}
	return booked
}

// RegistrationForClass returns the registration targeting classID, or
// false if there is none. At most one row per (class, user) is expected;
// if the store ever hands back more, the most recently created one wins
// and the ambiguity is logged rather than swallowed.
func RegistrationForClass(regs []models.Registration, classID uint) (models.Registration, bool) {
	var (
		best  models.Registration
		found bool
		dupes int
	)
	for _, r := range regs {
		if r.ClassID != classID {
			continue
		}
		if found {
			dupes++
		}
		if !found || r.CreatedAt.After(best.CreatedAt) {
			best = r
		}
		found = true
	}
	if dupes > 0 {
		log.Printf("booking: %d duplicate registrations for class %d (user %d); using most recent id %d",
			dupes+1, classID, best.UserID, best.ID)
	}
	return best, found
}

// PaymentClicked reports whether the registration for classID has its
// payment-link-clicked marker set.
func PaymentClicked(regs []models.Registration, classID uint) bool {
	reg, ok := RegistrationForClass(regs, classID)
	return ok && reg.PaymentLinkClicked
}

// UpcomingClasses filters classes to those starting on or after the
// start of today (local calendar day, not a rolling 24h window) and
// orders them by start time ascending. The input slice is not modified.
func UpcomingClasses(classes []models.Class, now time.Time) []models.Class {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	out := make([]models.Class, 0, len(classes))
	for _, c := range classes {
		if !c.StartTime.Before(dayStart) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}
