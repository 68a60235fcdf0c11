package scheduling

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"outpatient-registration/internal/domain/entity"
)

// Entry is the subset of a registration the numbering and queue rules read.
type Entry struct {
	DoctorID uuid.UUID
	Date     civil.Date
	Period   entity.Period
	Number   int
	Status   entity.RegistrationStatus
}

// SlotKey identifies one clinic session.
type SlotKey struct {
	DoctorID uuid.UUID
	Date     civil.Date
	Period   entity.Period
}

func (e Entry) key() SlotKey {
	return SlotKey{DoctorID: e.DoctorID, Date: e.Date, Period: e.Period}
}

// NextRegistrationNumber returns the number the next booking of the session
// receives: one past the highest number ever issued for it. Cancelled entries
// still hold their number, so a cancellation never frees a number that a later
// booking could collide on. With no cancellations the result equals the count
// of confirmed entries plus one.
//
// The result is only safe to persist inside a serialized write keyed by the
// session; see service.RegistrationAllocator.
func NextRegistrationNumber(entries []Entry, doctorID uuid.UUID, date civil.Date, period entity.Period) int {
	key := SlotKey{DoctorID: doctorID, Date: date, Period: period}
	highest := 0
	for _, e := range entries {
		if e.key() == key && e.Number > highest {
			highest = e.Number
		}
	}
	return highest + 1
}

// ConfirmedNumbers returns the confirmed numbers of the session in ascending order.
func ConfirmedNumbers(entries []Entry, doctorID uuid.UUID, date civil.Date, period entity.Period) []int {
	key := SlotKey{DoctorID: doctorID, Date: date, Period: period}
	var numbers []int
	for _, e := range entries {
		if e.key() == key && e.Status == entity.RegistrationStatusConfirmed {
			numbers = append(numbers, e.Number)
		}
	}
	sort.Ints(numbers)
	return numbers
}

// EntryOf projects a stored registration onto the numbering fields.
func EntryOf(r entity.Registration) Entry {
	return Entry{
		DoctorID: r.DoctorID,
		Date:     civil.DateOf(r.OPDDate),
		Period:   r.Period,
		Number:   r.RegistrationNumber,
		Status:   r.Status,
	}
}

// EntriesOf projects a slice of registrations.
func EntriesOf(regs []entity.Registration) []Entry {
	entries := make([]Entry, 0, len(regs))
	for _, r := range regs {
		entries = append(entries, EntryOf(r))
	}
	return entries
}
