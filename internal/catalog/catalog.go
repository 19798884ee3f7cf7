// Package catalog exposes the static reference data of the reservation
// engine: the computer labs and their seat grids, the bookable time
// slots, the college enumeration and the building display names.  All
// data is immutable for the process lifetime; lookups never fail hard,
// an unknown lab code falls back to a defined default lab.
package catalog

import (
	"fmt"
	"regexp"
	"time"
)

// Lab describes a computer laboratory and its seating geometry.
//
// Fields:
//  Code             – unique lab code (e.g. "GK101A").
//  Building         – display name of the building housing the lab.
//  BuildingKey      – short key used to group labs by building.
//  TotalSeats       – number of bookable seats on the grid.
//  Rows             – ordered row letters of the seat grid.
//  Columns          – seats per row.
//  OperatingHours   – free-text operating hours shown to users.
//  BaselineOccupied – seat IDs pre-seeded as permanently occupied.
//  BaselineReserved – seat IDs pre-seeded as reserved outside the engine.
type Lab struct {
	Code             string
	Building         string
	BuildingKey      string
	TotalSeats       int
	Rows             []string
	Columns          int
	OperatingHours   string
	BaselineOccupied map[string]bool
	BaselineReserved map[string]bool
}

// seatPattern matches a seat label: one row letter followed by a one or
// two digit column number, e.g. "C7" or "A12".
var seatPattern = regexp.MustCompile(`^[A-Z][0-9]{1,2}$`)

// labs holds every lab known to the engine.  The first entry doubles as
// the default lab returned for unknown codes.
var labs = []Lab{
	{
		Code:             "GK101A",
		Building:         "Gokongwei Hall",
		BuildingKey:      "gokongwei",
		TotalSeats:       40,
		Rows:             []string{"A", "B", "C", "D", "E"},
		Columns:          8,
		OperatingHours:   "07:30 AM - 06:00 PM",
		BaselineOccupied: seatSet("A3", "B5", "D1"),
		BaselineReserved: seatSet("C7"),
	},
	{
		Code:             "GK201B",
		Building:         "Gokongwei Hall",
		BuildingKey:      "gokongwei",
		TotalSeats:       30,
		Rows:             []string{"A", "B", "C", "D", "E"},
		Columns:          6,
		OperatingHours:   "07:30 AM - 06:00 PM",
		BaselineOccupied: seatSet("B2", "E6"),
		BaselineReserved: seatSet(),
	},
	{
		Code:             "AG1706",
		Building:         "Andrew Gonzalez Hall",
		BuildingKey:      "andrew",
		TotalSeats:       48,
		Rows:             []string{"A", "B", "C", "D", "E", "F"},
		Columns:          8,
		OperatingHours:   "08:00 AM - 05:00 PM",
		BaselineOccupied: seatSet("A1", "F8"),
		BaselineReserved: seatSet("C4", "D4"),
	},
	{
		Code:             "LS212",
		Building:         "St. La Salle Hall",
		BuildingKey:      "lasalle",
		TotalSeats:       24,
		Rows:             []string{"A", "B", "C", "D"},
		Columns:          6,
		OperatingHours:   "07:30 AM - 06:00 PM",
		BaselineOccupied: seatSet(),
		BaselineReserved: seatSet("A6"),
	},
	{
		Code:             "VL303",
		Building:         "Velasco Hall",
		BuildingKey:      "velasco",
		TotalSeats:       35,
		Rows:             []string{"A", "B", "C", "D", "E"},
		Columns:          7,
		OperatingHours:   "08:00 AM - 06:00 PM",
		BaselineOccupied: seatSet("E7"),
		BaselineReserved: seatSet(),
	},
}

// buildings maps a building key to its display name.
var buildings = map[string]string{
	"gokongwei": "Gokongwei Hall",
	"andrew":    "Andrew Gonzalez Hall",
	"lasalle":   "St. La Salle Hall",
	"velasco":   "Velasco Hall",
}

// colleges is the enumeration of valid college codes for registration.
var colleges = []string{"CCS", "COS", "GCOE", "CLA", "COB", "SOE", "BAGCED"}

// SlotDuration is the fixed length of every bookable time slot.
const SlotDuration = 30 * time.Minute

// timeSlots enumerates the bookable 30-minute slots.  Labels run from
// 07:30 through 17:30 so the last slot ends at the 18:00 closing time.
var timeSlots = buildSlots()

func buildSlots() []string {
	slots := make([]string, 0, 21)
	t := time.Date(2000, 1, 1, 7, 30, 0, 0, time.UTC)
	end := time.Date(2000, 1, 1, 17, 30, 0, 0, time.UTC)
	for !t.After(end) {
		slots = append(slots, t.Format("15:04"))
		t = t.Add(SlotDuration)
	}
	return slots
}

func seatSet(ids ...string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// Labs returns every lab in declaration order.  Callers must not
// mutate the returned slice.
func Labs() []Lab { return labs }

// DefaultLab returns the lab used as a fallback for unknown codes.
func DefaultLab() Lab { return labs[0] }

// LabByCode returns the lab with the given code.  Unknown codes fall
// back to the default lab instead of failing, mirroring how the
// booking flow always lands on a usable lab page.
func LabByCode(code string) Lab {
	for _, l := range labs {
		if l.Code == code {
			return l
		}
	}
	return DefaultLab()
}

// KnownLab reports whether the code names a real lab (no fallback).
func KnownLab(code string) bool {
	for _, l := range labs {
		if l.Code == code {
			return true
		}
	}
	return false
}

// TimeSlots returns the ordered 30-minute slot labels.
func TimeSlots() []string { return timeSlots }

// ValidSlot reports whether label is one of the enumerated slots.
func ValidSlot(label string) bool {
	for _, s := range timeSlots {
		if s == label {
			return true
		}
	}
	return false
}

// SlotStart resolves a calendar date ("2006-01-02") and a slot label to
// the slot's starting time in UTC.  It returns an error when either
// part is structurally invalid or the label is not an enumerated slot.
func SlotStart(date, label string) (time.Time, error) {
	if !ValidSlot(label) {
		return time.Time{}, fmt.Errorf("unknown time slot %q", label)
	}
	t, err := time.Parse("2006-01-02 15:04", date+" "+label)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.UTC(), nil
}

// Colleges returns the valid college codes.
func Colleges() []string { return colleges }

// ValidCollege reports whether code is an enumerated college.
func ValidCollege(code string) bool {
	for _, c := range colleges {
		if c == code {
			return true
		}
	}
	return false
}

// BuildingName resolves a building key to its display name.  Unknown
// keys return the key itself so display code never renders empty.
func BuildingName(key string) string {
	if name, ok := buildings[key]; ok {
		return name
	}
	return key
}

// ValidSeatLabel reports whether s has the row-letter + column-number
// shape of a seat identifier, without checking any particular grid.
func ValidSeatLabel(s string) bool { return seatPattern.MatchString(s) }

// ValidSeat reports whether seat names a position on the lab's grid:
// the label must be well formed, its row letter must be one of the
// lab's rows and its column must be within 1..Columns.
func ValidSeat(l Lab, seat string) bool {
	if !ValidSeatLabel(seat) {
		return false
	}
	row := seat[:1]
	col := 0
	for _, ch := range seat[1:] {
		col = col*10 + int(ch-'0')
	}
	if col < 1 || col > l.Columns {
		return false
	}
	for _, r := range l.Rows {
		if r == row {
			return true
		}
	}
	return false
}

// SeatIDs enumerates every seat of the lab in row-major order.
func SeatIDs(l Lab) []string {
	ids := make([]string, 0, len(l.Rows)*l.Columns)
	for _, r := range l.Rows {
		for c := 1; c <= l.Columns; c++ {
			ids = append(ids, fmt.Sprintf("%s%d", r, c))
		}
	}
	return ids
}
