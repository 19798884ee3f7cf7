package model

import "time"

// Reservation statuses.  "upcoming" is the only initial state; the two
// other states are terminal.  Transitions are one-directional:
// upcoming→cancelled (cancel / no-show removal) and upcoming→completed
// (time-driven sweep once the slot has passed).
const (
	StatusUpcoming  = "upcoming"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Reservation records a single 30-minute seat booking.  Identity
// fields are frozen at creation; the only mutation a reservation ever
// sees is its status flip.  An "edit" is modeled as cancel + rebook.
//
// Fields:
//  ID            – UUID primary key.
//  Lab           – lab code (catalog.Lab.Code).
//  Seat          – seat identifier on the lab grid (e.g. "C7").
//  Building      – display name of the lab's building, denormalized
//                  for rendering reservation lists without a catalog
//                  lookup.
//  SlotDate      – calendar date of the slot ("2006-01-02").
//  TimeSlot      – display label of the 30-minute slot ("09:00").
//  StartsAt      – SlotDate+TimeSlot resolved to UTC at insert time;
//                  drives the no-show window and the completed sweep.
//  Status        – upcoming | completed | cancelled.
//  BookedOn      – calendar date the booking was created.
//  Anonymous     – hides the owner's identity from every viewer other
//                  than the owner.
//  UserEmail     – owning account's email; synthetic for unregistered
//                  walk-in students.
//  UserStudentID – student number; always set for walk-ins.
//  UserName      – display name resolved at creation.
//  IsWalkIn      – true when created by a technician on behalf of a
//                  student.
//  CreatedBy     – technician email for walk-ins, empty otherwise.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – timestamp of the last status change.
type Reservation struct {
	ID            string    `json:"id"`
	Lab           string    `json:"lab"`
	Seat          string    `json:"seat"`
	Building      string    `json:"building"`
	SlotDate      string    `json:"date"`
	TimeSlot      string    `json:"time_slot"`
	StartsAt      time.Time `json:"starts_at"`
	Status        string    `json:"status"`
	BookedOn      string    `json:"booked_on"`
	Anonymous     bool      `json:"anonymous"`
	UserEmail     string    `json:"user_email"`
	UserStudentID string    `json:"user_student_id,omitempty"`
	UserName      string    `json:"user_name,omitempty"`
	IsWalkIn      bool      `json:"is_walk_in"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AnonymousDisplayName replaces the owner identity on masked rows.
const AnonymousDisplayName = "Anonymous"

// MaskForViewer hides the owner's identity on anonymous reservations
// for any viewer other than the owner.  Technicians see masked rows
// too; anonymity is absolute on read paths.
func (r Reservation) MaskForViewer(viewerEmail string) Reservation {
	if !r.Anonymous || r.UserEmail == viewerEmail {
		return r
	}
	r.UserEmail = ""
	r.UserName = AnonymousDisplayName
	r.UserStudentID = ""
	return r
}

// Seat availability states reported by the availability query.  Every
// seat of a lab grid is in exactly one state for a given date/slot.
const (
	SeatAvailable = "available"
	SeatOccupied  = "occupied"
	SeatReserved  = "reserved"
)
