// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// ReservationBookedEvent is published whenever a reservation is
// successfully created, whether self-service or walk-in.  It carries
// enough detail for downstream consumers (audit log, notifications)
// without a database query.  Anonymous bookings are published with the
// owner fields blanked so the broker never sees a hidden identity.
type ReservationBookedEvent struct {
	ReservationID string `json:"reservation_id"`
	Lab           string `json:"lab"`
	Seat          string `json:"seat"`
	Building      string `json:"building"`
	Date          string `json:"date"`
	TimeSlot      string `json:"time_slot"`
	UserEmail     string `json:"user_email,omitempty"`
	StudentID     string `json:"student_id,omitempty"`
	IsWalkIn      bool   `json:"is_walk_in"`
	CreatedBy     string `json:"created_by,omitempty"`
	BookedAt      string `json:"booked_at"`
}
