package interfaces

import "time"

// AppointmentCalendar is the write side of the clinic calendar.
type AppointmentCalendar interface {
	CreateAppointment(summary, description string, start, end time.Time) (string, error)
}

// BookingNotifier receives a best-effort signal after a successful
// booking. Implementations must never block the caller or surface
// failures to it.
type BookingNotifier interface {
	NotifyBooked(patientName string, start, end time.Time, eventID string)
}
