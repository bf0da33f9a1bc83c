package usecases

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mattwalter2/NourDemoDashboardBackend/internal/entities"
	"github.com/mattwalter2/NourDemoDashboardBackend/internal/interfaces"
)

// ClinicTimeZone is the clinic's fixed business time zone. The voice
// agent sends appointment times without an offset; those are taken to
// be local clinic time.
const ClinicTimeZone = "America/New_York"

const scheduleFunctionName = "schedule_dental_appointment"

// appointmentDuration is fixed; the clinic books hour slots.
const appointmentDuration = time.Hour

// BookingService turns voice-agent tool calls into calendar events.
type BookingService struct {
	calendar interfaces.AppointmentCalendar
	notifier interfaces.BookingNotifier
	clinicTZ *time.Location
}

func NewBookingService(cal interfaces.AppointmentCalendar, notifier interfaces.BookingNotifier) *BookingService {
	loc, err := time.LoadLocation(ClinicTimeZone)
	if err != nil {
		log.Printf("[booking] failed to load clinic time zone: %v, falling back to UTC", err)
		loc = time.UTC
	}
	return &BookingService{
		calendar: cal,
		notifier: notifier,
		clinicTZ: loc,
	}
}

// HandleToolCalls processes a batch of tool calls and returns one
// result per recognized call. Unrecognized function names are skipped;
// per-call failures become textual results because the tool-call
// protocol expects data, never errors.
func (s *BookingService) HandleToolCalls(calls []entities.ToolCall) ([]entities.ToolResult, error) {
	results := make([]entities.ToolResult, 0, len(calls))
	for _, call := range calls {
		if call.Function.Name != scheduleFunctionName {
			continue
		}

		args, err := decodeArguments(call.Function.Arguments)
		if err != nil {
			return nil, fmt.Errorf("decode tool arguments: %w", err)
		}

		log.Printf("[booking] tool call %s: %+v", call.ID, args)

		var result string
		if args.Day == "" || args.Time == "" {
			result = "Error: Missing day or time."
		} else {
			result = s.Book(args.Name, args.Day, args.Time)
		}

		results = append(results, entities.ToolResult{
			ToolCallID: call.ID,
			Result:     result,
		})
	}
	return results, nil
}

// Book creates the calendar event and returns the textual outcome.
func (s *BookingService) Book(patientName, day, isoTime string) string {
	start, err := s.parseStart(isoTime)
	if err != nil {
		log.Printf("[booking] bad start time %q: %v", isoTime, err)
		return "Failed to book calendar event: " + err.Error()
	}
	end := start.Add(appointmentDuration)

	summary := "Dental Appt: " + patientName
	description := "Booked via Vapi Voice Agent. Patient: " + patientName

	eventID, err := s.calendar.CreateAppointment(summary, description, start, end)
	if err != nil {
		log.Printf("[booking] calendar error: %v", err)
		return "Failed to book calendar event: " + err.Error()
	}

	if s.notifier != nil {
		s.notifier.NotifyBooked(patientName, start, end, eventID)
	}

	return fmt.Sprintf("Success! Appointment booked for %s at %s. Event ID: %s", day, isoTime, eventID)
}

// parseStart parses an ISO-8601 timestamp. A value without an offset
// is interpreted in the clinic time zone.
func (s *BookingService) parseStart(isoTime string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, isoTime); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, isoTime, s.clinicTZ); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO time: %q", isoTime)
}

// decodeArguments accepts both shapes Vapi sends: a JSON object or a
// JSON string containing an encoded object.
func decodeArguments(raw json.RawMessage) (entities.AppointmentRequest, error) {
	var args entities.AppointmentRequest
	if len(raw) == 0 {
		return args, nil
	}

	if err := json.Unmarshal(raw, &args); err == nil {
		return args, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return args, fmt.Errorf("arguments are neither object nor string")
	}
	if err := json.Unmarshal([]byte(encoded), &args); err != nil {
		return args, err
	}
	return args, nil
}
