package usecases

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mattwalter2/NourDemoDashboardBackend/internal/entities"
)

type fakeCalendar struct {
	lastSummary     string
	lastDescription string
	lastStart       time.Time
	lastEnd         time.Time
	err             error
}

func (f *fakeCalendar) CreateAppointment(summary, description string, start, end time.Time) (string, error) {
	f.lastSummary = summary
	f.lastDescription = description
	f.lastStart = start
	f.lastEnd = end
	if f.err != nil {
		return "", f.err
	}
	return "evt_abc123", nil
}

type fakeNotifier struct {
	called  bool
	eventID string
}

func (f *fakeNotifier) NotifyBooked(patientName string, start, end time.Time, eventID string) {
	f.called = true
	f.eventID = eventID
}

func TestParseStartWithoutOffsetUsesClinicZone(t *testing.T) {
	s := NewBookingService(&fakeCalendar{}, nil)

	start, err := s.parseStart("2024-05-01T14:00:00")
	if err != nil {
		t.Fatalf("parseStart: %v", err)
	}

	want := time.Date(2024, 5, 1, 14, 0, 0, 0, s.clinicTZ)
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}

	// May 1st is DST in New York, so the effective offset is -4h.
	_, offset := start.Zone()
	if offset != -4*3600 {
		t.Errorf("zone offset = %d, want %d", offset, -4*3600)
	}
}

func TestParseStartKeepsExplicitOffset(t *testing.T) {
	s := NewBookingService(&fakeCalendar{}, nil)

	start, err := s.parseStart("2024-05-01T14:00:00+02:00")
	if err != nil {
		t.Fatalf("parseStart: %v", err)
	}

	_, offset := start.Zone()
	if offset != 2*3600 {
		t.Errorf("zone offset = %d, want %d", offset, 2*3600)
	}
}

func TestParseStartRejectsGarbage(t *testing.T) {
	s := NewBookingService(&fakeCalendar{}, nil)
	if _, err := s.parseStart("next tuesday"); err == nil {
		t.Error("expected error for non-ISO input")
	}
}

func TestBookCreatesOneHourEvent(t *testing.T) {
	cal := &fakeCalendar{}
	notifier := &fakeNotifier{}
	s := NewBookingService(cal, notifier)

	result := s.Book("Alice", "2024-05-01", "2024-05-01T14:00:00")

	if !strings.Contains(result, "Success!") {
		t.Errorf("result = %q, want Success!", result)
	}
	if !strings.Contains(result, "evt_abc123") {
		t.Errorf("result = %q, want event id", result)
	}
	if cal.lastSummary != "Dental Appt: Alice" {
		t.Errorf("summary = %q", cal.lastSummary)
	}
	if got := cal.lastEnd.Sub(cal.lastStart); got != time.Hour {
		t.Errorf("duration = %v, want 1h", got)
	}
	if !notifier.called || notifier.eventID != "evt_abc123" {
		t.Error("notifier was not invoked with the created event id")
	}
}

func TestBookReportsCalendarFailureAsData(t *testing.T) {
	cal := &fakeCalendar{err: errors.New("quota exceeded")}
	s := NewBookingService(cal, &fakeNotifier{})

	result := s.Book("Bob", "2024-05-02", "2024-05-02T09:00:00")

	if !strings.Contains(result, "Failed to book calendar event:") {
		t.Errorf("result = %q, want failure text", result)
	}
	if !strings.Contains(result, "quota exceeded") {
		t.Errorf("result = %q, want underlying error text", result)
	}
}

func TestBookDoesNotNotifyOnFailure(t *testing.T) {
	notifier := &fakeNotifier{}
	s := NewBookingService(&fakeCalendar{err: errors.New("down")}, notifier)

	s.Book("Bob", "2024-05-02", "2024-05-02T09:00:00")
	if notifier.called {
		t.Error("notifier must not fire for a failed booking")
	}
}

func TestHandleToolCallsMissingDayOrTime(t *testing.T) {
	s := NewBookingService(&fakeCalendar{}, nil)

	calls := []entities.ToolCall{{
		ID: "call_1",
		Function: entities.ToolFunction{
			Name:      "schedule_dental_appointment",
			Arguments: json.RawMessage(`{"name":"Alice","day":"2024-05-01"}`),
		},
	}}

	results, err := s.HandleToolCalls(calls)
	if err != nil {
		t.Fatalf("HandleToolCalls: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].ToolCallID != "call_1" {
		t.Errorf("toolCallId = %q", results[0].ToolCallID)
	}
	if results[0].Result != "Error: Missing day or time." {
		t.Errorf("result = %q", results[0].Result)
	}
}

func TestHandleToolCallsStringEncodedArguments(t *testing.T) {
	cal := &fakeCalendar{}
	s := NewBookingService(cal, nil)

	// Vapi sometimes double-encodes the arguments.
	calls := []entities.ToolCall{{
		ID: "call_2",
		Function: entities.ToolFunction{
			Name:      "schedule_dental_appointment",
			Arguments: json.RawMessage(`"{\"name\":\"Alice\",\"day\":\"2024-05-01\",\"time\":\"2024-05-01T14:00:00\"}"`),
		},
	}}

	results, err := s.HandleToolCalls(calls)
	if err != nil {
		t.Fatalf("HandleToolCalls: %v", err)
	}
	if len(results) != 1 || !strings.Contains(results[0].Result, "Success!") {
		t.Fatalf("results = %+v, want one success", results)
	}
	if cal.lastSummary != "Dental Appt: Alice" {
		t.Errorf("summary = %q", cal.lastSummary)
	}
}

func TestHandleToolCallsSkipsUnknownFunctions(t *testing.T) {
	s := NewBookingService(&fakeCalendar{}, nil)

	calls := []entities.ToolCall{{
		ID: "call_3",
		Function: entities.ToolFunction{
			Name:      "cancel_appointment",
			Arguments: json.RawMessage(`{}`),
		},
	}}

	results, err := s.HandleToolCalls(calls)
	if err != nil {
		t.Fatalf("HandleToolCalls: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}
