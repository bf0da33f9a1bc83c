package infrastructure

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/mattwalter2/NourDemoDashboardBackend/internal/config"
	"github.com/mattwalter2/NourDemoDashboardBackend/internal/entities"
)

// formResponsesRange covers the lead-capture form sheet.
const formResponsesRange = "Form Responses 1!A:J"

// GoogleWorkspace wraps the Calendar and Sheets services behind the
// service-account credential configured at startup.
type GoogleWorkspace struct {
	calendar   *calendar.Service
	sheets     *sheets.Service
	calendarID string
	sheetID    string
}

func NewGoogleWorkspace(ctx context.Context, cfg *config.Config) (*GoogleWorkspace, error) {
	calSvc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(cfg.GoogleCredentialsFile),
		option.WithScopes(calendar.CalendarScope))
	if err != nil {
		return nil, fmt.Errorf("init calendar service: %w", err)
	}

	sheetSvc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.GoogleCredentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}

	return &GoogleWorkspace{
		calendar:   calSvc,
		sheets:     sheetSvc,
		calendarID: cfg.CalendarID,
		sheetID:    cfg.FollowupSheetID,
	}, nil
}

// ListAppointments returns up to 10 upcoming single events starting
// from now (UTC), ordered by start time.
func (g *GoogleWorkspace) ListAppointments() ([]entities.Appointment, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	log.Printf("[calendar] fetching events from %s", now)

	result, err := g.calendar.Events.List(g.calendarID).
		TimeMin(now).
		MaxResults(10).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	appointments := make([]entities.Appointment, 0, len(result.Items))
	for _, event := range result.Items {
		appointments = append(appointments, normalizeEvent(event))
	}
	return appointments, nil
}

func normalizeEvent(event *calendar.Event) entities.Appointment {
	summary := event.Summary
	if summary == "" {
		summary = "Busy"
	}
	status := event.Status
	if status == "" {
		status = "confirmed"
	}

	return entities.Appointment{
		ID:          event.Id,
		Summary:     summary,
		Description: event.Description,
		Start:       eventTime(event.Start),
		End:         eventTime(event.End),
		Location:    event.Location,
		Status:      status,
		HTMLLink:    event.HtmlLink,
	}
}

// eventTime prefers the timed value and falls back to the all-day date.
func eventTime(t *calendar.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

// CreateAppointment inserts a calendar event and returns its id.
func (g *GoogleWorkspace) CreateAppointment(summary, description string, start, end time.Time) (string, error) {
	event := &calendar.Event{
		Summary:     summary,
		Description: description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: start.Location().String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: end.Location().String(),
		},
	}

	created, err := g.calendar.Events.Insert(g.calendarID, event).Do()
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}

	log.Printf("[calendar] event created: %s", created.HtmlLink)
	return created.Id, nil
}

// ReadFormResponses reads the lead-capture sheet and turns each data
// row into a record keyed by the header row; short rows pad with "".
func (g *GoogleWorkspace) ReadFormResponses() ([]map[string]interface{}, error) {
	if g.sheetID == "" {
		return nil, fmt.Errorf("followup sheet id is not configured")
	}

	result, err := g.sheets.Spreadsheets.Values.Get(g.sheetID, formResponsesRange).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	return RowsToRecords(result.Values), nil
}

// RowsToRecords maps sheet rows to header-keyed records. The first row
// supplies the keys; each following row becomes {id: n, header: cell}.
func RowsToRecords(rows [][]interface{}) []map[string]interface{} {
	if len(rows) == 0 {
		return []map[string]interface{}{}
	}

	headers := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		headers[i] = fmt.Sprint(cell)
	}

	records := make([]map[string]interface{}, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record := map[string]interface{}{"id": i + 1}
		for j, header := range headers {
			if j < len(row) {
				record[header] = row[j]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}
	return records
}
