package timesheet

import (
	"strings"
	"testing"
	"time"
)

func TestCalendar(t *testing.T) {
	t.Parallel()

	summary := "Sprint planning"
	entries := []*Timesheet{
		{
			ID:               5,
			EmployeeID:       1,
			EmployeeFullName: "John Doe",
			StartTime:        time.Date(2025, 2, 9, 8, 0, 0, 0, time.UTC),
			EndTime:          time.Date(2025, 2, 9, 16, 0, 0, 0, time.UTC),
			Summary:          &summary,
		},
		nil,
		{
			ID:               6,
			EmployeeID:       2,
			EmployeeFullName: "Jane Smith",
			StartTime:        time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC),
			EndTime:          time.Date(2025, 2, 10, 17, 0, 0, 0, time.UTC),
		},
	}

	out := Calendar(entries, testNow)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:PUBLISH",
		"PRODID:" + calendarProductID,
		"UID:timesheet-5@hr-records",
		"DTSTART:20250209T080000Z",
		"DTEND:20250209T160000Z",
		"SUMMARY:John Doe",
		"DESCRIPTION:Sprint planning",
		"UID:timesheet-6@hr-records",
		"SUMMARY:Jane Smith",
		"DTSTAMP:20261015T093000Z",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected calendar to contain %q\n%s", want, out)
		}
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Fatalf("expected 2 events, got %d", got)
	}
}

func TestCalendar_Empty(t *testing.T) {
	t.Parallel()

	out := Calendar(nil, testNow)
	if !strings.Contains(out, "BEGIN:VCALENDAR") || strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatalf("unexpected empty calendar:\n%s", out)
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	t.Parallel()

	entries := []*Timesheet{
		{ID: 3, EmployeeID: 2, EmployeeFullName: "Jane Smith"},
		{ID: 1, EmployeeID: 1, EmployeeFullName: "John Doe"},
		nil,
		{ID: 2, EmployeeID: 3, EmployeeFullName: "Alice Johnson"},
	}

	if got := entryIDs(Filter(entries, "", 0)); !equalIDs(got, []int64{3, 1, 2}) {
		t.Fatalf("unexpected order: %v", got)
	}
	if got := entryIDs(Filter(entries, "  SMITH ", 0)); !equalIDs(got, []int64{3}) {
		t.Fatalf("unexpected name match: %v", got)
	}
	if got := Filter(entries, "zed", 0); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
