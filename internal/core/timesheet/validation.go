package timesheet

import (
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Fields はフォームから送信された勤務記録項目の生の値です。
type Fields struct {
	EmployeeID string
	StartTime  string
	EndTime    string
	Summary    string
}

type validFields struct {
	employeeID int64
	startTime  time.Time
	endTime    time.Time
	summary    *string
}

func validate(in Fields) (validFields, FieldErrors) {
	var (
		out validFields
		fe  FieldErrors
	)

	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		fe.EmployeeID = "Employee is required."
	} else if id, err := strconv.ParseInt(employeeID, 10, 64); err != nil || id <= 0 {
		fe.EmployeeID = employeeMissingMessage
	} else {
		out.employeeID = id
	}

	startOK, endOK := false, false

	if start := strings.TrimSpace(in.StartTime); start == "" {
		fe.StartTime = "Start time is Required."
	} else if parsed, err := parseTime(start); err != nil {
		fe.StartTime = "Start time must be a valid date and time."
	} else {
		out.startTime = parsed
		startOK = true
	}

	if end := strings.TrimSpace(in.EndTime); end == "" {
		fe.EndTime = "End time is Required."
	} else if parsed, err := parseTime(end); err != nil {
		fe.EndTime = "End time must be a valid date and time."
	} else {
		out.endTime = parsed
		endOK = true
	}

	if startOK && endOK && !out.endTime.After(out.startTime) {
		fe.Time = "End time should be greater than Start Time"
	}

	if summary := strings.TrimSpace(in.Summary); summary != "" {
		out.summary = &summary
	}

	return out, fe
}

const employeeMissingMessage = "Selected employee does not exist."

// parseTime は datetime-local 形式と RFC 3339 を受け付けます。タイムゾーンなしの値は UTC とみなします。
func parseTime(raw string) (time.Time, error) {
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, firstErr
	}
	return t.UTC(), nil
}
