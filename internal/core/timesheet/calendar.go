package timesheet

import (
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
)

const calendarProductID = "-//hr-records//timesheets//EN"

// Calendar は勤務記録を iCalendar (RFC 5545) 形式で出力します。
// 1 件の勤務記録が 1 つの VEVENT になり、件名は社員名です。
func Calendar(entries []*Timesheet, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	for _, entry := range entries {
		if entry == nil {
			continue
		}
		event := cal.AddEvent("timesheet-" + strconv.FormatInt(entry.ID, 10) + "@hr-records")
		event.SetDtStampTime(stamp)
		event.SetStartAt(entry.StartTime)
		event.SetEndAt(entry.EndTime)
		event.SetSummary(entry.EmployeeFullName)
		if entry.Summary != nil {
			event.SetDescription(*entry.Summary)
		}
	}

	return cal.Serialize()
}
