package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/hr-records/internal/core/timesheet"
)

const calendarContentType = "text/calendar; charset=utf-8"

// TimesheetHandler は勤務記録画面の HTTP ハンドラーです。
type TimesheetHandler struct {
	svc timesheet.UseCase
}

// NewTimesheetHandler は TimesheetHandler を生成します。
func NewTimesheetHandler(svc timesheet.UseCase) *TimesheetHandler {
	return &TimesheetHandler{svc: svc}
}

// List は社員名と社員 ID で絞り込んだ勤務記録を返します。
// GET /timesheets?q=&employee_id=
func (h *TimesheetHandler) List(c *gin.Context) {
	in, err := listInput(c)
	if err != nil {
		writeError(c, err)
		return
	}

	entries, err := h.svc.ListTimesheets(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": toTimesheetResponses(entries)})
}

// Calendar は勤務記録を iCalendar 形式で返します。
// GET /timesheets/calendar.ics?q=&employee_id=
func (h *TimesheetHandler) Calendar(c *gin.Context) {
	in, err := listInput(c)
	if err != nil {
		writeError(c, err)
		return
	}

	feed, err := h.svc.CalendarFeed(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="timesheets.ics"`)
	c.Data(http.StatusOK, calendarContentType, []byte(feed))
}

// Get は勤務記録を 1 件返します。
// GET /timesheets/:id
func (h *TimesheetHandler) Get(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		notFound(c, "Timesheet not found")
		return
	}

	found, err := h.svc.GetTimesheet(c.Request.Context(), timesheet.GetTimesheetInput{ID: id})
	if err != nil {
		if errors.Is(err, timesheet.ErrTimesheetNotFound) {
			notFound(c, "Timesheet not found")
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTimesheetResponse(found))
}

// Create は勤務記録を登録し、一覧へリダイレクトします。
// POST /timesheets
func (h *TimesheetHandler) Create(c *gin.Context) {
	if _, err := h.svc.CreateTimesheet(c.Request.Context(), timesheet.CreateTimesheetInput{
		Fields: timesheetFields(c),
	}); err != nil {
		writeError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/timesheets")
}

// Update は勤務記録を更新し、一覧へリダイレクトします。
// POST /timesheets/:id/edit
func (h *TimesheetHandler) Update(c *gin.Context) {
	_, err := h.svc.UpdateTimesheet(c.Request.Context(), timesheet.UpdateTimesheetInput{
		ID:     c.Param("id"),
		Fields: timesheetFields(c),
	})
	if err != nil {
		if errors.Is(err, timesheet.ErrTimesheetNotFound) || errors.Is(err, timesheet.ErrInvalidID) {
			notFound(c, "Timesheet not found")
			return
		}
		writeError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/timesheets")
}

// Delete はフォームの timesheetId で勤務記録を削除します。
// POST /timesheets/delete
func (h *TimesheetHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteTimesheet(c.Request.Context(), timesheet.DeleteTimesheetInput{
		ID: c.PostForm("timesheetId"),
	}); err != nil {
		writeError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/timesheets")
}

func timesheetFields(c *gin.Context) timesheet.Fields {
	return timesheet.Fields{
		EmployeeID: c.PostForm("employee_id"),
		StartTime:  c.PostForm("start_time"),
		EndTime:    c.PostForm("end_time"),
		Summary:    c.PostForm("summary"),
	}
}

func listInput(c *gin.Context) (timesheet.ListTimesheetsInput, error) {
	in := timesheet.ListTimesheetsInput{Query: c.Query("q")}

	raw := strings.TrimSpace(c.Query("employee_id"))
	if raw == "" {
		return in, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return in, fmt.Errorf("employee_id %q: %w", raw, errInvalidFilter)
	}
	in.EmployeeID = id
	return in, nil
}
