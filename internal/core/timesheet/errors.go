package timesheet

import "errors"

var (
	ErrInvalidID         = errors.New("timesheet: invalid id")
	ErrTimesheetNotFound = errors.New("timesheet: not found")
	ErrEmployeeNotFound  = errors.New("timesheet: employee not found")
)

// FieldErrors はフォーム項目ごとの検証エラーメッセージです。
// Time は開始・終了の前後関係の違反で共有されるキーです。
type FieldErrors struct {
	EmployeeID string `json:"employee_id,omitempty"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	Time       string `json:"time,omitempty"`
}

// Empty はエラーが 1 件もない場合に true を返します。
func (f FieldErrors) Empty() bool {
	return f == FieldErrors{}
}

// ValidationError は入力値の検証に失敗したことを表します。
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "timesheet: validation failed"
}
