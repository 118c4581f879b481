package employee

import "errors"

var (
	ErrInvalidID        = errors.New("employee: invalid id")
	ErrInvalidSortField = errors.New("employee: invalid sort field")
	ErrInvalidSortOrder = errors.New("employee: invalid sort order")
	ErrInvalidPage      = errors.New("employee: invalid page")
	ErrEmployeeNotFound = errors.New("employee: not found")
)

// FieldErrors はフォーム項目ごとの検証エラーメッセージです。空文字列はエラーなしを表します。
type FieldErrors struct {
	FullName     string `json:"full_name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	DateOfBirth  string `json:"date_of_birth,omitempty"`
	JobTitle     string `json:"job_title,omitempty"`
	Department   string `json:"department,omitempty"`
	Salary       string `json:"salary,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Photo        string `json:"photo,omitempty"`
	IdentityCard string `json:"identity_card,omitempty"`
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
	return "employee: validation failed"
}
