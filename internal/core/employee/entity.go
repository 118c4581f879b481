package employee

import "time"

// Employee は社員エンティティです。
type Employee struct {
	ID           int64
	FullName     string
	Email        string
	Phone        string
	DateOfBirth  time.Time
	JobTitle     string
	Department   string
	Salary       float64
	StartDate    time.Time
	EndDate      *time.Time
	Photo        *string
	IdentityCard *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Upload はフォームから送信された添付ファイルです。
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// supplied は空のファイルパートを未送信として扱います。
func (u *Upload) supplied() bool {
	return u != nil && len(u.Data) > 0
}
