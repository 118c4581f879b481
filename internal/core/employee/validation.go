package employee

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	minSalary   = 800
	// maxSalary は salary 列 NUMERIC(12,2) に収まる上限です。
	maxSalary   = 9999999999.99
	minAge      = 18
	phoneLength = 8

	identityCardType = "application/pdf"
)

// decimalPattern は 10 進表記の数値だけを受け付けます。16 進浮動小数点や Inf は対象外です。
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

var allowedPhotoTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// Fields はフォームから送信された社員項目の生の値です。
type Fields struct {
	FullName    string
	Email       string
	Phone       string
	DateOfBirth string
	JobTitle    string
	Department  string
	Salary      string
	StartDate   string
	EndDate     string
}

type ruleSet int

const (
	createRules ruleSet = iota
	updateRules
)

type validFields struct {
	fullName    string
	email       string
	phone       string
	dateOfBirth time.Time
	jobTitle    string
	department  string
	salary      float64
	startDate   time.Time
	endDate     *time.Time
}

// validate は全ルールを評価し、違反を項目ごとに 1 件ずつ集めます。
// 作成時のみ電話番号の形式と開始日・終了日の前後関係を確認します。
func validate(in Fields, photo, identityCard *Upload, rules ruleSet, today time.Time) (validFields, FieldErrors) {
	var (
		out validFields
		fe  FieldErrors
	)

	out.fullName = strings.TrimSpace(in.FullName)
	if out.fullName == "" {
		fe.FullName = "Full Name is required."
	}

	out.email = strings.TrimSpace(in.Email)
	if out.email == "" {
		fe.Email = "Email is required."
	}

	out.phone = strings.TrimSpace(in.Phone)
	switch {
	case out.phone == "":
		fe.Phone = "Phone number is required."
	case rules == createRules && !isPhoneNumber(out.phone):
		fe.Phone = "It should be a number with 8 digits."
	}

	out.jobTitle = strings.TrimSpace(in.JobTitle)
	if out.jobTitle == "" {
		fe.JobTitle = "Job title is required."
	}

	out.department = strings.TrimSpace(in.Department)
	if out.department == "" {
		fe.Department = "Department is required."
	}

	salary := strings.TrimSpace(in.Salary)
	if salary == "" {
		fe.Salary = "Salary is required."
	} else if value, ok := parseDecimal(salary); !ok {
		fe.Salary = "Salary must be a number."
	} else if value < minSalary {
		fe.Salary = "Salary must be at least $800."
	} else if value > maxSalary {
		fe.Salary = "Salary must be at most $9,999,999,999.99."
	} else {
		out.salary = value
	}

	dob := strings.TrimSpace(in.DateOfBirth)
	if dob == "" {
		fe.DateOfBirth = "Date of Birth is required."
	} else if parsed, err := parseDate(dob); err != nil {
		fe.DateOfBirth = "Date of Birth must be a valid date."
	} else if ageOn(parsed, today) < minAge {
		fe.DateOfBirth = "Employee must be at least 18 years old."
	} else {
		out.dateOfBirth = parsed
	}

	startOK := false
	start := strings.TrimSpace(in.StartDate)
	if start == "" {
		fe.StartDate = "Start date is required."
	} else if parsed, err := parseDate(start); err != nil {
		fe.StartDate = "Start date must be a valid date."
	} else {
		out.startDate = parsed
		startOK = true
	}

	if end := strings.TrimSpace(in.EndDate); end != "" {
		parsed, err := parseDate(end)
		switch {
		case err != nil:
			fe.EndDate = "End date must be a valid date."
		case rules == createRules && startOK && !parsed.After(out.startDate):
			fe.EndDate = "End date should be greater than Start date"
		default:
			out.endDate = &parsed
		}
	}

	if photo.supplied() {
		if _, ok := allowedPhotoTypes[mediaType(photo.ContentType)]; !ok {
			fe.Photo = "Profile image must be a JPG or PNG."
		}
	}

	if identityCard.supplied() && mediaType(identityCard.ContentType) != identityCardType {
		fe.IdentityCard = "Identity file must be a PDF."
	}

	return out, fe
}

func parseDecimal(raw string) (float64, bool) {
	if !decimalPattern.MatchString(raw) {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, raw, time.UTC)
}

// ageOn は誕生日を考慮した満年齢を返します。
func ageOn(dateOfBirth, today time.Time) int {
	years := today.Year() - dateOfBirth.Year()
	if today.Month() < dateOfBirth.Month() ||
		(today.Month() == dateOfBirth.Month() && today.Day() < dateOfBirth.Day()) {
		years--
	}
	return years
}

func isPhoneNumber(phone string) bool {
	if len(phone) != phoneLength {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// mediaType は "image/png; charset=..." のようなパラメータ付きの値から種別だけを取り出します。
func mediaType(contentType string) string {
	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
