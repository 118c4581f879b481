package timesheet

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter は社員名の部分一致 (大文字小文字を区別しない) と社員 ID で絞り込みます。
// employeeID が 0 の場合は社員で絞り込みません。元の順序は保たれます。
func Filter(entries []*Timesheet, query string, employeeID int64) []*Timesheet {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(query))

	result := make([]*Timesheet, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		if employeeID > 0 && entry.EmployeeID != employeeID {
			continue
		}
		if needle != "" && !strings.Contains(folder.String(entry.EmployeeFullName), needle) {
			continue
		}
		result = append(result, entry)
	}
	return result
}
