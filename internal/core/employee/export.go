package employee

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Employees"

var exportHeaders = []string{
	"ID", "Full Name", "Email", "Phone", "Date of Birth", "Job Title",
	"Department", "Salary", "Start Date", "End Date",
}

// Export は社員一覧のスプレッドシートです。
type Export struct {
	Filename string
	Data     []byte
}

// ExportEmployees は検索・並び替えした全件を xlsx として出力します。
func (s *Service) ExportEmployees(ctx context.Context, in ListEmployeesInput) (*Export, error) {
	records, err := s.SearchEmployees(ctx, in)
	if err != nil {
		return nil, err
	}

	data, err := buildWorkbook(records)
	if err != nil {
		return nil, err
	}

	return &Export{
		Filename: fmt.Sprintf("employees_%s.xlsx", s.clock.Now().Format("20060102")),
		Data:     data,
	}, nil
}

func buildWorkbook(records []*Employee) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("employee: export sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("employee: export sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("employee: export style: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("employee: export header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("employee: export header: %w", err)
	}
	_ = f.SetColWidth(exportSheet, "B", "C", 24)
	_ = f.SetColWidth(exportSheet, "F", "G", 20)

	for i, emp := range records {
		endDate := ""
		if emp.EndDate != nil {
			endDate = emp.EndDate.Format(dateLayout)
		}
		row := []any{
			emp.ID,
			emp.FullName,
			emp.Email,
			emp.Phone,
			emp.DateOfBirth.Format(dateLayout),
			emp.JobTitle,
			emp.Department,
			emp.Salary,
			emp.StartDate.Format(dateLayout),
			endDate,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("employee: export row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("employee: export write: %w", err)
	}
	return buf.Bytes(), nil
}
