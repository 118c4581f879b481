package employee

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPageSize は一覧 1 ページあたりの既定件数です。
const DefaultPageSize = 5

// SortField は一覧の並び替え対象です。
type SortField string

const (
	SortByID         SortField = "id"
	SortByFullName   SortField = "full_name"
	SortByEmail      SortField = "email"
	SortByJobTitle   SortField = "job_title"
	SortByDepartment SortField = "department"
	SortBySalary     SortField = "salary"
)

// SortOrder は並び順です。
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListParams は一覧表示の条件です。
type ListParams struct {
	Query     string
	SortField SortField
	SortOrder SortOrder
	Page      int
	PageSize  int
}

// ListPage は 1 ページ分の一覧とページ情報です。
type ListPage struct {
	Items      []*Employee
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// ParseSortField は文字列を SortField に変換します。空文字列は SortByID です。
func ParseSortField(raw string) (SortField, error) {
	field := SortField(strings.ToLower(strings.TrimSpace(raw)))
	switch field {
	case "":
		return SortByID, nil
	case SortByID, SortByFullName, SortByEmail, SortByJobTitle, SortByDepartment, SortBySalary:
		return field, nil
	default:
		return "", ErrInvalidSortField
	}
}

// ParseSortOrder は文字列を SortOrder に変換します。空文字列は SortDesc です。
func ParseSortOrder(raw string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(raw)))
	switch order {
	case "":
		return SortDesc, nil
	case SortAsc, SortDesc:
		return order, nil
	default:
		return "", ErrInvalidSortOrder
	}
}

// Arrange は氏名の部分一致で絞り込み、指定項目で安定ソートした新しいスライスを返します。
// records 自体は変更しません。
func Arrange(records []*Employee, params ListParams) []*Employee {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(params.Query))

	filtered := make([]*Employee, 0, len(records))
	for _, emp := range records {
		if emp == nil {
			continue
		}
		if needle == "" || strings.Contains(folder.String(emp.FullName), needle) {
			filtered = append(filtered, emp)
		}
	}

	field := params.SortField
	if field == "" {
		field = SortByID
	}
	collator := collate.New(language.Und)
	desc := params.SortOrder == SortDesc

	slices.SortStableFunc(filtered, func(a, b *Employee) int {
		if desc {
			a, b = b, a
		}
		return compareKeys(sortKeyOf(a, field), sortKeyOf(b, field), collator)
	})

	return filtered
}

// Paginate は Arrange の結果から params.Page のページを切り出します。
// 範囲外のページは空の Items を返し、エラーにはしません。
func Paginate(records []*Employee, params ListParams) ListPage {
	size := params.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := params.Page
	if page < 1 {
		page = 1
	}

	arranged := Arrange(records, params)
	total := len(arranged)

	result := ListPage{
		Items:      []*Employee{},
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: (total + size - 1) / size,
	}

	// 巨大な page で (page-1)*size が桁あふれしないよう先に判定します。
	if page > result.TotalPages {
		return result
	}
	start := (page - 1) * size
	end := min(start+size, total)
	result.Items = append(result.Items, arranged[start:end]...)

	return result
}

type sortKey struct {
	text    string
	number  float64
	numeric bool
}

func sortKeyOf(emp *Employee, field SortField) sortKey {
	switch field {
	case SortByFullName:
		return sortKey{text: emp.FullName}
	case SortByEmail:
		return sortKey{text: emp.Email}
	case SortByJobTitle:
		return sortKey{text: emp.JobTitle}
	case SortByDepartment:
		return sortKey{text: emp.Department}
	case SortBySalary:
		return sortKey{text: strconv.FormatFloat(emp.Salary, 'f', -1, 64), number: emp.Salary, numeric: true}
	default:
		return sortKey{text: strconv.FormatInt(emp.ID, 10), number: float64(emp.ID), numeric: true}
	}
}

// compareKeys は両方が数値なら数値比較、それ以外は照合順序による文字列比較を行います。
func compareKeys(a, b sortKey, collator *collate.Collator) int {
	if a.numeric && b.numeric {
		return cmp.Compare(a.number, b.number)
	}
	return collator.CompareString(a.text, b.text)
}
