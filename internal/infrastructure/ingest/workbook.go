package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// row is one spreadsheet row keyed by normalized column name.
type row map[string]string

// readWorkbook loads the first sheet of an xlsx file into header-keyed rows.
// Header names are normalized (trimmed, lowered, spaces to underscores) so
// "Monthly Salary" and "monthly_salary" address the same column.
func readWorkbook(path string, required []string) ([]row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("workbook %s is empty", path)
	}

	headers := make([]string, len(cells[0]))
	for i, h := range cells[0] {
		headers[i] = normalizeHeader(h)
	}

	headerSet := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		headerSet[h] = struct{}{}
	}
	for _, col := range required {
		if _, ok := headerSet[col]; !ok {
			return nil, fmt.Errorf("workbook %s is missing column %q", path, col)
		}
	}

	rows := make([]row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		r := make(row, len(headers))
		empty := true
		for i, h := range headers {
			var v string
			if i < len(line) {
				v = strings.TrimSpace(line[i])
			}
			if v != "" {
				empty = false
			}
			r[h] = v
		}
		if !empty {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}
