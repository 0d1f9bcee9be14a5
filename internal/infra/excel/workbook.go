// Package excel builds the lead export workbook.
package excel

import (
	"fmt"

	"github.com/onedayhr/leadboard/internal/domain"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Лиды"

var headers = []string{
	"ID", "Имя", "Телефон", "Email", "Компания", "Вакансия",
	"Источник", "Этап", "Приоритет", "Заметки",
	"Открытых задач", "Завершенных задач", "Комментариев", "Звонков",
	"Создан",
}

// ActivityCounts carries per-lead task, comment and call totals for the
// export columns.
type ActivityCounts struct {
	OpenTasks      int
	CompletedTasks int
	Comments       int
	Calls          int
}

var priorityLabels = map[domain.Priority]string{
	domain.PriorityHigh:   "Высокий",
	domain.PriorityMedium: "Средний",
	domain.PriorityLow:    "Низкий",
}

// BuildWorkbook renders the leads into an xlsx workbook. counts may be nil
// when no activity totals are available; the columns then read zero. The
// caller owns the returned file and must Close it.
func BuildWorkbook(leads []domain.Lead, counts map[domain.LeadID]ActivityCounts) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"3B82F6"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", endHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for row, lead := range leads {
		priority := priorityLabels[lead.Priority]
		if priority == "" {
			priority = string(lead.Priority)
		}
		activity := counts[lead.ID]
		values := []any{
			int64(lead.ID),
			lead.Name,
			lead.Phone,
			lead.Email,
			lead.Company,
			lead.Vacancy,
			lead.Source,
			lead.StageName,
			priority,
			lead.Notes,
			activity.OpenTasks,
			activity.CompletedTasks,
			activity.Comments,
			activity.Calls,
			lead.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row+2, err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "B", "F", 22); err != nil {
		return nil, fmt.Errorf("set widths: %w", err)
	}
	if err := f.SetColWidth(sheetName, "J", "J", 40); err != nil {
		return nil, fmt.Errorf("set widths: %w", err)
	}
	if err := f.AutoFilter(sheetName, fmt.Sprintf("A1:%s", endHeader), nil); err != nil {
		return nil, fmt.Errorf("set autofilter: %w", err)
	}

	return f, nil
}
