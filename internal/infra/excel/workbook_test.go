package excel_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/infra/excel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildWorkbook(t *testing.T) {
	leads := []domain.Lead{
		{
			ID:        1,
			Name:      "Иван Петров",
			Phone:     "+79990001122",
			Company:   "Acme",
			Vacancy:   "Go-разработчик",
			Source:    "website",
			StageName: "Новый",
			Priority:  domain.PriorityHigh,
			CreatedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:       2,
			Name:     "Мария",
			Phone:    "+79990003344",
			Source:   "referral",
			Priority: domain.PriorityLow,
		},
	}

	counts := map[domain.LeadID]excel.ActivityCounts{
		1: {OpenTasks: 2, CompletedTasks: 1, Comments: 3, Calls: 4},
	}

	workbook, err := excel.BuildWorkbook(leads, counts)
	require.NoError(t, err)
	defer workbook.Close()

	var buf bytes.Buffer
	require.NoError(t, workbook.Write(&buf))

	reopened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer reopened.Close()

	rows, err := reopened.GetRows("Лиды")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 leads

	assert.Equal(t, "Имя", rows[0][1])
	assert.Equal(t, "Иван Петров", rows[1][1])
	assert.Equal(t, "Высокий", rows[1][8])
	assert.Equal(t, "Низкий", rows[2][8])

	assert.Equal(t, "Открытых задач", rows[0][10])
	assert.Equal(t, "2", rows[1][10])
	assert.Equal(t, "1", rows[1][11])
	assert.Equal(t, "3", rows[1][12])
	assert.Equal(t, "4", rows[1][13])
	// No counts known for the second lead.
	assert.Equal(t, "0", rows[2][10])
}
