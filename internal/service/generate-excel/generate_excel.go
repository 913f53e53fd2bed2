package generate_excel

import (
	"context"
	"fmt"

	"mes-scheduler/internal/service/scheduling"

	"github.com/xuri/excelize/v2"
)

type SchedulingResults interface {
	SchedulingResults(ctx context.Context) (*scheduling.SchedulingResult, error)
}

type GenerateExcelService struct {
	results SchedulingResults
}

func NewGenerateService(results SchedulingResults) *GenerateExcelService {
	return &GenerateExcelService{results: results}
}

// GenerateExcel renders the scheduling results view to a workbook: one row
// per task, grouped by device, with a totals row at the bottom.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context) ([]byte, error) {
	result, err := g.results.SchedulingResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch data: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Scheduling Results"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	overdueStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "9A0000", Bold: true},
	})

	headers := []string{"Device", "Device Code", "Task No", "Plan ID", "Mold ID",
		"Quantity", "Planned Start", "Planned End", "Due Date", "Status", "Overdue"}

	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}

	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", lastCol, headerStyle)

	const timeLayout = "2006-01-02 15:04"

	rowNum := 1
	for _, schedule := range result.Devices {
		for _, task := range schedule.Tasks {
			rowNum++

			f.SetCellValue(sheet, cellName(1, rowNum), schedule.Device.Name)
			f.SetCellValue(sheet, cellName(2, rowNum), schedule.Device.Code)
			f.SetCellValue(sheet, cellName(3, rowNum), task.TaskNumber)
			f.SetCellValue(sheet, cellName(4, rowNum), task.PlanID)
			f.SetCellValue(sheet, cellName(5, rowNum), task.MoldID)
			f.SetCellValue(sheet, cellName(6, rowNum), task.TaskQuantity)
			f.SetCellValue(sheet, cellName(7, rowNum), task.PlannedStartTime.Format(timeLayout))
			f.SetCellValue(sheet, cellName(8, rowNum), task.PlannedEndTime.Format(timeLayout))
			f.SetCellValue(sheet, cellName(9, rowNum), task.DueDate.Format(timeLayout))
			f.SetCellValue(sheet, cellName(10, rowNum), task.Status)
			if task.IsOverdue {
				f.SetCellValue(sheet, cellName(11, rowNum), "overdue")
				f.SetCellStyle(sheet, cellName(11, rowNum), cellName(11, rowNum), overdueStyle)
			}
		}
	}

	// Totals
	rowNum += 2
	f.SetCellValue(sheet, cellName(1, rowNum), "Total tasks")
	f.SetCellValue(sheet, cellName(2, rowNum), result.TotalTasks)
	f.SetCellValue(sheet, cellName(1, rowNum+1), "Overdue")
	f.SetCellValue(sheet, cellName(2, rowNum+1), result.OverdueTasks)
	f.SetCellValue(sheet, cellName(1, rowNum+2), "Completed")
	f.SetCellValue(sheet, cellName(2, rowNum+2), result.CompletedTasks)

	var completed float64
	if result.TotalTasks > 0 {
		completed = float64(result.CompletedTasks) / float64(result.TotalTasks)
	}
	f.SetCellValue(sheet, cellName(1, rowNum+3), "Completion rate")
	f.SetCellValue(sheet, cellName(2, rowNum+3), fmt.Sprintf("%.1f%%", completed*100))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
