package worksheet

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

const (
	jobsSheet     = "Jobs"
	messagesSheet = "Messages"
)

var jobsHeader = []any{
	"#", "Slot", "Time", "Address", "Product Code", "Product Type", "Brand",
	"Fault", "Error Code", "Production Year", "Serial Number", "Comment",
}

// ExportXLSX renders a worksheet as a spreadsheet with one row per job.
// When msgs is non-nil a second sheet lists the customer messages.
// Comments whose index has no job are appended after the job rows.
func ExportXLSX(ws models.WorksheetRecord, msgs *models.MessageSet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", jobsSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}

	if err := f.SetCellValue(jobsSheet, "A1", ws.DateLabel); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(jobsSheet, "A1", "A1", bold); err != nil {
		return nil, err
	}
	if err := setRow(f, jobsSheet, 2, jobsHeader); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(jobsSheet, 2, 2, bold); err != nil {
		return nil, err
	}

	row := 3
	for i, job := range ws.Jobs {
		slot := ""
		if i < len(ws.TimeSlots) {
			slot = ws.TimeSlots[i].Start + " - " + ws.TimeSlots[i].End
		}
		if err := setRow(f, jobsSheet, row, []any{
			i + 1, slot, job.Time, job.Address, job.ProductCode, job.ProductType,
			job.ProductBrand, job.Fault, job.ErrorCode, job.ProductionYear,
			job.SerialNumber, ws.Comments[i],
		}); err != nil {
			return nil, err
		}
		row++
	}

	var orphans []int
	for idx := range ws.Comments {
		if idx < 0 || idx >= len(ws.Jobs) {
			orphans = append(orphans, idx)
		}
	}
	sort.Ints(orphans)
	for _, idx := range orphans {
		values := make([]any, len(jobsHeader))
		values[0] = idx + 1
		values[len(values)-1] = ws.Comments[idx]
		if err := setRow(f, jobsSheet, row, values); err != nil {
			return nil, err
		}
		row++
	}

	if err := f.SetColWidth(jobsSheet, "D", "D", 40); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(jobsSheet, "L", "L", 40); err != nil {
		return nil, err
	}

	if msgs != nil {
		if _, err := f.NewSheet(messagesSheet); err != nil {
			return nil, fmt.Errorf("creating messages sheet: %w", err)
		}
		if err := setRow(f, messagesSheet, 1, []any{"#", "Message"}); err != nil {
			return nil, err
		}
		if err := f.SetRowStyle(messagesSheet, 1, 1, bold); err != nil {
			return nil, err
		}
		for i, m := range msgs.Messages {
			if err := setRow(f, messagesSheet, i+2, []any{i + 1, m}); err != nil {
				return nil, err
			}
		}
		if err := f.SetColWidth(messagesSheet, "B", "B", 80); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
