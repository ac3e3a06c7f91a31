// Package export writes approved requests to XLSX workbooks for HR.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/warp/hr-scheduler/requests"
)

// SheetName is the worksheet holding the exported rows.
const SheetName = "Approved Requests"

// ContentType is the MIME type of the written workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Header is the first row of the sheet.
var Header = []string{
	"Employee Code",
	"Employee Name",
	"Type",
	"Start Date",
	"End Date",
	"Days",
	"Source",
	"Reviewed By",
	"Reviewed At",
}

// WriteApproved writes rows to w as a single-sheet workbook.
func WriteApproved(w io.Writer, rows []requests.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Header))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := rowValues(row)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", lastCol, 18); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func rowValues(row requests.ExportRow) []any {
	r := row.Request
	reviewedAt := ""
	if r.ReviewedAt != nil {
		reviewedAt = r.ReviewedAt.UTC().Format(time.RFC3339)
	}
	return []any{
		row.Employee.Code,
		row.Employee.FullName,
		string(r.Type),
		r.StartDate.String(),
		r.EndDate.String(),
		r.NumberOfDays,
		string(r.Source),
		r.ReviewedBy,
		reviewedAt,
	}
}

// FileName returns the download name for an export covering [from, to].
func FileName(from, to string) string {
	switch {
	case from != "" && to != "":
		return fmt.Sprintf("approved-requests_%s_%s.xlsx", from, to)
	case from != "":
		return fmt.Sprintf("approved-requests_from_%s.xlsx", from)
	case to != "":
		return fmt.Sprintf("approved-requests_to_%s.xlsx", to)
	default:
		return "approved-requests.xlsx"
	}
}
