// Package report builds the downloadable Excel report card.
package report

import (
	"io"
	"log"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"parent-portal-go/models"
)

const sheetName = "Report Card"

// WriteReportCard writes an .xlsx report card for the student to w.
// Layout: student details in rows 1-4, then a Subject/Score table with a
// closing Average row.
func WriteReportCard(w io.Writer, s models.Student) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return errors.Wrap(err, "report: rename sheet")
	}

	rows := [][]interface{}{
		{"Name", s.Name},
		{"Class", s.Class},
		{"Section", s.Section},
		{"Attendance", s.Attendance},
		{},
		{"Subject", "Score"},
	}
	for _, m := range s.Marks {
		rows = append(rows, []interface{}{m.Subject, m.Score})
	}
	rows = append(rows, []interface{}{"Average", s.AverageMark()})

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "report: cell name")
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return errors.Wrapf(err, "report: write row %d", i+1)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "report: header style")
	}
	if err := f.SetCellStyle(sheetName, "A6", "B6", bold); err != nil {
		return errors.Wrap(err, "report: apply header style")
	}
	avgCell, err := excelize.CoordinatesToCellName(2, len(rows))
	if err != nil {
		return errors.Wrap(err, "report: average cell name")
	}
	avgStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return errors.Wrap(err, "report: average style")
	}
	if err := f.SetCellStyle(sheetName, avgCell, avgCell, avgStyle); err != nil {
		return errors.Wrap(err, "report: apply average style")
	}
	if err := f.SetColWidth(sheetName, "A", "A", 16); err != nil {
		return errors.Wrap(err, "report: column width")
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "report: write workbook")
	}
	return nil
}
