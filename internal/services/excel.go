package services

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/xuri/excelize/v2"
)

const excelTimeFormat = "2006-01-02 15:04:05"

// BuildExcelExport renders the export document as a workbook with one
// sheet per entity type plus an info sheet. The caller owns closing the
// file.
func BuildExcelExport(db *sqlx.DB, exportedBy string) (*excelize.File, error) {
	data := BuildExport(db, exportedBy, "excel")
	f := excelize.NewFile()

	if err := writeSheet(f, "Lanterns", []string{
		"ID", "Name", "Park ID", "Brand", "Model", "Power", "Height", "Status",
		"Base Brightness", "Active Brightness", "Active Time", "Latitude", "Longitude",
		"Created", "Updated",
	}, len(data.Lanterns), func(i int) []interface{} {
		l := data.Lanterns[i]
		return []interface{}{
			l.ID, strPtr(l.Name), int64Ptr(l.ParkID), strPtr(l.Brand), strPtr(l.Model),
			intPtr(l.Power), floatPtr(l.Height), l.Status, l.BaseBrightness,
			l.ActiveBrightness, l.ActiveTime, floatPtr(l.Latitude), floatPtr(l.Longitude),
			timePtr(l.CreatedAt), timePtr(l.UpdatedAt),
		}
	}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Parks", []string{
		"ID", "Name", "Address", "Latitude", "Longitude", "Created", "Updated",
	}, len(data.Parks), func(i int) []interface{} {
		p := data.Parks[i]
		return []interface{}{
			p.ID, p.Name, p.Address, floatPtr(p.Latitude), floatPtr(p.Longitude),
			timePtr(p.CreatedAt), timePtr(p.UpdatedAt),
		}
	}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Breakdowns", []string{
		"ID", "Lantern ID", "Description", "Status", "Priority", "Reported", "Fixed",
	}, len(data.Breakdowns), func(i int) []interface{} {
		b := data.Breakdowns[i]
		return []interface{}{
			b.ID, b.LanternID, strPtr(b.Description), b.Status, b.Priority,
			b.ReportedAt.Format(excelTimeFormat), timePtr(b.FixedAt),
		}
	}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Renovations", []string{
		"ID", "Lantern ID", "Repairman ID", "Description", "Status", "Priority", "Cost",
		"Start Date", "End Date",
	}, len(data.Renovations), func(i int) []interface{} {
		r := data.Renovations[i]
		return []interface{}{
			r.ID, int64Ptr(r.LanternID), int64Ptr(r.RepairmanID), strPtr(r.Description),
			r.Status, r.Priority, r.Cost, timePtr(r.StartDate), timePtr(r.EndDate),
		}
	}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Repairmen", []string{
		"ID", "First Name", "Surname", "Email", "Phone", "Specialization", "Company ID",
	}, len(data.Repairmen), func(i int) []interface{} {
		r := data.Repairmen[i]
		return []interface{}{
			r.ID, strPtr(r.FirstName), strPtr(r.Surname), r.Email, strPtr(r.Phone),
			strPtr(r.Specialization), int64Ptr(r.CompanyID),
		}
	}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Companies", []string{
		"ID", "Name", "Address", "Phone", "Email",
	}, len(data.Companies), func(i int) []interface{} {
		c := data.Companies[i]
		return []interface{}{
			c.ID, strPtr(c.Name), strPtr(c.Address), strPtr(c.Phone), strPtr(c.Email),
		}
	}); err != nil {
		return nil, err
	}

	info := [][]interface{}{
		{"Parameter", "Value"},
		{"Export date", data.ExportInfo.Timestamp.Format(excelTimeFormat)},
		{"Exported by", exportedBy},
		{"Lanterns", len(data.Lanterns)},
		{"Parks", len(data.Parks)},
		{"Breakdowns", len(data.Breakdowns)},
		{"Renovations", len(data.Renovations)},
		{"Repairmen", len(data.Repairmen)},
		{"Companies", len(data.Companies)},
	}
	if _, err := f.NewSheet("Info"); err != nil {
		return nil, err
	}
	for rowIdx, row := range info {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue("Info", cell, value); err != nil {
				return nil, err
			}
		}
	}

	// Drop the default sheet excelize creates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	return f, nil
}

func writeSheet(f *excelize.File, name string, headers []string, rows int, rowAt func(int) []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, header); err != nil {
			return err
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	endCell, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", endCell, headerStyle); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		for col, value := range rowAt(i) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func strPtr(value *string) interface{} {
	if value == nil {
		return ""
	}
	return *value
}

func intPtr(value *int) interface{} {
	if value == nil {
		return ""
	}
	return *value
}

func int64Ptr(value *int64) interface{} {
	if value == nil {
		return ""
	}
	return *value
}

func floatPtr(value *float64) interface{} {
	if value == nil {
		return ""
	}
	return *value
}

func timePtr(value *time.Time) interface{} {
	if value == nil {
		return ""
	}
	return value.Format(excelTimeFormat)
}

// ExportFilename stamps an export artifact the way the download headers
// expect it.
func ExportFilename(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().UTC().Format("20060102_150405"), ext)
}
