package activity

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Kegiatan"

var exportHeader = []interface{}{
	"ID", "Judul", "Tipe", "Lokasi", "Tanggal Mulai", "Status",
	"Target Donasi", "Target Peserta", "Jumlah Peserta", "Total Donasi", "Dibuat",
}

// BuildWorkbook renders the activity summaries as a single-sheet xlsx file.
func BuildWorkbook(rows []Summary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(exportSheet, 1, 1, bold)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			r.ID,
			r.Judul,
			string(r.Tipe),
			deref(r.Lokasi),
			r.TanggalMulai.Format("2006-01-02"),
			r.Status,
			r.TargetDonasi,
			r.TargetPeserta,
			r.JumlahPeserta,
			r.TotalDonasi,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(exportSheet, "B", "B", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
