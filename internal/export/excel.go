package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/recordbase/internal/domain"
)

// ExcelMimeType is the content type of produced XLSX artifacts.
const ExcelMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportExcel produces the same snapshot as Export as an XLSX workbook,
// for consumers that want a spreadsheet rather than raw CSV.
func (s *Service) ExportExcel(ctx context.Context, table domain.Table) (Artifact, error) {
	rows, err := s.displayRows(ctx, table)
	if err != nil {
		return Artifact{}, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	header := make([]any, len(table.ExportHeaders))
	for i, name := range table.ExportHeaders {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return Artifact{}, fmt.Errorf("write header row: %w", err)
	}

	for i, row := range rows {
		values := make([]any, len(table.ExportHeaders))
		for j, name := range table.ExportHeaders {
			values[j] = row[name]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return Artifact{}, fmt.Errorf("resolve cell for row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return Artifact{}, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return Artifact{}, fmt.Errorf("render workbook: %w", err)
	}

	return Artifact{
		FileName: s.artifactName(table, "xlsx"),
		MimeType: ExcelMimeType,
		Data:     buffer.Bytes(),
	}, nil
}
