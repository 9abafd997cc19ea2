package exporter

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/pipeline-cli/internal/model"
)

// WriteXLSX writes deals as a single-sheet workbook with the same columns
// and order as the CSV export.
func WriteXLSX(w io.Writer, deals []model.Deal, leaders []model.ClientLeader) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Deals")
	if err != nil {
		return eris.Wrap(err, "exporter: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range Columns {
		header.AddCell().Value = col
	}

	names := leaderNames(leaders)
	for _, d := range deals {
		row := sheet.AddRow()
		for _, cell := range dealRecord(d, names) {
			row.AddCell().Value = cell
		}
	}

	return eris.Wrap(f.Write(w), "exporter: write xlsx")
}
