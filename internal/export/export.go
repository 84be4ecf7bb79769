// Package export renders the catalog as downloadable files.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"drugdex/m/domain"
)

const (
	// JSONFilename is the name the source dataset is expected under.
	JSONFilename = "drugs.json"
	XLSXFilename = "drugs.xlsx"

	sheetName = "drugs"
)

// WriteJSON writes drugs as a 4-space indented JSON array in catalog field
// order. The output is meant to replace the source file verbatim.
func WriteJSON(w io.Writer, drugs []domain.Drug) error {
	if drugs == nil {
		drugs = []domain.Drug{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(drugs); err != nil {
		return fmt.Errorf("encode drugs: %w", err)
	}
	return nil
}

// WriteXLSX writes drugs as a single-sheet workbook with a header row.
func WriteXLSX(w io.Writer, drugs []domain.Drug) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(domain.Fields))
	for i, name := range domain.Fields {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, d := range drugs {
		values := d.Values()
		row := make([]interface{}, len(values))
		row[0] = int64(d.ID)
		for j := 1; j < len(values); j++ {
			row[j] = values[j]
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
