package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"badminton-eval-go/core"
)

// ErrEmptyWorkbook is returned when a roster file has no sheet.
var ErrEmptyWorkbook = errors.New("excel file does not contain any sheets")

// ReadRoster reads student names from column A of the first sheet of an XLSX
// file. The first row is a header; blank names are skipped.
func ReadRoster(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing excel file")
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	names := make([]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		var name string
		if len(row) > 0 {
			name = core.CleanString(row[0])
		}
		if name == "" {
			log.Debug().Int("row", i+1).Msg("Skipping roster row without a name")
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
