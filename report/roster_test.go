package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func rosterFile(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestReadRoster(t *testing.T) {
	buf := rosterFile(t, [][]interface{}{
		{"Nom", "Prénom"},
		{"Dupont", "Marie"},
		{"   ", "ignored"},
		{""},
		{"  Durand ", "Paul"},
		{"Moreau"},
	})

	names, err := ReadRoster(buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dupont", "Durand", "Moreau"}, names)
}

func TestReadRoster_headerOnly(t *testing.T) {
	names, err := ReadRoster(rosterFile(t, [][]interface{}{{"Nom"}}))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestReadRoster_notAWorkbook(t *testing.T) {
	_, err := ReadRoster(bytes.NewBufferString("Nom\nDupont\n"))
	assert.Error(t, err)
}
