package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnreadableFile signals that the uploaded bytes could not be parsed as
// tabular data. Fatal for the whole file — nothing is written.
var ErrUnreadableFile = errors.New("arquivo ilegível")

// parseTabular decodes the upload into rows of cells. The format is picked
// by file extension: delimited text (comma or semicolon, sniffed from the
// header line) or an Excel workbook read via excelize.
func parseTabular(data []byte, filename string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return parseCSV(data)
	case ".xlsx", ".xlsm", ".xls":
		return parseExcel(data)
	default:
		return nil, fmt.Errorf("%w: extensão não suportada %q", ErrUnreadableFile, filepath.Ext(filename))
	}
}

func parseCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: arquivo vazio", ErrUnreadableFile)
	}
	return rows, nil
}

// sniffDelimiter inspects the header line: regional exports often use
// semicolons because the comma is the decimal separator.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func parseExcel(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: planilha sem abas", ErrUnreadableFile)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: planilha vazia", ErrUnreadableFile)
	}
	return rows, nil
}
