package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"waitstat/domain/core"
	"waitstat/internal"
	"waitstat/internal/errors"
	"waitstat/ports"
)

// DataReader reads a two-column wait-time table (group label, minutes)
// from an Excel or CSV file. The first row is a header and columns are
// taken by position.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

var _ ports.GroupSource = (*DataReader)(nil)

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: internal.DefaultLogger.With("data-reader")}
}

// ReadGroups reads the file and splits the values by group label.
// Blank rows are skipped; a non-numeric or non-finite value fails with
// the 1-based row number.
func (r *DataReader) ReadGroups(ctx context.Context, labelA, labelB core.GroupLabel) (*ports.GroupedSamples, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.InvalidInput(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath))
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return r.splitGroups(rows, labelA, labelB)
}

// readExcelRows reads the first sheet of the workbook
func (r *DataReader) readExcelRows() ([][]string, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", sheets[0], float64(time.Since(start).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readCSVRows reads CSV data
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	start := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(start).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// splitGroups converts raw string rows into the two samples
func (r *DataReader) splitGroups(rows [][]string, labelA, labelB core.GroupLabel) (*ports.GroupedSamples, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidInput("file must have a header row and at least one data row")
	}

	out := &ports.GroupedSamples{LabelA: labelA, LabelB: labelB}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}
		if len(row) < 2 {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d: expected label and value", rowNum))
		}

		label := core.GroupLabel(strings.TrimSpace(row[0]))
		raw := strings.TrimSpace(row[1])
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d: %q is not a finite number", rowNum, raw))
		}

		switch label {
		case labelA:
			out.A = append(out.A, value)
		case labelB:
			out.B = append(out.B, value)
		default:
			out.Ignored++
		}
	}

	r.logger.Info("%s: %s=%d %s=%d ignored=%d", filepath.Base(r.filePath), labelA, len(out.A), labelB, len(out.B), out.Ignored)
	return out, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
