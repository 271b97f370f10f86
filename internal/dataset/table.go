package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/Skufu/CardioRisk/internal/risk"
)

// Column names of the patient spreadsheet.
const (
	ColDiagnosis        = "diagnostico"
	ColCholesterol      = "colesterol"
	ColBloodPressure    = "presion_arterial_en_reposo"
	ColOldpeak          = "antiguedad_oldpeak"
	ColBMI              = "indice_de_masa_corporal_imc"
	ColStress           = "nivel_de_estres"
	ColMaxHeartRate     = "frecuencia_cardiaca_maxima"
	ColSleepHours       = "horas_de_sueno"
	ColPhysicalActivity = "actividad_fisica"
	ColDietQuality      = "calidad_de_dieta"
	ColSlope            = "pendiente_slope"
)

// Table is an uploaded patient spreadsheet. Cells keep their text form except
// the diagnosis column, which holds "0" or "1" once the table is built.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type Preview struct {
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	RowCount int        `json:"rowCount"`
}

// ReadXLSX loads the first sheet of a workbook. The first row is the header.
// Cells are read as stored, ignoring their number format.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	return NewTable(rows[0], rows[1:])
}

// NewTable builds a table from a header and the sheet rows below it, padding
// short rows, dropping blank ones and normalizing the diagnosis column.
func NewTable(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrEmptySheet
	}

	t := &Table{
		Columns: lo.Map(header, func(h string, _ int) string { return strings.TrimSpace(h) }),
		Rows:    make([][]string, 0, len(rows)),
	}

	diag, err := t.index(ColDiagnosis)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		if lo.EveryBy(row, func(c string) bool { return strings.TrimSpace(c) == "" }) {
			continue
		}

		cells := make([]string, len(t.Columns))
		copy(cells, row)

		v, err := NormalizeDiagnosis(cells[diag])
		if err != nil {
			var dfe *DataFormatError
			if errors.As(err, &dfe) {
				dfe.SheetRow = i + 2
			}
			return nil, err
		}
		cells[diag] = strconv.Itoa(v)
		t.Rows = append(t.Rows, cells)
	}

	return t, nil
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) HasColumn(column string) bool {
	return lo.Contains(t.Columns, column)
}

func (t *Table) index(column string) (int, error) {
	i := lo.IndexOf(t.Columns, column)
	if i < 0 {
		return -1, &MissingColumnError{Column: column}
	}
	return i, nil
}

// Row returns the cells of data row i in column order.
func (t *Table) Row(i int) ([]string, error) {
	if i < 0 || i >= len(t.Rows) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrRowOutOfRange, i, len(t.Rows))
	}
	return t.Rows[i], nil
}

// Strings returns a column's raw cells.
func (t *Table) Strings(column string) ([]string, error) {
	idx, err := t.index(column)
	if err != nil {
		return nil, err
	}
	return lo.Map(t.Rows, func(row []string, _ int) string { return strings.TrimSpace(row[idx]) }), nil
}

// Floats parses a numeric column. Empty cells become NaN.
func (t *Table) Floats(column string) ([]float64, error) {
	idx, err := t.index(column)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		v, err := parseCell(column, i, row[idx])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Float reads a single numeric cell. An empty cell is an error here: callers
// that need one value cannot skip it.
func (t *Table) Float(i int, column string) (float64, error) {
	row, err := t.Row(i)
	if err != nil {
		return 0, err
	}
	idx, err := t.index(column)
	if err != nil {
		return 0, err
	}

	v, err := parseCell(column, i, row[idx])
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, &DataFormatError{Column: column, Row: i, Value: row[idx], Reason: "missing value"}
	}
	return v, nil
}

func parseCell(column string, row int, cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &DataFormatError{Column: column, Row: row, Value: cell, Reason: "not a number"}
	}
	return v, nil
}

// Vitals reads the scored measurements of row i.
func (t *Table) Vitals(i int) (risk.Vitals, error) {
	var v risk.Vitals
	fields := []struct {
		column string
		dst    *float64
	}{
		{ColCholesterol, &v.Cholesterol},
		{ColBloodPressure, &v.RestingBloodPressure},
		{ColOldpeak, &v.Oldpeak},
		{ColBMI, &v.BMI},
		{ColStress, &v.StressLevel},
		{ColMaxHeartRate, &v.MaxHeartRate},
		{ColSleepHours, &v.SleepHours},
	}

	for _, f := range fields {
		val, err := t.Float(i, f.column)
		if err != nil {
			return risk.Vitals{}, err
		}
		*f.dst = val
	}
	return v, nil
}

func (t *Table) Preview() Preview {
	return Preview{
		Columns:  t.Columns,
		Rows:     t.Rows,
		RowCount: len(t.Rows),
	}
}
