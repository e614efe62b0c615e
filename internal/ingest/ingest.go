// Package ingest parses roster files (CSV and XLSX) into player records.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/normalize"
)

// Options configures roster file parsing.
type Options struct {
	Delimiter rune   // CSV delimiter, default ','
	SheetName string // XLSX sheet, default first sheet
}

// Recognized header columns. Unknown columns are ignored.
const (
	colFirstName      = "first_name"
	colLastName       = "last_name"
	colFullName       = "full_name"
	colEmail          = "email"
	colPhone          = "phone"
	colHighSchoolID   = "high_school_id"
	colHighSchoolName = "high_school_name"
	colPosition       = "position"
	colClassYear      = "class_year"
	colStars          = "stars"
)

// ReadFile reads a roster file and returns the header row plus data rows.
// The format is chosen by file extension (.csv or .xlsx).
func ReadFile(path string, opts Options) (header []string, rows [][]string, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path, opts)
	case ".xlsx":
		return readXLSX(path, opts)
	default:
		return nil, nil, eris.Errorf("ingest: unsupported file extension %q", filepath.Ext(path))
	}
}

func readCSV(path string, opts Options) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "ingest: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1 // allow variable fields

	var (
		header []string
		rows   [][]string
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "ingest: read csv row")
		}
		for i, field := range record {
			record[i] = strings.TrimSpace(field)
		}
		if header == nil {
			header = record
			continue
		}
		rows = append(rows, record)
	}
	if header == nil {
		return nil, nil, eris.New("ingest: csv file has no header row")
	}
	return header, rows, nil
}

func readXLSX(path string, opts Options) ([]string, [][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "ingest: open xlsx")
	}

	var sheet *xlsx.Sheet
	if opts.SheetName != "" {
		s, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, nil, eris.Errorf("ingest: sheet %q not found", opts.SheetName)
		}
		sheet = s
	} else {
		if len(f.Sheets) == 0 {
			return nil, nil, eris.New("ingest: xlsx file has no sheets")
		}
		sheet = f.Sheets[0]
	}

	var (
		header []string
		rows   [][]string
	)
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
		}
		if header == nil {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}
	if header == nil {
		return nil, nil, eris.New("ingest: xlsx sheet has no header row")
	}
	return header, rows, nil
}

// MapPlayers converts raw rows into player records using the header to
// locate columns. Rows missing a usable name are skipped with a warning.
// Emails and phones are normalized on the way in.
func MapPlayers(header []string, rows [][]string) []model.PlayerRecord {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	get := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	players := make([]model.PlayerRecord, 0, len(rows))
	for n, row := range rows {
		first := get(row, colFirstName)
		last := get(row, colLastName)
		if first == "" && last == "" {
			first, last = normalize.FullName(get(row, colFullName))
		}
		if first == "" && last == "" {
			zap.L().Warn("skipping roster row without a name", zap.Int("row", n+2))
			continue
		}

		stars, _ := strconv.Atoi(get(row, colStars))
		players = append(players, model.PlayerRecord{
			FirstName:      first,
			LastName:       last,
			Email:          normalize.Email(get(row, colEmail)),
			Phone:          normalize.Phone(get(row, colPhone)),
			HighSchoolID:   get(row, colHighSchoolID),
			HighSchoolName: get(row, colHighSchoolName),
			Position:       get(row, colPosition),
			ClassYear:      get(row, colClassYear),
			Stars:          stars,
		})
	}
	return players
}
