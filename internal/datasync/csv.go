package datasync

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/at-ishikawa/cardsrs/internal/card"
)

var columnAliases = map[string][]string{
	"front":  {"Front", "Spanish Word"},
	"back":   {"Back", "English Translation"},
	"number": {"Number"},
	"notes":  {"Notes", "Comment"},
	"tags":   {"Tags"},
}

// ErrMissingColumns is returned when a CSV header lacks the front or back column.
var ErrMissingColumns = errors.New("missing required columns")

// ImportCSV imports the cards of a CSV file for userID. The header must have a Front and
// a Back column; Number, Notes and Tags (separated by ";") are optional. Rows that are
// already imported are skipped and malformed rows are reported and skipped.
func (imp *Importer) ImportCSV(ctx context.Context, userID int64, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: front, back", ErrMissingColumns)
	}
	if err != nil {
		return nil, fmt.Errorf("reader.Read(header) > %w", err)
	}
	columns := resolveColumns(header)
	var missing []string
	for _, name := range []string{"front", "back"} {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var result ImportResult
	now := imp.clock()
	// The header is row 1.
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				fmt.Fprintf(imp.writer, "  [FAIL]  row %d: %v\n", rowNum, parseErr.Err)
				result.Failed++
				continue
			}
			return nil, fmt.Errorf("reader.Read() > %w", err)
		}

		c, err := parseRow(userID, columns, record, now)
		if err != nil {
			fmt.Fprintf(imp.writer, "  [FAIL]  row %d: %v\n", rowNum, err)
			result.Failed++
			continue
		}

		duplicate, err := imp.isDuplicate(ctx, userID, c.Number, c.Front)
		if err != nil {
			return nil, fmt.Errorf("isDuplicate() > %w", err)
		}
		if duplicate {
			fmt.Fprintf(imp.writer, "  [SKIP]  row %d: %q\n", rowNum, c.Front)
			result.Skipped++
			continue
		}

		if err := imp.create(ctx, c, opts); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		fmt.Fprintf(imp.writer, "  [NEW]  row %d: %q\n", rowNum, c.Front)
		result.Imported++
	}
	return &result, nil
}

func resolveColumns(header []string) map[string]int {
	columns := make(map[string]int)
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		for key, aliases := range columnAliases {
			if _, ok := columns[key]; ok {
				continue
			}
			for _, alias := range aliases {
				if strings.EqualFold(name, alias) {
					columns[key] = i
					break
				}
			}
		}
	}
	return columns
}

func parseRow(userID int64, columns map[string]int, record []string, now time.Time) (*card.Card, error) {
	field := func(key string) string {
		i, ok := columns[key]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	front := field("front")
	back := field("back")
	if front == "" {
		return nil, errors.New("front is empty")
	}
	if back == "" {
		return nil, errors.New("back is empty")
	}

	c := card.New(userID, front, back, now)
	c.Notes = field("notes")
	if raw := field("number"); raw != "" {
		number, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		c.Number = &number
	}
	if raw := field("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ";") {
			if tag = strings.TrimSpace(tag); tag != "" {
				c.Tags = append(c.Tags, tag)
			}
		}
	}
	return c, nil
}
