package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const csvColumns = 5

// ParseCSV reads item,color,grade,batch_no,sqm rows after a header row. Rows
// with any other number of columns are ignored. A row whose sqm is not a number
// fails the whole parse.
func ParseCSV(r io.Reader) ([]*Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var items []*Item
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(record) != csvColumns {
			continue
		}

		sqm, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
		if err != nil || math.IsNaN(sqm) || math.IsInf(sqm, 0) {
			line, _ := reader.FieldPos(4)
			return nil, fmt.Errorf("line %d: could not convert sqm %q to a number", line, record[4])
		}
		items = append(items, NewItem(record[0], record[1], record[2], record[3], sqm))
	}
	return items, nil
}
