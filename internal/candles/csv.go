package candles

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"trading-signal-lab/internal/domain"
)

// ReadCSV parses candles from CSV input with columns
// timestamp_ms,open,high,low,close,volume. A header row is skipped if the
// first field is not numeric. Rows must be in ascending timestamp order.
func ReadCSV(r io.Reader) ([]*domain.Candle, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 6

	var out []*domain.Candle
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++

		ts, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("line %d: parse timestamp: %w", line, err)
		}

		vals := make([]float64, 5)
		for i, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: parse field %d: %w", line, i+2, err)
			}
			vals[i] = v
		}

		c := &domain.Candle{
			Timestamp: ts,
			Open:      vals[0],
			High:      vals[1],
			Low:       vals[2],
			Close:     vals[3],
			Volume:    vals[4],
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(out) > 0 && c.Timestamp <= out[len(out)-1].Timestamp {
			return nil, fmt.Errorf("line %d: %w", line, ErrOutOfOrder)
		}
		out = append(out, c)
	}

	return out, nil
}
