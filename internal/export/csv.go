package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/satnetlab/satnet/internal/access"
)

// csvHeader is the fixed column set of the interval table.
var csvHeader = []string{"link_id", "start", "stop", "duration_seconds"}

// WriteCSV writes one row per interval: link id, RFC 3339 start and stop,
// and the duration in seconds.
func WriteCSV(intervals []access.Interval, path string) error {
	return writeAtomic(path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			return err
		}
		for _, iv := range intervals {
			row := []string{
				iv.Link,
				iv.Start.UTC().Format(time.RFC3339),
				iv.Stop.UTC().Format(time.RFC3339),
				strconv.FormatFloat(iv.Duration().Seconds(), 'f', 3, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

// ReadCSV parses a file written by WriteCSV back into intervals. Durations
// are not read back; they are derived from stop minus start.
func ReadCSV(path string) ([]access.Interval, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}

	var out []access.Interval
	for i, rec := range records[1:] {
		if len(rec) < 3 {
			return nil, fmt.Errorf("%s: row %d: want at least 3 columns, got %d", path, i+2, len(rec))
		}
		start, err := time.Parse(time.RFC3339, rec[1])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: bad start: %w", path, i+2, err)
		}
		stop, err := time.Parse(time.RFC3339, rec[2])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: bad stop: %w", path, i+2, err)
		}
		out = append(out, access.Interval{Link: rec[0], Start: start, Stop: stop})
	}
	return out, nil
}
