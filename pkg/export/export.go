// Package export writes calculation results for the command line.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/baseline"
)

// Formats accepted by Write.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatText = "text"
)

// Write renders res in the named format.
func Write(w io.Writer, format string, res baseline.Result) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, res)
	case FormatCSV:
		return WriteCSV(w, res)
	case FormatText:
		_, err := fmt.Fprintln(w, strconv.FormatFloat(res.Baseline, 'f', -1, 64))
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteJSON writes the whole result as indented JSON.
func WriteJSON(w io.Writer, res baseline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteCSV writes the readings the baseline was averaged from, with their
// local time in the site timezone.
func WriteCSV(w io.Writer, res baseline.Result) error {
	loc, err := time.LoadLocation(res.Timezone)
	if err != nil {
		loc = time.UTC
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"site_hash", "timestamp", "local_time", "usage"}); err != nil {
		return err
	}
	for _, r := range res.Samples {
		rec := []string{
			res.SiteHash,
			strconv.FormatInt(r.Timestamp, 10),
			r.Time(loc).Format(time.RFC3339),
			strconv.FormatFloat(r.Usage, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
