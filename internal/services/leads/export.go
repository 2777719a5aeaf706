package leads

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"alevatex/internal/domain"
)

// DisplayTime is the locale-style timestamp used in exports. It is for people,
// not for parsing back.
const DisplayTime = "1/2/2006, 3:04:05 PM"

var csvHeader = []string{"Name", "Email", "Service", "Message", "Timestamp", "Status"}

// WriteCSV writes a header row and one row per lead. Every field is wrapped in
// double quotes with embedded quotes doubled; rows end in "\n" except the last.
func WriteCSV(w io.Writer, leads []domain.Lead, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(csvHeader, ",")); err != nil {
		return err
	}
	for _, l := range leads {
		row := []string{
			l.Name,
			l.Email,
			l.Service,
			l.Message,
			l.Timestamp.In(loc).Format(DisplayTime),
			string(l.Status),
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		for i, field := range row {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(quote(field)); err != nil {
				return err
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// ExportFilename names a download as <prefix>_leads_<YYYY-MM-DD>.csv.
func ExportFilename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_leads_%s.csv", prefix, now.UTC().Format("2006-01-02"))
}
