package history

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KlikkAI/verdict/pkg/metrics"
)

// csvHeader is the fixed export column order consumed by external tooling.
// Metric columns use the stable metric keys; changing order breaks
// downstream spreadsheets.
var csvHeader = []string{
	"timestamp",
	"buildTime",
	"bundleSize",
	"testCoverage",
	"memoryUsage",
	"cacheHitRate",
	"parallelEfficiency",
	"architectureHealthScore",
	"typeScriptCompilationTime",
	"autocompleteSpeed",
	"gitCommit",
	"branch",
	"version",
	"environment",
	"triggeredBy",
}

// ExportCSV writes the full history as CSV with every value quoted. An
// empty store produces a header-only document.
func (s *Store) ExportCSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, strings.Join(csvHeader, ",")); err != nil {
		return err
	}

	for _, snap := range s.All() {
		row := make([]string, 0, len(csvHeader))
		row = append(row, quote(snap.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00")))
		for _, m := range metrics.All() {
			row = append(row, quote(strconv.FormatFloat(snap.Value(m), 'f', -1, 64)))
		}
		row = append(row,
			quote(snap.Meta.Commit),
			quote(snap.Meta.Branch),
			quote(snap.Meta.Version),
			quote(snap.Meta.Environment),
			quote(snap.Meta.TriggeredBy),
		)
		if _, err := fmt.Fprintln(w, strings.Join(row, ",")); err != nil {
			return err
		}
	}
	return nil
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
