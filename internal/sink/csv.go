// Package sink serializes expanded rules as CSV rows.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"

	"facr-builder/internal/model"
)

// WriteCSV writes the fixed nine-column header followed by one row per rule,
// in input order, and returns the number of rule rows written. An empty rule
// list still produces a header-only document.
func WriteCSV(w io.Writer, rules []model.Rule) (int, error) {
	cw := csv.NewWriter(w)

	if err := cw.Write(model.RuleHeader()); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	written := 0
	for _, rule := range rules {
		if err := cw.Write(rule.Record()); err != nil {
			return written, fmt.Errorf("failed to write rule %d: %w", written+1, err)
		}
		written++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, fmt.Errorf("failed to flush output: %w", err)
	}
	return written, nil
}
