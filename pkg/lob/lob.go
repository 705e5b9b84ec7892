// Package lob is the registry of recognized line-of-business tags.
package lob

import (
	"bytes"
	"encoding/csv"
	"io"
	"log"
	"sort"
	"strings"

	_ "embed"
)

//go:embed lobs.csv
var lobData string

type Entry struct {
	Name        string
	Description string
}

var registry map[string]Entry

func init() {
	registry = make(map[string]Entry)
	reader := csv.NewReader(bytes.NewBufferString(lobData))
	reader.TrimLeadingSpace = true
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Fatalf("Failed to read header from embedded lobs.csv: %v", err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Failed to parse embedded lobs.csv: %v", err)
		}
		if len(record) < 2 {
			continue
		}

		name := strings.ToUpper(strings.TrimSpace(record[0]))
		registry[name] = Entry{Name: name, Description: strings.TrimSpace(record[1])}
	}
}

// Normalize maps name to its canonical upper-case form, matching
// case-insensitively. The second return is false for unknown tags.
func Normalize(name string) (string, bool) {
	entry, ok := registry[strings.ToUpper(name)]
	return entry.Name, ok
}

// Names returns all registered tags, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
