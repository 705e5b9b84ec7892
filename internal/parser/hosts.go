package parser

import (
	"bufio"
	"io"
	"strings"
)

// ParseHosts reads a newline-delimited host list. Surrounding whitespace is
// trimmed and blank lines are skipped; everything else is taken verbatim as
// a host name.
func ParseHosts(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var hosts []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		hosts = append(hosts, line)
	}
	return hosts, scanner.Err()
}
