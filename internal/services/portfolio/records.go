package portfolio

import (
	"fmt"
	"io"
	"strings"
)

// ReadRecords splits raw statement text into rows of fields: newline then
// comma, no quote or escape handling. This mirrors how the exports are
// split upstream; stray quote characters around currency codes survive
// here and are stripped during conversion. Blank lines are skipped and
// trailing carriage returns trimmed.
func ReadRecords(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement: %w", err)
	}

	var records [][]string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, strings.Split(line, ","))
	}
	return records, nil
}
