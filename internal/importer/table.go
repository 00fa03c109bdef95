package importer

import "strings"

// FromTable converts a grid whose first non-empty row is the header into
// rows. Empty rows are skipped, columns without a header are dropped, and
// short rows simply omit their trailing cells.
func FromTable(table [][]any) []Row {
	headerIdx := -1

	for i, r := range table {
		if !emptyRecord(r) {
			headerIdx = i
			break
		}
	}

	if headerIdx < 0 {
		return nil
	}

	header := make([]string, len(table[headerIdx]))
	for i, h := range table[headerIdx] {
		header[i] = text(h)
	}

	var rows []Row

	for _, rec := range table[headerIdx+1:] {
		if emptyRecord(rec) {
			continue
		}

		row := make(Row, 0, len(header))

		for i, h := range header {
			if h == "" || i >= len(rec) {
				continue
			}

			row = append(row, Cell{Header: h, Value: rec[i]})
		}

		rows = append(rows, row)
	}

	return rows
}

func fromStrings(records [][]string) []Row {
	table := make([][]any, len(records))

	for i, rec := range records {
		cells := make([]any, len(rec))
		for j, v := range rec {
			cells[j] = v
		}

		table[i] = cells
	}

	return FromTable(table)
}

func emptyRecord(rec []any) bool {
	for _, v := range rec {
		if !blank(v) {
			return false
		}
	}

	return true
}

// sniffDelimiter picks the most frequent candidate separator on the first
// non-empty line, ignoring quoted sections. Comma wins ties and empty input.
func sniffDelimiter(data []byte) rune {
	line := firstLine(data)

	counts := map[rune]int{}
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case !inQuotes && (r == ';' || r == ',' || r == '\t'):
			counts[r]++
		}
	}

	best := ','
	for _, r := range []rune{';', '\t'} {
		if counts[r] > counts[best] {
			best = r
		}
	}

	return best
}

func firstLine(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}

	return ""
}
