package pure360

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readHeaderLine returns the first line of r without its line terminator.
func readHeaderLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read header line: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// splitRecord parses line as a single delimited record. Fields enclosed in
// quote may contain the delimiter; a doubled quote inside such a field
// stands for one literal quote.
func splitRecord(line string, delimiter, quote rune) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuotes && r == quote:
			if i+1 < len(runes) && runes[i+1] == quote {
				field.WriteRune(quote)
				i++
				continue
			}
			inQuotes = false
		case inQuotes:
			field.WriteRune(r)
		case r == quote && field.Len() == 0:
			inQuotes = true
		case r == delimiter:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}

	return append(fields, field.String())
}

// HeaderIndex maps the headers of a CSV header line to the column keys
// expected by the list upload metadata endpoint. The header containing
// "email" becomes emailCol; every other header becomes COL_<header>.
func HeaderIndex(line string, delimiter, quote rune) map[string]int {
	headers := splitRecord(line, delimiter, quote)

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if strings.Contains(h, "email") {
			index["emailCol"] = i
			continue
		}
		index["COL_"+strings.TrimSpace(h)] = i
	}
	return index
}

func headerValues(index map[string]int) map[string]string {
	out := make(map[string]string, len(index))
	for k, v := range index {
		out[k] = strconv.Itoa(v)
	}
	return out
}
