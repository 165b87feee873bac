// Package csvcodec implements a character-level CSV parser and serializer.
//
// The parser accepts RFC 4180 style input: fields may be double-quoted,
// quotes inside quoted fields are doubled, and quoted fields may span
// multiple lines. Row separators on input are \n, \r, or \r\n; output
// always uses \n. Both directions are pure functions with no I/O.
package csvcodec

import "strings"

// ParsedTable is the result of parsing a CSV document. The first parsed
// row becomes Headers; every remaining row is a data row. Rows keep the
// field counts they were parsed with, so a ragged input produces ragged
// rows rather than silently dropping or padding data.
type ParsedTable struct {
	Headers []string
	Rows    [][]string
}

// byteOrderMark is the UTF-8 BOM some producers (notably Excel's
// "CSV UTF-8") prepend to the payload.
const byteOrderMark = "\ufeff"

// Parse scans text left to right and splits it into headers and rows.
// A leading UTF-8 byte-order mark is stripped so it cannot leak into the
// first header name. Fields are trimmed of surrounding whitespace. Rows
// whose every field is empty after trimming are skipped. Empty input
// yields an empty table.
func Parse(text string) ParsedTable {
	text = strings.TrimPrefix(text, byteOrderMark)

	table := ParsedTable{Headers: []string{}, Rows: [][]string{}}
	if text == "" {
		return table
	}

	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	endField := func() {
		row = append(row, strings.TrimSpace(field.String()))
		field.Reset()
	}
	endRow := func() {
		endField()
		for _, value := range row {
			if value != "" {
				rows = append(rows, row)
				break
			}
		}
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			if !inQuotes {
				inQuotes = true
			} else if i+1 < len(text) && text[i+1] == '"' {
				// Escaped quote inside a quoted field.
				field.WriteByte('"')
				i++
			} else {
				inQuotes = false
			}
		case c == ',' && !inQuotes:
			endField()
		case (c == '\n' || c == '\r') && !inQuotes:
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRow()
		default:
			field.WriteByte(c)
		}
	}
	endRow()

	if len(rows) == 0 {
		return table
	}
	table.Headers = rows[0]
	table.Rows = rows[1:]
	return table
}

// Serialize renders records under the given header order. Missing values
// emit as empty fields. A field is quoted, with internal quotes doubled,
// only when it contains a comma, a quote, or a newline character.
func Serialize(records []map[string]string, headers []string) string {
	lines := make([]string, 0, len(records)+1)

	head := make([]string, len(headers))
	for i, header := range headers {
		head[i] = escapeField(header)
	}
	lines = append(lines, strings.Join(head, ","))

	for _, record := range records {
		fields := make([]string, len(headers))
		for i, header := range headers {
			fields[i] = escapeField(record[header])
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return strings.Join(lines, "\n")
}

func escapeField(value string) string {
	if strings.ContainsAny(value, ",\"\n\r") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
