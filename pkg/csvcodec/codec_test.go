package csvcodec

import (
	"reflect"
	"testing"
)

func TestParseQuoteHandling(t *testing.T) {
	table := Parse("h1,h2,h3\na,\"b,c\",\"d\"\"e\"\n")

	if !reflect.DeepEqual(table.Headers, []string{"h1", "h2", "h3"}) {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
	want := []string{"a", "b,c", `d"e`}
	if !reflect.DeepEqual(table.Rows[0], want) {
		t.Fatalf("expected %v, got %v", want, table.Rows[0])
	}
}

func TestParseMultilineQuotedField(t *testing.T) {
	table := Parse("text,flag\n\"line1\nline2\",x\n")

	if len(table.Rows) != 1 {
		t.Fatalf("expected multi-line field to stay one row, got %d rows", len(table.Rows))
	}
	want := []string{"line1\nline2", "x"}
	if !reflect.DeepEqual(table.Rows[0], want) {
		t.Fatalf("expected %v, got %v", want, table.Rows[0])
	}
}

func TestParseSkipsBlankRows(t *testing.T) {
	table := Parse("name,email\nAlice,alice@example.com\n,, \n   \nBob,bob@example.com\n")

	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(table.Rows), table.Rows)
	}
	if table.Rows[0][0] != "Alice" || table.Rows[1][0] != "Bob" {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}
}

func TestParseLineEndings(t *testing.T) {
	for _, sep := range []string{"\n", "\r", "\r\n"} {
		table := Parse("a,b" + sep + "1,2" + sep + "3,4" + sep)
		if len(table.Rows) != 2 {
			t.Fatalf("separator %q: expected 2 rows, got %d", sep, len(table.Rows))
		}
		if table.Rows[0][1] != "2" || table.Rows[1][0] != "3" {
			t.Fatalf("separator %q: unexpected rows %v", sep, table.Rows)
		}
	}
}

func TestParseTrimsUnquotedFields(t *testing.T) {
	table := Parse("name , city\n  Alice ,  Leeds  \n")

	if !reflect.DeepEqual(table.Headers, []string{"name", "city"}) {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if !reflect.DeepEqual(table.Rows[0], []string{"Alice", "Leeds"}) {
		t.Fatalf("unexpected row: %v", table.Rows[0])
	}
}

func TestParseStripsByteOrderMark(t *testing.T) {
	table := Parse("\ufeffname,email\nAlice,alice@example.com\n")

	if !reflect.DeepEqual(table.Headers, []string{"name", "email"}) {
		t.Fatalf("byte-order mark must not leak into headers, got %v", table.Headers)
	}
	if len(table.Rows) != 1 || table.Rows[0][0] != "Alice" {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}

	if got := Parse("\ufeff"); len(got.Headers) != 0 || len(got.Rows) != 0 {
		t.Fatalf("a bare byte-order mark is an empty document, got %+v", got)
	}
}

func TestParseEmptyInput(t *testing.T) {
	table := Parse("")
	if len(table.Headers) != 0 || len(table.Rows) != 0 {
		t.Fatalf("expected empty table, got %+v", table)
	}
}

func TestParseWithoutTrailingNewline(t *testing.T) {
	table := Parse("a,b\n1,2")
	if len(table.Rows) != 1 {
		t.Fatalf("expected last row to be flushed, got %d rows", len(table.Rows))
	}
}

func TestSerializeQuotesOnlyWhenNeeded(t *testing.T) {
	headers := []string{"name", "comment"}
	records := []map[string]string{
		{"name": "plain", "comment": "no escaping"},
		{"name": "with,comma", "comment": `say "hi"`},
		{"name": "multi", "comment": "line1\nline2"},
	}

	got := Serialize(records, headers)
	want := "name,comment\n" +
		"plain,no escaping\n" +
		"\"with,comma\",\"say \"\"hi\"\"\"\n" +
		"multi,\"line1\nline2\""
	if got != want {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestSerializeMissingValuesEmitEmptyFields(t *testing.T) {
	got := Serialize([]map[string]string{{"a": "1"}}, []string{"a", "b"})
	if got != "a,b\n1," {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	headers := []string{"name", "email", "notes"}
	records := []map[string]string{
		{"name": "Alice", "email": "alice@example.com", "notes": "prefers, commas"},
		{"name": `Bob "The Builder"`, "email": "bob@example.com", "notes": "line1\nline2"},
		{"name": "Carol", "email": "carol@example.com", "notes": ""},
	}

	table := Parse(Serialize(records, headers))

	if !reflect.DeepEqual(table.Headers, headers) {
		t.Fatalf("headers changed across round trip: %v", table.Headers)
	}
	if len(table.Rows) != len(records) {
		t.Fatalf("expected %d rows, got %d", len(records), len(table.Rows))
	}
	for i, record := range records {
		for j, header := range headers {
			if table.Rows[i][j] != record[header] {
				t.Fatalf("row %d field %s: expected %q, got %q", i, header, record[header], table.Rows[i][j])
			}
		}
	}
}
