package mysqlmcp

import (
	"math"
	"testing"
	"time"
)

func TestConvertValue_MySQLTextProtocol(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		raw      []byte
		typeName string
		want     any
	}{
		{"int", []byte("42"), "INT", int64(42)},
		{"negative bigint", []byte("-9000000000"), "BIGINT", int64(-9000000000)},
		{"unsigned bigint beyond int64", []byte("18446744073709551615"), "UNSIGNED BIGINT", uint64(18446744073709551615)},
		{"year", []byte("2024"), "YEAR", int64(2024)},
		{"double", []byte("1.5"), "DOUBLE", 1.5},
		{"decimal keeps digits", []byte("10.10"), "DECIMAL", "10.10"},
		{"date", []byte("2024-01-02"), "DATE", "2024-01-02"},
		{"datetime", []byte("2024-01-02 03:04:05"), "DATETIME", "2024-01-02 03:04:05"},
		{"varchar", []byte("héllo"), "VARCHAR", "héllo"},
		{"text", []byte("<b>"), "TEXT", "<b>"},
		{"json", []byte(`{"a":1}`), "JSON", `{"a":1}`},
		{"blob", []byte{0x00, 0xff}, "BLOB", "AP8="},
		{"varbinary", []byte("ab"), "VARBINARY", "YWI="},
		{"bit", []byte{0x01, 0x00}, "BIT", uint64(256)},
		{"lowercase type name", []byte("7"), "int", int64(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertValue(tt.raw, tt.typeName)
			if got != tt.want {
				t.Fatalf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestConvertValue_DecodedValues(t *testing.T) {
	t.Parallel()
	if got := convertValue(nil, "VARCHAR"); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
	if got := convertValue(true, ""); got != true {
		t.Fatalf("expected true, got %#v", got)
	}
	if got := convertValue(int64(3), "INTEGER"); got != int64(3) {
		t.Fatalf("expected 3, got %#v", got)
	}
	if got := convertValue([]byte{0x01}, ""); got != "AQ==" {
		t.Fatalf("expected base64 for untyped bytes, got %#v", got)
	}
	if got := convertValue(struct{ A int }{1}, ""); got != "{1}" {
		t.Fatalf("expected fmt.Sprint fallback, got %#v", got)
	}
}

func TestConvertValue_SpecialFloats(t *testing.T) {
	t.Parallel()
	if got := convertValue(math.NaN(), "DOUBLE"); got != "NaN" {
		t.Fatalf("expected NaN string, got %#v", got)
	}
	if got := convertValue(math.Inf(1), "DOUBLE"); got != "Infinity" {
		t.Fatalf("expected Infinity string, got %#v", got)
	}
	if got := convertValue([]byte("-inf"), "DOUBLE"); got != "-Infinity" {
		t.Fatalf("expected -Infinity string, got %#v", got)
	}
}

func TestConvertValue_Time(t *testing.T) {
	t.Parallel()
	whole := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := convertValue(whole, "DATETIME"); got != "2024-01-02 03:04:05" {
		t.Fatalf("unexpected %#v", got)
	}
	frac := time.Date(2024, 1, 2, 3, 4, 5, 120000000, time.UTC)
	if got := convertValue(frac, "DATETIME"); got != "2024-01-02 03:04:05.120000" {
		t.Fatalf("unexpected %#v", got)
	}
}

func TestEncodeRows(t *testing.T) {
	t.Parallel()
	got, err := encodeRows(
		[]string{"id", "name", "note"},
		[][]any{
			{int64(1), "Alice", nil},
			{int64(2), "Bob & <Co>", "ünïcode"},
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[{"id":1,"name":"Alice","note":null},{"id":2,"name":"Bob & <Co>","note":"ünïcode"}]`
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestEncodeRows_DuplicateColumns(t *testing.T) {
	t.Parallel()
	got, err := encodeRows([]string{"id", "name", "id"}, [][]any{{int64(1), "a", int64(9)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `[{"id":9,"name":"a"}]` {
		t.Fatalf("unexpected %s", got)
	}
}

func TestFormatTableList(t *testing.T) {
	t.Parallel()
	if got := formatTableList(nil); got != "Tables in database: " {
		t.Fatalf("unexpected %q", got)
	}
	if got := formatTableList([]string{"a", "b"}); got != "Tables in database: a, b" {
		t.Fatalf("unexpected %q", got)
	}
}
