package mysqlmcp

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	tableListPrefix = "Tables in database: "
	noRowsMessage   = "Query executed successfully, but no rows were returned."
)

func formatTableList(tables []string) string {
	return tableListPrefix + strings.Join(tables, ", ")
}

func tableNotFoundMessage(table string) string {
	return fmt.Sprintf("Table '%s' not found.", table)
}

// binaryTypes are column types whose raw bytes are not text.
var binaryTypes = map[string]bool{
	"BLOB":       true,
	"TINYBLOB":   true,
	"MEDIUMBLOB": true,
	"LONGBLOB":   true,
	"BINARY":     true,
	"VARBINARY":  true,
	"GEOMETRY":   true,
}

// convertValue turns a scanned driver value into something encodeRows can
// write. typeName is the column's DatabaseTypeName; it decides how raw bytes
// from the MySQL text protocol are read.
func convertValue(v any, typeName string) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return convertBytes(val, strings.ToUpper(typeName))
	case string:
		return val
	case bool:
		return val
	case int64:
		return val
	case int32:
		return int64(val)
	case int:
		return int64(val)
	case uint64:
		return val
	case float64:
		return convertFloat(val)
	case float32:
		return convertFloat(float64(val))
	case time.Time:
		return formatTime(val)
	default:
		return fmt.Sprint(val)
	}
}

func convertBytes(b []byte, typeName string) any {
	typeName = strings.TrimPrefix(typeName, "UNSIGNED ")
	switch typeName {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT", "YEAR":
		s := string(b)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
		return s
	case "FLOAT", "DOUBLE", "REAL":
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return string(b)
		}
		return convertFloat(f)
	case "BIT":
		var n uint64
		for _, c := range b {
			n = n<<8 | uint64(c)
		}
		return n
	}
	// Drivers that decode text themselves only hand out bytes for blobs and
	// report no type name for expressions.
	if typeName == "" || binaryTypes[typeName] {
		return base64.StdEncoding.EncodeToString(b)
	}
	return string(b)
}

func convertFloat(f float64) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return f
}

func formatTime(t time.Time) string {
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02 15:04:05")
	}
	return t.Format("2006-01-02 15:04:05.000000")
}

// encodeRows writes rows as a JSON array of objects with keys in column
// order. A column name that appears more than once becomes a single key at
// its first position holding the value of its last occurrence.
func encodeRows(columns []string, rows [][]any) (string, error) {
	var keys []string
	last := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, seen := last[name]; !seen {
			keys = append(keys, name)
		}
		last[name] = i
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	write := func(v any) error {
		if err := enc.Encode(v); err != nil {
			return err
		}
		// Encode terminates every value with a newline.
		buf.Truncate(buf.Len() - 1)
		return nil
	}

	buf.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, key := range keys {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := write(key); err != nil {
				return "", err
			}
			buf.WriteByte(':')
			if err := write(row[last[key]]); err != nil {
				return "", fmt.Errorf("encode column %q: %w", key, err)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.String(), nil
}
