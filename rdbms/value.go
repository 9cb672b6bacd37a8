package rdbms

import (
	"math"
	"strconv"
	"strings"
	"time"
)

/*
	Value is a closed union of everything that travels through a Command:
	catalog cells on the way up, bound parameters on the way down.
	the set of variants is sealed by the unexported method.
*/
type Value interface {
	isValue()
}

type (
	NullValue   struct{}
	Int16Value  int16
	Int32Value  int32
	Int64Value  int64
	FloatValue  float32
	DoubleValue float64
	TextValue   string
	BlobValue   []byte
)

func (NullValue) isValue()   {}
func (Int16Value) isValue()  {}
func (Int32Value) isValue()  {}
func (Int64Value) isValue()  {}
func (FloatValue) isValue()  {}
func (DoubleValue) isValue() {}
func (TextValue) isValue()   {}
func (BlobValue) isValue()   {}

// ValueOf converts whatever a database/sql driver scanned into the union.
func ValueOf(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return NullValue{}
	case Value:
		return x
	case int16:
		return Int16Value(x)
	case int32:
		return Int32Value(x)
	case int64:
		return Int64Value(x)
	case int:
		return Int64Value(x)
	case uint8:
		return Int16Value(x)
	case float32:
		return FloatValue(x)
	case float64:
		return DoubleValue(x)
	case bool:
		if x {
			return Int16Value(1)
		}
		return Int16Value(0)
	case string:
		return TextValue(x)
	case []byte:
		b := make([]byte, len(x))
		copy(b, x)
		return BlobValue(b)
	case time.Time:
		return TextValue(x.Format(time.RFC3339Nano))
	}
	return NullValue{}
}

// Interface returns the value in the shape database/sql drivers accept as a parameter.
func Interface(v Value) interface{} {
	switch x := v.(type) {
	case Int16Value:
		return int64(x)
	case Int32Value:
		return int64(x)
	case Int64Value:
		return int64(x)
	case FloatValue:
		return float64(x)
	case DoubleValue:
		return float64(x)
	case TextValue:
		return string(x)
	case BlobValue:
		return []byte(x)
	}
	return nil
}

// StringCast renders text and numbers, everything else is empty.
func StringCast(v Value) string {
	switch x := v.(type) {
	case TextValue:
		return string(x)
	case Int16Value:
		return strconv.FormatInt(int64(x), 10)
	case Int32Value:
		return strconv.FormatInt(int64(x), 10)
	case Int64Value:
		return strconv.FormatInt(int64(x), 10)
	case FloatValue:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case DoubleValue:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	}
	return ""
}

// NumericCast reports false for null, blob and text which is not a number.
func NumericCast(v Value) (float64, bool) {
	switch x := v.(type) {
	case Int16Value:
		return float64(x), true
	case Int32Value:
		return float64(x), true
	case Int64Value:
		return float64(x), true
	case FloatValue:
		return float64(x), true
	case DoubleValue:
		return float64(x), true
	case TextValue:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func IntCast(v Value) (int, bool) {
	switch x := v.(type) {
	case Int16Value:
		return int(x), true
	case Int32Value:
		return int(x), true
	case Int64Value:
		return int(x), true
	}
	f, ok := NumericCast(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// cell tolerates short rows, missing cells are null.
func cell(row []Value, i int) Value {
	if i < 0 || i >= len(row) || row[i] == nil {
		return NullValue{}
	}
	return row[i]
}

func cellString(row []Value, i int) string {
	return StringCast(cell(row, i))
}

func cellInt(row []Value, i int) int {
	v, _ := IntCast(cell(row, i))
	return v
}

func cellFlag(row []Value, i int) bool {
	return cellInt(row, i) != 0
}
