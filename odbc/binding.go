package odbc

import (
	"errors"
	"fmt"
	"unicode/utf16"

	"github.com/kzaag/gdp/rdbms"
)

var ErrBindingType = errors.New("ODBC type error")

// Param is one statement parameter: the portable column type it is bound to and its value.
type Param struct {
	Type  rdbms.ColumnType
	Value rdbms.Value
}

/*
	Binding is what SQLBindParameter needs.
	Value points at the storage: *int16, *int32, *int64, *float32, *float64,
	*[]uint16 for text and *[]byte for blobs, nil for null.
	Ind is the storage size in bytes or SQL_NULL_DATA.
*/
type Binding struct {
	CType     int16
	SQLType   int16
	Precision uint64
	Value     interface{}
	Ind       int64
}

func bindCType(t rdbms.ColumnType) (int16, error) {
	switch t {
	case rdbms.Blob, rdbms.Geometry:
		return SQL_C_BINARY, nil
	case rdbms.Double:
		return SQL_C_DOUBLE, nil
	case rdbms.Integer:
		return SQL_C_SBIGINT, nil
	case rdbms.String:
		return SQL_C_WCHAR, nil
	case rdbms.VoidColumn:
	}
	return 0, fmt.Errorf("%w: no C type for %s", ErrBindingType, t)
}

func bindSQLType(sys rdbms.Dialect, t rdbms.ColumnType) (int16, error) {
	switch t {
	case rdbms.Blob:
		switch sys {
		case rdbms.MSSQL, rdbms.Ingres:
			return SQL_LONGVARBINARY, nil
		}
		return SQL_VARBINARY, nil
	case rdbms.Geometry:
		switch sys {
		case rdbms.MSSQL, rdbms.Ingres:
			return SQL_LONGVARBINARY, nil
		case rdbms.Informix:
			return SQL_INFX_UDT_LVARCHAR, nil
		}
		return SQL_VARBINARY, nil
	case rdbms.Double:
		return SQL_DOUBLE, nil
	case rdbms.Integer:
		return SQL_BIGINT, nil
	case rdbms.String:
		if sys == rdbms.MSSQL {
			return SQL_WLONGVARCHAR, nil
		}
		return SQL_WVARCHAR, nil
	case rdbms.VoidColumn:
	}
	return 0, fmt.Errorf("%w: no SQL type for %s", ErrBindingType, t)
}

func bindFixed(ctype, sqltype int16, v interface{}, size int64) Binding {
	return Binding{CType: ctype, SQLType: sqltype, Value: v, Ind: size}
}

/*
	Bind picks the ODBC types of a parameter.
	fixed size values are typed by themselves, null, text and blob by the
	column they go to. Postgres drivers get 64 bit integers narrowed to 32 bits.
*/
func Bind(sys rdbms.Dialect, p Param) (Binding, error) {
	switch v := p.Value.(type) {
	case rdbms.Int16Value:
		x := int16(v)
		return bindFixed(SQL_C_SSHORT, SQL_SMALLINT, &x, 2), nil
	case rdbms.Int32Value:
		x := int32(v)
		return bindFixed(SQL_C_SLONG, SQL_INTEGER, &x, 4), nil
	case rdbms.Int64Value:
		if sys == rdbms.Postgres {
			x := int32(v)
			return bindFixed(SQL_C_SLONG, SQL_INTEGER, &x, 4), nil
		}
		x := int64(v)
		return bindFixed(SQL_C_SBIGINT, SQL_BIGINT, &x, 8), nil
	case rdbms.FloatValue:
		x := float32(v)
		return bindFixed(SQL_C_FLOAT, SQL_REAL, &x, 4), nil
	case rdbms.DoubleValue:
		x := float64(v)
		return bindFixed(SQL_C_DOUBLE, SQL_DOUBLE, &x, 8), nil
	case rdbms.NullValue, nil:
		ctype, err := bindCType(p.Type)
		if err != nil {
			return Binding{}, err
		}
		sqltype, err := bindSQLType(sys, p.Type)
		if err != nil {
			return Binding{}, err
		}
		return Binding{CType: ctype, SQLType: sqltype, Ind: SQL_NULL_DATA}, nil
	case rdbms.TextValue:
		sqltype, err := bindSQLType(sys, p.Type)
		if err != nil {
			return Binding{}, err
		}
		units := utf16.Encode([]rune(string(v)))
		return Binding{
			CType:     SQL_C_WCHAR,
			SQLType:   sqltype,
			Precision: uint64(len(units)),
			Value:     &units,
			Ind:       int64(len(units) * 2),
		}, nil
	case rdbms.BlobValue:
		sqltype, err := bindSQLType(sys, p.Type)
		if err != nil {
			return Binding{}, err
		}
		b := []byte(v)
		return Binding{
			CType:     SQL_C_BINARY,
			SQLType:   sqltype,
			Precision: uint64(len(b)),
			Value:     &b,
			Ind:       int64(len(b)),
		}, nil
	}
	return Binding{}, fmt.Errorf("%w: %T", ErrBindingType, p.Value)
}
