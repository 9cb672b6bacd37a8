package rdbms

import (
	"strconv"
	"strings"
)

// CharsLimit caps string widths, unknown and oversized widths fall back to it.
const CharsLimit = 250

func chars(n int) string {
	if n <= 0 || n >= CharsLimit {
		n = CharsLimit
	}
	return strconv.Itoa(n)
}

/*
	ColumnTypeToken is total over ColumnType x Dialect: a pair without a native
	type is an error, never an empty token. Postgres and SQLite geometry is not an
	inline column type, it gets registered by a separate statement.
*/
func ColumnTypeToken(sys Dialect, t ColumnType, width int) (string, error) {
	var tok string
	switch sys {
	case CUBRID:
		switch t {
		case Blob:
			tok = "BIT VARYING"
		case Double:
			tok = "DOUBLE"
		case Integer:
			tok = "BIGINT"
		case String:
			tok = "STRING"
		}
	case DB2:
		switch t {
		case Blob:
			tok = "BLOB"
		case Double:
			tok = "DOUBLE"
		case Geometry:
			tok = "DB2GSE.ST_GEOMETRY"
		case Integer:
			tok = "BIGINT"
		case String:
			tok = "VARGRAPHIC(" + chars(width) + ")"
		}
	case Informix:
		switch t {
		case Blob:
			tok = "BYTE"
		case Double:
			tok = "DOUBLE PRECISION"
		case Geometry:
			tok = "ST_GEOMETRY"
		case Integer:
			tok = "INT8"
		case String:
			tok = "NVARCHAR(" + chars(width) + ")"
		}
	case Ingres:
		switch t {
		case Blob:
			tok = "LONG BYTE"
		case Double:
			tok = "FLOAT8"
		case Geometry:
			tok = "GEOMETRY"
		case Integer:
			tok = "BIGINT"
		case String:
			tok = "NVARCHAR(" + chars(width) + ")"
		}
	case MSSQL:
		switch t {
		case Blob:
			tok = "VARBINARY(MAX)"
		case Double:
			tok = "FLOAT"
		case Geometry:
			tok = "GEOMETRY"
		case Integer:
			tok = "BIGINT"
		case String:
			tok = "NVARCHAR(" + chars(width) + ")"
		}
	case MySQL:
		switch t {
		case Blob:
			tok = "LONGBLOB"
		case Double:
			tok = "DOUBLE"
		case Geometry:
			tok = "GEOMETRY"
		case Integer:
			tok = "BIGINT"
		case String:
			tok = "NVARCHAR(" + chars(width) + ")"
		}
	case Oracle:
		switch t {
		case Blob:
			tok = "BLOB"
		case Double:
			tok = "BINARY_DOUBLE"
		case Geometry:
			tok = "MDSYS.SDO_GEOMETRY"
		case Integer:
			tok = "NUMBER(19)"
		case String:
			tok = "NVARCHAR2(" + chars(width) + ")"
		}
	case Postgres:
		switch t {
		case Blob:
			tok = "BYTEA"
		case Double:
			tok = "DOUBLE PRECISION"
		case Integer:
			tok = "BIGINT"
		case String:
			tok = "VARCHAR(" + chars(width) + ")"
		}
	case SQLite:
		// affinities
		switch t {
		case Blob:
			tok = "BLOB"
		case Double:
			tok = "REAL"
		case Integer:
			tok = "INTEGER"
		case String:
			tok = "TEXT"
		}
	case VoidSystem:
		return "", errGeneration("unknown dialect")
	}
	if tok == "" {
		return "", errGeneration("no %s column type for %s", t, sys)
	}
	return tok, nil
}

// geometryInline reports whether geometry is declared inside CREATE TABLE.
func geometryInline(sys Dialect) bool {
	switch sys {
	case Postgres, SQLite:
		return false
	}
	return true
}

// numericType maps fixed point types by scale.
func numericType(col ColumnDetail) ColumnType {
	if col.Scale == 0 && col.Precision > 0 {
		return Integer
	}
	return Double
}

var spatialTypeNames = map[string]struct{}{
	"geometry":           {},
	"point":              {},
	"linestring":         {},
	"polygon":            {},
	"multipoint":         {},
	"multilinestring":    {},
	"multipolygon":       {},
	"geometrycollection": {},
}

func isSpatialTypeName(n string) bool {
	_, ok := spatialTypeNames[n]
	return ok
}

/*
	native type name -> abstract type.
	names are looked up exactly first and then lower cased, numeric types with a
	scale are resolved by numericType.
*/
var nativeTypes = map[Dialect]map[string]ColumnType{
	CUBRID: {
		"bit varying": Blob, "varbit": Blob, "blob": Blob, "bit": Blob,
		"double": Double, "float": Double, "monetary": Double,
		"bigint": Integer, "integer": Integer, "int": Integer, "smallint": Integer, "short": Integer,
		"string": String, "varchar": String, "char": String, "nchar": String,
		"character varying": String, "nchar varying": String, "clob": String,
	},
	DB2: {
		"blob": Blob, "varbinary": Blob, "binary": Blob,
		"double": Double, "real": Double, "decfloat": Double, "float": Double,
		"bigint": Integer, "integer": Integer, "smallint": Integer,
		"varchar": String, "character": String, "char": String, "vargraphic": String,
		"graphic": String, "clob": String, "dbclob": String, "long varchar": String,
	},
	Informix: {
		"byte": Blob, "blob": Blob,
		"float": Double, "smallfloat": Double, "double precision": Double,
		"int8": Integer, "bigint": Integer, "integer": Integer, "smallint": Integer,
		"serial": Integer, "serial8": Integer, "bigserial": Integer,
		"char": String, "varchar": String, "nchar": String, "nvarchar": String, "lvarchar": String,
	},
	Ingres: {
		"long byte": Blob, "byte varying": Blob, "byte": Blob,
		"float": Double, "float8": Double, "float4": Double,
		"integer": Integer, "bigint": Integer, "smallint": Integer, "tinyint": Integer,
		"integer1": Integer, "integer2": Integer, "integer4": Integer, "integer8": Integer,
		"varchar": String, "nvarchar": String, "char": String, "nchar": String,
		"long varchar": String, "long nvarchar": String, "c": String, "text": String,
	},
	MSSQL: {
		"varbinary": Blob, "binary": Blob, "image": Blob,
		"float": Double, "real": Double,
		"bigint": Integer, "int": Integer, "smallint": Integer, "tinyint": Integer, "bit": Integer,
		"nvarchar": String, "varchar": String, "nchar": String, "char": String,
		"ntext": String, "text": String, "uniqueidentifier": String,
		"geometry": Geometry, "geography": Geometry,
	},
	MySQL: {
		"tinyblob": Blob, "blob": Blob, "mediumblob": Blob, "longblob": Blob,
		"binary": Blob, "varbinary": Blob,
		"double": Double, "float": Double, "real": Double,
		"tinyint": Integer, "smallint": Integer, "mediumint": Integer,
		"int": Integer, "integer": Integer, "bigint": Integer,
		"char": String, "varchar": String, "tinytext": String, "text": String,
		"mediumtext": String, "longtext": String,
	},
	Oracle: {
		"blob": Blob, "raw": Blob, "long raw": Blob,
		"binary_double": Double, "binary_float": Double, "float": Double,
		"varchar2": String, "nvarchar2": String, "char": String, "nchar": String,
		"clob": String, "nclob": String, "long": String,
	},
	Postgres: {
		"bytea": Blob,
		"float4": Double, "float8": Double, "real": Double, "double precision": Double,
		"int2": Integer, "int4": Integer, "int8": Integer,
		"smallint": Integer, "integer": Integer, "bigint": Integer,
		"text": String, "varchar": String, "bpchar": String, "char": String, "name": String,
		"character varying": String, "character": String,
		"geometry": Geometry, "geography": Geometry,
	},
	SQLite: {},
}

// AbstractType maps a catalog column into the portable vocabulary, VoidColumn when it cannot.
func AbstractType(sys Dialect, col ColumnDetail) ColumnType {
	name, lower := col.Type.Name, col.LowerCaseType.Name
	if lower == "" {
		lower = strings.ToLower(name)
	}
	switch sys {
	case CUBRID, Informix, Ingres, MSSQL, Postgres:
		if lower == "numeric" || lower == "decimal" || lower == "money" || lower == "smallmoney" {
			return numericType(col)
		}
		if sys == Informix && strings.HasPrefix(lower, "st_") {
			return Geometry
		}
		if sys == Ingres && isSpatialTypeName(lower) {
			return Geometry
		}
	case DB2:
		if lower == "decimal" || lower == "numeric" {
			return numericType(col)
		}
		if strings.ToLower(col.Type.Schema) == "db2gse" && strings.HasPrefix(lower, "st_") {
			return Geometry
		}
	case MySQL:
		if lower == "decimal" || lower == "numeric" {
			return numericType(col)
		}
		if isSpatialTypeName(lower) {
			return Geometry
		}
	case Oracle:
		if lower == "number" {
			return numericType(col)
		}
		if lower == "sdo_geometry" {
			return Geometry
		}
	case SQLite:
		return sqliteAffinity(lower, col.LowerCaseTypeDetail)
	case VoidSystem:
		return VoidColumn
	}
	types := nativeTypes[sys]
	if t, ok := types[name]; ok {
		return t
	}
	return types[lower]
}

// sqliteAffinity follows the declared type affinity rules of sqlite.
func sqliteAffinity(decl, detail string) ColumnType {
	if isSpatialTypeName(decl) || (detail != "" && decl == "") {
		return Geometry
	}
	switch {
	case strings.Contains(decl, "int"):
		return Integer
	case strings.Contains(decl, "char"), strings.Contains(decl, "clob"), strings.Contains(decl, "text"):
		return String
	case strings.Contains(decl, "blob"), decl == "":
		return Blob
	case strings.Contains(decl, "real"), strings.Contains(decl, "floa"), strings.Contains(decl, "doub"):
		return Double
	}
	return VoidColumn
}
