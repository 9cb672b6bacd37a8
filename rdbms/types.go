package rdbms

import (
	"fmt"
	"strings"
)

/*
	portable type system.
	every policy in this package is a switch over one of these closed enumerations,
	adding a variant means visiting every switch that lists the others.
*/

type Dialect int

const (
	VoidSystem Dialect = iota
	CUBRID
	DB2
	Informix
	Ingres
	MSSQL
	MySQL
	Oracle
	Postgres
	SQLite
)

var dialectNames = [...]string{
	VoidSystem: "void",
	CUBRID:     "cubrid",
	DB2:        "db2",
	Informix:   "informix",
	Ingres:     "ingres",
	MSSQL:      "mssql",
	MySQL:      "mysql",
	Oracle:     "oracle",
	Postgres:   "postgres",
	SQLite:     "sqlite",
}

func (d Dialect) String() string {
	if d < 0 || int(d) >= len(dialectNames) {
		return fmt.Sprintf("dialect(%d)", int(d))
	}
	return dialectNames[d]
}

func (d Dialect) Valid() bool {
	return d > VoidSystem && int(d) < len(dialectNames)
}

// ParseDialect accepts dialect names as well as the usual database/sql driver names.
func ParseDialect(name string) Dialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cubrid":
		return CUBRID
	case "db2", "ibm_db2", "go_ibm_db":
		return DB2
	case "informix":
		return Informix
	case "ingres", "actian":
		return Ingres
	case "mssql", "sqlserver":
		return MSSQL
	case "mysql", "mariadb":
		return MySQL
	case "oracle", "oci8", "godror":
		return Oracle
	case "postgres", "postgresql", "pgsql", "pgx":
		return Postgres
	case "sqlite", "sqlite3", "spatialite":
		return SQLite
	}
	return VoidSystem
}

func (d Dialect) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Dialect) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if *d = ParseDialect(s); *d == VoidSystem {
		return fmt.Errorf("unknown dialect %q", s)
	}
	return nil
}

type ColumnType int

const (
	VoidColumn ColumnType = iota
	Blob
	Double
	Geometry
	Integer
	String
)

var columnTypeNames = [...]string{
	VoidColumn: "void",
	Blob:       "blob",
	Double:     "double",
	Geometry:   "geometry",
	Integer:    "integer",
	String:     "string",
}

func (t ColumnType) String() string {
	if t < 0 || int(t) >= len(columnTypeNames) {
		return fmt.Sprintf("column(%d)", int(t))
	}
	return columnTypeNames[t]
}

func ParseColumnType(name string) (ColumnType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range columnTypeNames {
		if s == n {
			return ColumnType(i), nil
		}
	}
	switch n {
	case "text", "varchar":
		return String, nil
	case "int", "bigint":
		return Integer, nil
	case "float", "real":
		return Double, nil
	case "binary", "bytes":
		return Blob, nil
	}
	return VoidColumn, fmt.Errorf("unknown column type %q", name)
}

func (t ColumnType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *ColumnType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseColumnType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

type IndexType int

const (
	VoidIndex IndexType = iota
	Primary
	Unique
	Spatial
	Duplicate
)

var indexTypeNames = [...]string{
	VoidIndex: "void",
	Primary:   "primary",
	Unique:    "unique",
	Spatial:   "spatial",
	Duplicate: "duplicate",
}

func (t IndexType) String() string {
	if t < 0 || int(t) >= len(indexTypeNames) {
		return fmt.Sprintf("index(%d)", int(t))
	}
	return indexTypeNames[t]
}

func ParseIndexType(name string) (IndexType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range indexTypeNames {
		if s == n {
			return IndexType(i), nil
		}
	}
	switch n {
	case "pk", "primary key":
		return Primary, nil
	case "", "plain", "index":
		return Duplicate, nil
	}
	return VoidIndex, fmt.Errorf("unknown index type %q", name)
}

func (t IndexType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *IndexType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseIndexType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Tristate is a flag which remembers whether anybody has decided on it yet.
type Tristate int

const (
	Unset Tristate = iota
	Yes
	No
)

func (t Tristate) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	}
	return "unset"
}

func (t Tristate) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *Tristate) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var b bool
	if err := unmarshal(&b); err == nil {
		if b {
			*t = Yes
		} else {
			*t = No
		}
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "yes", "true":
		*t = Yes
	case "no", "false":
		*t = No
	case "", "unset":
		*t = Unset
	default:
		return fmt.Errorf("invalid tristate %q", s)
	}
	return nil
}
