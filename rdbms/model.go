package rdbms

import (
	"fmt"
	"strings"
)

// Identifier names a table, a column or any other registered object.
type Identifier struct {
	Schema    string `yaml:"schema,omitempty"`
	Name      string `yaml:"name"`
	Qualifier string `yaml:"qualifier,omitempty"`
}

func (id Identifier) Less(o Identifier) bool {
	if id.Schema != o.Schema {
		return id.Schema < o.Schema
	}
	if id.Name != o.Name {
		return id.Name < o.Name
	}
	return id.Qualifier < o.Qualifier
}

func (id Identifier) String() string {
	s := id.Name
	if id.Schema != "" {
		s = id.Schema + "." + s
	}
	if id.Qualifier != "" {
		s += "." + id.Qualifier
	}
	return s
}

// ParseIdentifier splits "schema.name" (or just "name").
func ParseIdentifier(s string) (Identifier, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	switch {
	case len(parts) == 1 && parts[0] != "":
		return Identifier{Name: parts[0]}, nil
	case len(parts) == 2 && parts[1] != "":
		return Identifier{Schema: parts[0], Name: parts[1]}, nil
	case len(parts) == 3 && parts[1] != "" && parts[2] != "":
		return Identifier{Schema: parts[0], Name: parts[1], Qualifier: parts[2]}, nil
	}
	return Identifier{}, fmt.Errorf("invalid identifier %q", s)
}

// UnmarshalYAML accepts "schema.name" as well as the mapping form.
func (id *Identifier) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		v, err := ParseIdentifier(s)
		if err != nil {
			return err
		}
		*id = v
		return nil
	}
	type plain Identifier
	return unmarshal((*plain)(id))
}

type Envelope struct {
	MinX float64 `yaml:"minx"`
	MinY float64 `yaml:"miny"`
	MaxX float64 `yaml:"maxx"`
	MaxY float64 `yaml:"maxy"`
}

/*
	creation time model.
	Query is an auxiliary payload, a BlobValue there holds a WKB sample of the column
	for dialects which want an envelope while the table is being created.
*/

type ColumnDefinition struct {
	Name    string     `yaml:"name"`
	Type    ColumnType `yaml:"type"`
	Chars   int        `yaml:"chars,omitempty"`
	NotNull bool       `yaml:"not_null,omitempty"`
	EPSG    int        `yaml:"epsg,omitempty"`
	Query   Value      `yaml:"-"`
}

type IndexDefinition struct {
	ID      Identifier `yaml:"id,omitempty"`
	Type    IndexType  `yaml:"type"`
	Columns []string   `yaml:"columns"`
}

type TableDefinition struct {
	ID      Identifier         `yaml:"table"`
	Columns []ColumnDefinition `yaml:"columns"`
	Indexes []IndexDefinition  `yaml:"indexes,omitempty"`
}

func (t *TableDefinition) Clone() TableDefinition {
	c := TableDefinition{ID: t.ID}
	c.Columns = make([]ColumnDefinition, len(t.Columns))
	copy(c.Columns, t.Columns)
	for i := range c.Columns {
		if b, ok := c.Columns[i].Query.(BlobValue); ok {
			c.Columns[i].Query = BlobValue(append([]byte(nil), b...))
		}
	}
	c.Indexes = make([]IndexDefinition, len(t.Indexes))
	for i, idx := range t.Indexes {
		idx.Columns = append([]string(nil), idx.Columns...)
		c.Indexes[i] = idx
	}
	return c
}

func (t *TableDefinition) column(name string) *ColumnDefinition {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

/*
	introspection model.
	ColumnDetail is what the catalog says, ColumnAbstract is what survived the
	mapping into the portable vocabulary. TableDetail carries either.
*/

type ColumnDetail struct {
	Name                string     `yaml:"name"`
	Type                Identifier `yaml:"type"`
	LowerCaseType       Identifier `yaml:"-"`
	Chars               int        `yaml:"chars,omitempty"`
	Precision           int        `yaml:"precision,omitempty"`
	Scale               int        `yaml:"scale,omitempty"`
	SRID                int        `yaml:"srid"`
	EPSG                int        `yaml:"epsg"`
	TypeDetail          string     `yaml:"type_detail,omitempty"`
	LowerCaseTypeDetail string     `yaml:"-"`
}

type ColumnAbstract struct {
	Name    string     `yaml:"name"`
	Type    ColumnType `yaml:"type"`
	EPSG    int        `yaml:"epsg"`
	NeedMBR Tristate   `yaml:"need_mbr"`
	MBR     *Envelope  `yaml:"mbr,omitempty"`
}

type IndexDetail struct {
	ID      Identifier `yaml:"id"`
	Type    IndexType  `yaml:"type"`
	Columns []string   `yaml:"columns"`
}

type Column interface {
	ColumnDetail | ColumnAbstract
}

type TableDetail[T Column] struct {
	ID      Identifier    `yaml:"table"`
	Columns []T           `yaml:"columns"`
	Indexes []IndexDetail `yaml:"indexes,omitempty"`
}

type RasterLevel struct {
	ResolutionX float64          `yaml:"resolution_x"`
	ResolutionY float64          `yaml:"resolution_y"`
	Geometry    Identifier       `yaml:"geometry"`
	Raster      ColumnDefinition `yaml:"raster"`
}

// RasterPyramid levels keep discovery order, sort them if resolution order matters.
type RasterPyramid struct {
	ID     Identifier    `yaml:"id"`
	Levels []RasterLevel `yaml:"levels"`
}
