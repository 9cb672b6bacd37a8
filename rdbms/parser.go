package rdbms

import (
	"fmt"

	"github.com/kzaag/gdp/cmn"
	"gopkg.in/yaml.v2"
)

/*
	portable definitions from yaml files.
	one file holds either a table or a raster pyramid:

	table: public.roads
	columns:
	  - { name: id, type: integer }
	  - { name: geom, type: geometry, epsg: 4326, mbr: { minx: 14, miny: 49, maxx: 24, maxy: 55 } }
	indexes:
	  - { type: primary, columns: [id] }
	  - { type: spatial, columns: [geom] }
*/

type parserColumn struct {
	ColumnDefinition `yaml:",inline"`
	MBR              *Envelope `yaml:"mbr,omitempty"`
}

type parserTable struct {
	ID      Identifier        `yaml:"table"`
	Columns []parserColumn    `yaml:"columns"`
	Indexes []IndexDefinition `yaml:"indexes"`
}

type parserObject struct {
	parserTable `yaml:",inline"`
	Raster      *RasterPyramid `yaml:"raster"`
}

type ParseCtx struct {
	Tables  []TableDefinition
	Rasters []RasterPyramid
}

func __ParserErrorTable(tname string, err error) error {
	return fmt.Errorf("in table %s: %s", tname, err.Error())
}

func parserValidateColumns(c []parserColumn) error {
	if len(c) == 0 {
		return fmt.Errorf("no columns specified")
	}
	for i := 0; i < len(c); i++ {
		col := &c[i]
		if col.Name == "" {
			return fmt.Errorf("column at index %d doesnt have name specified", i)
		}
		if col.Type == VoidColumn {
			return fmt.Errorf("in column %s: type was not specified", col.Name)
		}
		if col.MBR != nil && col.Type != Geometry {
			return fmt.Errorf("in column %s: mbr on %s column", col.Name, col.Type)
		}
	}
	return nil
}

func ParserValidateIndexes(ixs []IndexDefinition) error {
	for i := 0; i < len(ixs); i++ {
		if len(ixs[i].Columns) == 0 {
			return fmt.Errorf("index at index %d has no columns specified", i)
		}
		for j, c := range ixs[i].Columns {
			if c == "" {
				return fmt.Errorf("index at index %d: column at index %d doesnt have name specified", i, j)
			}
		}
	}
	return nil
}

// parserTableDefinition validates a parsed table and converts mbr boxes into wkb payloads.
func parserTableDefinition(t *parserTable, f string) (TableDefinition, error) {
	var ret TableDefinition
	if t.ID.Name == "" {
		return ret, fmt.Errorf("table defined in %s doesnt have specified name", f)
	}
	name := t.ID.String()
	if err := parserValidateColumns(t.Columns); err != nil {
		return ret, __ParserErrorTable(name, err)
	}
	if err := ParserValidateIndexes(t.Indexes); err != nil {
		return ret, __ParserErrorTable(name, err)
	}
	ret.ID = t.ID
	ret.Indexes = t.Indexes
	for _, c := range t.Columns {
		if c.MBR != nil {
			b, err := EnvelopeWKB(*c.MBR)
			if err != nil {
				return ret, __ParserErrorTable(name, err)
			}
			c.Query = BlobValue(b)
		}
		ret.Columns = append(ret.Columns, c.ColumnDefinition)
	}
	return ret, nil
}

func ParserValidateRaster(r *RasterPyramid, f string) error {
	if len(r.Levels) == 0 {
		return fmt.Errorf("raster defined in %s has no levels", f)
	}
	for i := range r.Levels {
		lvl := &r.Levels[i]
		if lvl.Geometry.Name == "" || lvl.Raster.Name == "" {
			return fmt.Errorf("raster defined in %s: level %d needs geometry and raster", f, i)
		}
		lvl.Raster.Type = Blob
	}
	return nil
}

func ParserGetObject(path string, fc []byte, args interface{}) error {
	var obj parserObject
	ctx := args.(*ParseCtx)
	if err := yaml.Unmarshal(fc, &obj); err != nil {
		return fmt.Errorf("couldnt unmarshal %s %s", path, err.Error())
	}
	if obj.Raster != nil {
		if err := ParserValidateRaster(obj.Raster, path); err != nil {
			return err
		}
		ctx.Rasters = append(ctx.Rasters, *obj.Raster)
		return nil
	}
	if obj.ID.Name == "" && len(obj.Columns) == 0 {
		return fmt.Errorf("%s holds neither table nor raster", path)
	}
	tbl, err := parserTableDefinition(&obj.parserTable, path)
	if err != nil {
		return err
	}
	ctx.Tables = append(ctx.Tables, tbl)
	return nil
}

// ParserGetObjects reads every definition under path, a file or a directory tree.
func ParserGetObjects(paths ...string) (*ParseCtx, error) {
	ctx := &ParseCtx{}
	for _, p := range paths {
		if err := cmn.ParserIterateOverSource(p, ParserGetObject, ctx); err != nil {
			return nil, err
		}
	}
	return ctx, nil
}
