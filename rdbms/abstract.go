package rdbms

import "fmt"

/*
	abstract form of an introspected table.
	it carries no schema, only the table name, so it can be recreated anywhere.
*/

func TableAbstract(sys Dialect, detail TableDetail[ColumnDetail]) TableDetail[ColumnAbstract] {
	var ret TableDetail[ColumnAbstract]
	ret.ID = Identifier{Name: detail.ID.Name}

	types := make(map[string]ColumnType, len(detail.Columns))
	for _, c := range detail.Columns {
		t := AbstractType(sys, c)
		if t == VoidColumn {
			continue
		}
		types[c.Name] = t
		ret.Columns = append(ret.Columns, ColumnAbstract{
			Name: c.Name,
			Type: t,
			EPSG: c.EPSG,
		})
	}

	for _, idx := range detail.Indexes {
		if idx.Type == VoidIndex || len(idx.Columns) == 0 {
			continue
		}
		ok := true
		for _, c := range idx.Columns {
			if _, found := types[c]; !found {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if idx.Type == Spatial && (len(idx.Columns) != 1 || types[idx.Columns[0]] != Geometry) {
			continue
		}
		idx.ID.Schema = ""
		idx.Columns = append([]string(nil), idx.Columns...)
		ret.Indexes = append(ret.Indexes, idx)
	}
	return ret
}

// BeforeCreate marks the geometry columns whose envelope the dialect wants up front, explicit choices are kept.
func BeforeCreate(sys Dialect, tbl *TableDetail[ColumnAbstract]) {
	mark := func(name string) {
		for i := range tbl.Columns {
			c := &tbl.Columns[i]
			if c.Name == name && c.Type == Geometry && c.NeedMBR == Unset {
				c.NeedMBR = Yes
			}
		}
	}
	switch sys {
	case Oracle:
		for _, c := range tbl.Columns {
			mark(c.Name)
		}
	case Ingres, MSSQL:
		for _, idx := range tbl.Indexes {
			if idx.Type == Spatial && len(idx.Columns) == 1 {
				mark(idx.Columns[0])
			}
		}
	case CUBRID, DB2, Informix, MySQL, Postgres, SQLite, VoidSystem:
	}
}

// FillMBR reads the extent of every column which needs one and has none yet.
func FillMBR(cmd Command, detail TableDetail[ColumnDetail], tbl *TableDetail[ColumnAbstract]) error {
	for i := range tbl.Columns {
		c := &tbl.Columns[i]
		if c.NeedMBR != Yes || c.MBR != nil {
			continue
		}
		e, err := RemoteMBR(cmd, detail.ID, c.Name)
		if err != nil {
			return err
		}
		c.MBR = &e
	}
	return nil
}

// DefinitionFromAbstract turns an abstract table back into something StmtCreateTable accepts.
func DefinitionFromAbstract(tbl TableDetail[ColumnAbstract]) (TableDefinition, error) {
	var ret TableDefinition
	ret.ID = tbl.ID
	for _, c := range tbl.Columns {
		def := ColumnDefinition{Name: c.Name, Type: c.Type, EPSG: c.EPSG}
		if c.MBR != nil {
			b, err := EnvelopeWKB(*c.MBR)
			if err != nil {
				return TableDefinition{}, fmt.Errorf("%w: %s: %v", ErrMBR, c.Name, err)
			}
			def.Query = BlobValue(b)
		} else if c.NeedMBR == Yes {
			return TableDefinition{}, fmt.Errorf("%w: column %s needs an envelope", ErrMBR, c.Name)
		}
		ret.Columns = append(ret.Columns, def)
	}
	for _, idx := range tbl.Indexes {
		ret.Indexes = append(ret.Indexes, IndexDefinition{
			ID:      idx.ID,
			Type:    idx.Type,
			Columns: append([]string(nil), idx.Columns...),
		})
	}
	return ret, nil
}
