package rdbms

import (
	"strconv"
	"strings"
)

/*
	DDL generation.

	StmtCreateTable never touches the caller's definition: it works on a clone
	and hands the clone back together with the statements, so the caller can see
	what the names, keys and index identities ended up being.
	every check runs before the first statement is returned, an error means no
	statements at all.
*/

// stmtPrune drops void columns, the indexes which referenced them and indexes without columns.
func stmtPrune(tbl *TableDefinition) {
	cols := tbl.Columns[:0]
	for _, c := range tbl.Columns {
		if c.Type != VoidColumn {
			cols = append(cols, c)
		}
	}
	tbl.Columns = cols

	idxs := tbl.Indexes[:0]
	for _, idx := range tbl.Indexes {
		if idx.Type == VoidIndex || len(idx.Columns) == 0 {
			continue
		}
		ok := true
		for _, name := range idx.Columns {
			if tbl.column(name) == nil {
				ok = false
				break
			}
		}
		if ok {
			idxs = append(idxs, idx)
		}
	}
	tbl.Indexes = idxs
}

func stmtFindIndex(tbl *TableDefinition, types ...IndexType) *IndexDefinition {
	for i := range tbl.Indexes {
		for _, t := range types {
			if tbl.Indexes[i].Type == t {
				return &tbl.Indexes[i]
			}
		}
	}
	return nil
}

func stmtForceNotNull(sys Dialect, tbl *TableDefinition) {
	for _, idx := range tbl.Indexes {
		switch {
		case sys == DB2 && (idx.Type == Primary || idx.Type == Unique):
		case sys == MySQL && idx.Type == Spatial:
		default:
			continue
		}
		for _, name := range idx.Columns {
			tbl.column(name).NotNull = true
		}
	}
}

// stmtSurrogateKey returns the key column text the dialect wants when the table has no row identity.
func stmtSurrogateKey(sys Dialect, tbl *TableDefinition) string {
	switch sys {
	case MSSQL:
		if stmtFindIndex(tbl, Primary) != nil {
			return ""
		}
		if u := stmtFindIndex(tbl, Unique); u != nil {
			u.Type = Primary
			return ""
		}
		return "ID BIGINT IDENTITY PRIMARY KEY"
	case Oracle:
		if stmtFindIndex(tbl, Primary, Unique) != nil {
			return ""
		}
		return "ID NVARCHAR2(32) DEFAULT SYS_GUID() PRIMARY KEY"
	}
	return ""
}

func stmtCheckSpatial(tbl *TableDefinition) error {
	for _, idx := range tbl.Indexes {
		if idx.Type != Spatial {
			continue
		}
		if len(idx.Columns) != 1 {
			return errGeneration("spatial index on %d columns of %s", len(idx.Columns), tbl.ID)
		}
		if c := tbl.column(idx.Columns[0]); c.Type != Geometry {
			return errGeneration("spatial index on %s column %s of %s", c.Type, c.Name, tbl.ID)
		}
	}
	return nil
}

func StmtCreateTable(sys Dialect, in TableDefinition) (TableDefinition, []string, error) {
	var err error
	var stmts []string

	if !sys.Valid() {
		return TableDefinition{}, nil, errGeneration("unknown dialect %s", sys)
	}

	tbl := in.Clone()
	stmtPrune(&tbl)
	normalizeTable(sys, &tbl)
	if sys == SQLite {
		tbl.ID.Schema = ""
	}
	if err = stmtCheckSpatial(&tbl); err != nil {
		return TableDefinition{}, nil, err
	}

	var defs []string
	if key := stmtSurrogateKey(sys, &tbl); key != "" {
		defs = append(defs, key)
	}
	stmtForceNotNull(sys, &tbl)

	for i := range tbl.Columns {
		c := &tbl.Columns[i]
		if c.Type == Geometry && !geometryInline(sys) {
			continue
		}
		tok, err := ColumnTypeToken(sys, c.Type, c.Chars)
		if err != nil {
			return TableDefinition{}, nil, err
		}
		def := SQLIdentifier(sys, c.Name) + " " + tok
		if c.NotNull {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}

	if pk := stmtFindIndex(&tbl, Primary); pk != nil {
		pk.ID = Identifier{}
		defs = append(defs, "PRIMARY KEY ("+sqlColumnList(sys, pk.Columns)+")")
	}

	if len(defs) == 0 && sys != Postgres {
		return TableDefinition{}, nil, errGeneration("table %s has no columns", tbl.ID)
	}

	create := "CREATE TABLE " + SQLQualified(sys, tbl.ID) + " (" + strings.Join(defs, ", ") + ")"
	if sys == MySQL {
		create += " ENGINE = MyISAM"
	}
	stmts = append(stmts, create)

	for i := range tbl.Columns {
		c := &tbl.Columns[i]
		if c.Type != Geometry {
			continue
		}
		reg, err := sqlRegisterGeometry(sys, tbl.ID, c)
		if err != nil {
			return TableDefinition{}, nil, err
		}
		if reg != "" {
			stmts = append(stmts, reg)
		}
	}

	counter := 0
	for i := range tbl.Indexes {
		idx := &tbl.Indexes[i]
		if idx.Type == Primary {
			continue
		}
		counter++
		idx.ID = Identifier{Name: tbl.ID.Name + "_idx_" + strconv.Itoa(counter)}

		if idx.Type == Spatial {
			stmt, named, err := sqlSpatialIndex(sys, tbl.ID, idx.ID.Name, tbl.column(idx.Columns[0]))
			if err != nil {
				return TableDefinition{}, nil, err
			}
			if !named {
				idx.ID = Identifier{}
			}
			stmts = append(stmts, stmt)
			continue
		}

		stmt := "CREATE "
		if idx.Type == Unique {
			stmt += "UNIQUE "
		}
		stmt += "INDEX " + SQLIdentifier(sys, idx.ID.Name) + " ON " + SQLQualified(sys, tbl.ID) + " (" + sqlColumnList(sys, idx.Columns) + ")"
		stmts = append(stmts, stmt)
	}

	return tbl, stmts, nil
}

/*
	StmtDropTable drops the spatial metadata the dialect keeps beside the table
	and then the table itself.
*/
func StmtDropTable(sys Dialect, tbl TableDetail[ColumnDetail]) []string {
	var ret []string
	id := tbl.ID
	if sys == SQLite {
		id.Schema = ""
	}
	for _, c := range tbl.Columns {
		if AbstractType(sys, c) == Geometry {
			ret = append(ret, sqlUnregisterGeometry(sys, id, c.Name)...)
		}
	}
	return append(ret, "DROP TABLE "+SQLQualified(sys, id))
}
