package rdbms

import (
	"strconv"
	"strings"
)

/*
	row access.
	geometry travels as WKB both ways: selects wrap the column in the
	dialect's WKB writer, inserts wrap the parameter in its WKB reader.
	parameter markers are the ones database/sql drivers of each dialect expect.
*/

// SelectOptions narrow StmtSelect, the zero value reads every column of every row.
type SelectOptions struct {
	Columns []string
	// Rows caps the result when positive.
	Rows int
	// Geometry names the column Box is tested against.
	Geometry string
	Box      *Envelope
}

func sqlParam(sys Dialect, i int) string {
	n := strconv.Itoa(i)
	switch sys {
	case Postgres:
		return "$" + n
	case MSSQL:
		return "@p" + n
	case Oracle:
		return ":" + n
	case CUBRID, DB2, Informix, Ingres, MySQL, SQLite, VoidSystem:
		return "?"
	}
	return "?"
}

func detailColumn(tbl TableDetail[ColumnDetail], name string) *ColumnDetail {
	for i := range tbl.Columns {
		if tbl.Columns[i].Name == name {
			return &tbl.Columns[i]
		}
	}
	return nil
}

// DataColumns resolves names against the table, no names means every column with a portable type.
func DataColumns(sys Dialect, tbl TableDetail[ColumnDetail], names []string) ([]ColumnDetail, error) {
	var ret []ColumnDetail
	if len(names) == 0 {
		for _, c := range tbl.Columns {
			if AbstractType(sys, c) != VoidColumn {
				ret = append(ret, c)
			}
		}
		if len(ret) == 0 {
			return nil, errGeneration("table %s has no readable columns", tbl.ID)
		}
		return ret, nil
	}
	for _, name := range names {
		c := detailColumn(tbl, name)
		if c == nil {
			return nil, errGeneration("table %s has no column %s", tbl.ID, name)
		}
		if AbstractType(sys, *c) == VoidColumn {
			return nil, errGeneration("column %s of %s has no portable type", name, tbl.ID)
		}
		ret = append(ret, *c)
	}
	return ret, nil
}

func dataTable(sys Dialect, id Identifier) string {
	if sys == SQLite {
		return SQLIdentifier(sys, id.Name)
	}
	return SQLQualified(sys, id)
}

func sqlSelectColumn(sys Dialect, c ColumnDetail) (string, error) {
	q := SQLIdentifier(sys, c.Name)
	if AbstractType(sys, c) != Geometry {
		return q, nil
	}
	var wkb string
	switch sys {
	case CUBRID, VoidSystem:
		return "", errGeneration("no geometry support in %s", sys)
	case DB2:
		wkb = "DB2GSE.ST_AsBinary(" + q + ")"
	case Ingres:
		wkb = "ASBINARY(" + q + ")"
	case MSSQL:
		wkb = q + ".STAsBinary()"
	case Oracle:
		wkb = "SDO_UTIL.TO_WKBGEOMETRY(" + q + ")"
	case SQLite:
		wkb = "AsBinary(" + q + ")"
	case Informix, MySQL, Postgres:
		wkb = "ST_AsBinary(" + q + ")"
	}
	return wkb + " AS " + q, nil
}

func srid(sys Dialect, c ColumnDetail) string {
	if c.SRID > 0 {
		return strconv.Itoa(c.SRID)
	}
	switch sys {
	case Oracle:
		return "NULL"
	case SQLite:
		return "-1"
	}
	return "0"
}

func sqlInsertValue(sys Dialect, c ColumnDetail, param string) (string, error) {
	if AbstractType(sys, c) != Geometry {
		return param, nil
	}
	s := srid(sys, c)
	switch sys {
	case CUBRID, VoidSystem:
		return "", errGeneration("no geometry support in %s", sys)
	case DB2:
		return "DB2GSE.ST_Geometry(CAST(" + param + " AS BLOB(100M)), " + s + ")", nil
	case Ingres:
		return "GEOMETRYFROMWKB(" + param + ", " + s + ")", nil
	case MSSQL:
		return "geometry::STGeomFromWKB(" + param + ", " + s + ")", nil
	case Oracle:
		return "SDO_GEOMETRY(" + param + ", " + s + ")", nil
	case SQLite:
		return "GeomFromWKB(" + param + ", " + s + ")", nil
	case Informix, MySQL, Postgres:
		return "ST_GeomFromWKB(" + param + ", " + s + ")", nil
	}
	return param, nil
}

// sqlBoxFilter is the predicate keeping rows whose geometry envelope meets e.
func sqlBoxFilter(sys Dialect, c ColumnDetail, e Envelope) (string, error) {
	q, s := SQLIdentifier(sys, c.Name), srid(sys, c)
	poly, err := envelopeWKT(e)
	if err != nil {
		return "", errGeneration("box of %s: %v", c.Name, err)
	}
	poly = lit(sys, poly)
	box := num(e.MinX) + ", " + num(e.MinY) + ", " + num(e.MaxX) + ", " + num(e.MaxY)
	switch sys {
	case CUBRID, VoidSystem:
		return "", errGeneration("no geometry support in %s", sys)
	case DB2:
		return "DB2GSE.EnvelopesIntersect(" + q + ", " + box + ", " + s + ") = 1", nil
	case Informix:
		return "SE_EnvelopesIntersect(" + q + ", ST_PolyFromText(" + poly + ", " + s + "))", nil
	case Ingres:
		return "INTERSECTS(" + q + ", POLYGONFROMTEXT(" + poly + ", " + s + ")) = 1", nil
	case MSSQL:
		return q + ".Filter(geometry::STGeomFromText(" + poly + ", " + s + ")) = 1", nil
	case MySQL:
		return "MBRIntersects(" + q + ", ST_GeomFromText(" + poly + ", " + s + "))", nil
	case Oracle:
		return "SDO_FILTER(" + q + ", SDO_GEOMETRY(2003, " + s + ", NULL, SDO_ELEM_INFO_ARRAY(1, 1003, 3), SDO_ORDINATE_ARRAY(" + box + "))) = 'TRUE'", nil
	case Postgres:
		return q + " && ST_MakeEnvelope(" + box + ", " + s + ")", nil
	case SQLite:
		return "MbrIntersects(" + q + ", BuildMbr(" + box + "))", nil
	}
	return "", nil
}

/*
	StmtSelect reads rows of an introspected table.
	with a Box only rows whose Geometry envelope meets the box are read,
	which the dialect answers from its spatial index where it has one.
*/
func StmtSelect(sys Dialect, tbl TableDetail[ColumnDetail], opts SelectOptions) (string, error) {
	if !sys.Valid() {
		return "", errGeneration("unknown dialect %s", sys)
	}
	cols, err := DataColumns(sys, tbl, opts.Columns)
	if err != nil {
		return "", err
	}
	list := make([]string, len(cols))
	for i, c := range cols {
		if list[i], err = sqlSelectColumn(sys, c); err != nil {
			return "", err
		}
	}

	var where []string
	if opts.Box != nil {
		g := detailColumn(tbl, opts.Geometry)
		if g == nil || AbstractType(sys, *g) != Geometry {
			return "", errGeneration("box needs a geometry column of %s, got %q", tbl.ID, opts.Geometry)
		}
		f, err := sqlBoxFilter(sys, *g, *opts.Box)
		if err != nil {
			return "", err
		}
		where = append(where, f)
	}

	n := strconv.Itoa(opts.Rows)
	limited := opts.Rows > 0
	q := "SELECT "
	if limited {
		switch sys {
		case MSSQL:
			q += "TOP " + n + " "
		case Informix, Ingres:
			q += "FIRST " + n + " "
		case Oracle:
			where = append(where, "ROWNUM <= "+n)
		}
	}
	q += strings.Join(list, ", ") + " FROM " + dataTable(sys, tbl.ID)
	for i, w := range where {
		if i == 0 {
			q += " WHERE " + w
		} else {
			q += " AND " + w
		}
	}
	if limited {
		switch sys {
		case CUBRID, MySQL, Postgres, SQLite:
			q += " LIMIT " + n
		case DB2:
			q += " FETCH FIRST " + n + " ROWS ONLY"
		}
	}
	return q, nil
}

// StmtInsert builds the parameterized insert of one row, parameters follow cols.
func StmtInsert(sys Dialect, tbl TableDetail[ColumnDetail], cols []string) (string, error) {
	if !sys.Valid() {
		return "", errGeneration("unknown dialect %s", sys)
	}
	resolved, err := DataColumns(sys, tbl, cols)
	if err != nil {
		return "", err
	}
	names := make([]string, len(resolved))
	values := make([]string, len(resolved))
	for i, c := range resolved {
		names[i] = c.Name
		if values[i], err = sqlInsertValue(sys, c, sqlParam(sys, i+1)); err != nil {
			return "", err
		}
	}
	return "INSERT INTO " + dataTable(sys, tbl.ID) + " (" + sqlColumnList(sys, names) + ") VALUES (" + strings.Join(values, ", ") + ")", nil
}

// RemoteSelect streams the rows StmtSelect describes into fn.
func RemoteSelect(cmd Command, tbl TableDetail[ColumnDetail], opts SelectOptions, fn func(row []Value) error) error {
	q, err := StmtSelect(cmd.System(), tbl, opts)
	if err != nil {
		return err
	}
	return remoteEach(cmd, q, fn)
}
