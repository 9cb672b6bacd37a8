package rdbms

import (
	"fmt"
	"strings"
)

/*
	catalog introspection.
	every Remote* function owns the command for its duration, rows are consumed
	positionally in the shapes documented in catalog.go.
*/

func RemoteColumns(cmd Command, id Identifier) ([]ColumnDetail, error) {
	sys := cmd.System()
	var ret []ColumnDetail
	err := remoteEach(cmd, SQLColumns(sys, id), func(row []Value) error {
		c := ColumnDetail{
			Name: cellString(row, 0),
			Type: Identifier{
				Schema: cellString(row, 1),
				Name:   cellString(row, 2),
			},
			Chars:     cellInt(row, 3),
			Precision: cellInt(row, 4),
			Scale:     cellInt(row, 5),
			SRID:      -1,
			EPSG:      -1,
		}
		c.LowerCaseType = Identifier{
			Schema: strings.ToLower(c.Type.Schema),
			Name:   strings.ToLower(c.Type.Name),
		}
		ret = append(ret, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("couldnt read columns of %s: %w", id, err)
	}
	return ret, nil
}

/*
	indexGrouper folds a stream of (index, column) rows into indexes.
	rows of one index are consecutive. the kind is decided from the flags of
	the first row of a group, a descending or expression key anywhere in the
	group voids the whole index and void indexes are never emitted.
*/
type indexGrouper struct {
	cols    map[string]struct{}
	cur     *IndexDetail
	indexes []IndexDetail
}

func newIndexGrouper(cols []ColumnDetail) *indexGrouper {
	g := &indexGrouper{cols: make(map[string]struct{}, len(cols))}
	for _, c := range cols {
		g.cols[c.Name] = struct{}{}
	}
	return g
}

func (g *indexGrouper) flush() {
	if g.cur != nil && g.cur.Type != VoidIndex {
		g.indexes = append(g.indexes, *g.cur)
	}
	g.cur = nil
}

func (g *indexGrouper) add(row []Value) {
	id := Identifier{Schema: cellString(row, 0), Name: cellString(row, 1)}
	if g.cur == nil || g.cur.ID != id {
		g.flush()
		g.cur = &IndexDetail{ID: id}
		switch {
		case cellFlag(row, 2):
			g.cur.Type = Primary
		case cellFlag(row, 3):
			g.cur.Type = Unique
		case cellFlag(row, 4):
			g.cur.Type = Spatial
		default:
			g.cur.Type = Duplicate
		}
	}
	col := cellString(row, 5)
	if _, ok := g.cols[col]; !ok || cellFlag(row, 6) {
		g.cur.Type = VoidIndex
	}
	g.cur.Columns = append(g.cur.Columns, col)
}

func (g *indexGrouper) result() []IndexDetail {
	g.flush()
	return g.indexes
}

func RemoteIndexes(cmd Command, id Identifier, cols []ColumnDetail) ([]IndexDetail, error) {
	sys := cmd.System()
	g := newIndexGrouper(cols)
	add := func(row []Value) error {
		g.add(row)
		return nil
	}
	if err := remoteEach(cmd, SQLIndexedColumns(sys, id), add); err != nil {
		return nil, fmt.Errorf("couldnt read indexes of %s: %w", id, err)
	}
	if q := sqlSpatialIndexedColumns(sys, id); q != "" {
		ok, err := remoteTableExists(cmd, "geometry_columns")
		if err != nil {
			return nil, err
		}
		if ok {
			g.flush()
			if err = remoteEach(cmd, q, add); err != nil {
				return nil, fmt.Errorf("couldnt read spatial indexes of %s: %w", id, err)
			}
		}
	}
	return g.result(), nil
}

// RemoteSrid fills the spatial reference of a geometry column, EPSG falls back to the SRID.
func RemoteSrid(cmd Command, id Identifier, col *ColumnDetail) error {
	q := SQLSrid(cmd.System(), id, col.Name)
	if q == "" {
		return nil
	}
	row, err := remoteFirst(cmd, q)
	if err != nil {
		return fmt.Errorf("couldnt read srid of %s.%s: %w", id, col.Name, err)
	}
	if row == nil {
		return nil
	}
	if srid, ok := IntCast(cell(row, 0)); ok {
		col.SRID = srid
		col.EPSG = srid
	}
	if epsg, ok := IntCast(cell(row, 1)); ok {
		col.EPSG = epsg
	}
	col.TypeDetail = cellString(row, 2)
	col.LowerCaseTypeDetail = strings.ToLower(col.TypeDetail)
	return nil
}

func RemoteTableDetail(cmd Command, id Identifier) (TableDetail[ColumnDetail], error) {
	var ret TableDetail[ColumnDetail]
	var err error
	sys := cmd.System()

	ret.ID = id
	if ret.Columns, err = RemoteColumns(cmd, id); err != nil {
		return ret, err
	}
	if len(ret.Columns) == 0 {
		return ret, fmt.Errorf("table %s not found", id)
	}
	for i := range ret.Columns {
		c := &ret.Columns[i]
		if AbstractType(sys, *c) == Geometry {
			if err = remoteSridGuarded(cmd, id, c); err != nil {
				return ret, err
			}
		}
	}
	if ret.Indexes, err = RemoteIndexes(cmd, id, ret.Columns); err != nil {
		return ret, err
	}
	return ret, nil
}

// remoteSridGuarded skips sqlite databases which were never initialized for spatialite.
func remoteSridGuarded(cmd Command, id Identifier, c *ColumnDetail) error {
	if cmd.System() == SQLite {
		ok, err := remoteTableExists(cmd, "geometry_columns")
		if err != nil || !ok {
			return err
		}
	}
	return RemoteSrid(cmd, id, c)
}

func RemoteTables(cmd Command) ([]Identifier, error) {
	var ret []Identifier
	q := "SELECT t.scm, t.tbl FROM (" + SQLTables(cmd.System()) + ") t ORDER BY t.scm, t.tbl"
	err := remoteEach(cmd, q, func(row []Value) error {
		ret = append(ret, Identifier{Schema: cellString(row, 0), Name: cellString(row, 1)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("couldnt read tables: %w", err)
	}
	return ret, nil
}

// RemoteGeometryLayers lists geometry columns as table identifiers qualified by the column.
func RemoteGeometryLayers(cmd Command) ([]Identifier, error) {
	var ret []Identifier
	sys := cmd.System()
	if sys == SQLite {
		if ok, err := remoteTableExists(cmd, "geometry_columns"); err != nil || !ok {
			return nil, err
		}
	}
	q := "SELECT g.scm, g.tbl, g.col FROM (" + SQLGeometries(sys) + ") g ORDER BY g.scm, g.tbl, g.col"
	err := remoteEach(cmd, q, func(row []Value) error {
		ret = append(ret, Identifier{
			Schema:    cellString(row, 0),
			Name:      cellString(row, 1),
			Qualifier: cellString(row, 2),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("couldnt read geometry layers: %w", err)
	}
	return ret, nil
}

// RemoteMBR reads the extent of a geometry column, dialects without an aggregate report the whole globe.
func RemoteMBR(cmd Command, id Identifier, col string) (Envelope, error) {
	q := SQLMBR(cmd.System(), id, col)
	if q == "" {
		return Envelope{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}, nil
	}
	row, err := remoteFirst(cmd, q)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %s.%s: %v", ErrMBR, id, col, err)
	}
	var e Envelope
	var ok [4]bool
	e.MinX, ok[0] = NumericCast(cell(row, 0))
	e.MinY, ok[1] = NumericCast(cell(row, 1))
	e.MaxX, ok[2] = NumericCast(cell(row, 2))
	e.MaxY, ok[3] = NumericCast(cell(row, 3))
	if row == nil || !(ok[0] && ok[1] && ok[2] && ok[3]) {
		return Envelope{}, fmt.Errorf("%w: no extent for %s.%s", ErrMBR, id, col)
	}
	return e, nil
}

func remoteSchema(cmd Command) (string, error) {
	q := SQLSchema(cmd.System())
	if q == "" {
		return "", nil
	}
	row, err := remoteFirst(cmd, q)
	if err != nil {
		return "", fmt.Errorf("couldnt read current schema: %w", err)
	}
	return cellString(row, 0), nil
}

// remoteTableExists looks a table up by name in every visible schema.
func remoteTableExists(cmd Command, name string) (bool, error) {
	row, err := remoteFirst(cmd, sqlTablesNamed(cmd.System(), name))
	if err != nil {
		return false, err
	}
	return row != nil, nil
}
