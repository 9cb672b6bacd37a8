package rdbms

import (
	"fmt"
	"sort"
	"strings"
)

/*
	raster pyramids.
	two conventions are read: the dialect's native raster catalog and the
	portable simple_rasters registry table. the registry is the only one
	written to.
*/

const SimpleRasters = "simple_rasters"

// registry columns in the order the discovery query reads them
var simpleRastersNames = [...]string{
	"schema", "table", "raster",
	"base_schema", "base_table", "base_raster",
	"geometry", "resolution_x", "resolution_y",
}

func SimpleRastersDefinition(sys Dialect) TableDefinition {
	tbl := TableDefinition{ID: NormalizeIdentifier(sys, Identifier{Name: SimpleRasters})}
	pk := IndexDefinition{Type: Primary}
	col := func(name string, t ColumnType, key bool) {
		if sys == SQLite && strings.HasSuffix(name, "schema") {
			return
		}
		tbl.Columns = append(tbl.Columns, ColumnDefinition{Name: name, Type: t, NotNull: true})
		if key {
			pk.Columns = append(pk.Columns, name)
		}
	}
	col("schema", String, true)
	col("table", String, true)
	col("raster", String, true)
	col("base_schema", String, false)
	col("base_table", String, false)
	col("base_raster", String, false)
	col("geometry", String, false)
	col("resolution_x", Double, false)
	col("resolution_y", Double, false)
	tbl.Indexes = append(tbl.Indexes, pk)
	return tbl
}

/*
	rasterGrouper folds rows shaped
	(base_scm, base_tbl, base_col, res_x, res_y, geom_scm, geom_tbl, geom_col, raster_col)
	into pyramids, one pyramid per run of rows with the same base identity.
*/
type rasterGrouper struct {
	cur      *RasterPyramid
	pyramids []RasterPyramid
}

func (g *rasterGrouper) flush() {
	if g.cur != nil {
		g.pyramids = append(g.pyramids, *g.cur)
	}
	g.cur = nil
}

func (g *rasterGrouper) add(row []Value) error {
	id := Identifier{
		Schema:    cellString(row, 0),
		Name:      cellString(row, 1),
		Qualifier: cellString(row, 2),
	}
	if g.cur == nil || g.cur.ID != id {
		g.flush()
		g.cur = &RasterPyramid{ID: id}
	}
	var lvl RasterLevel
	lvl.ResolutionX, _ = NumericCast(cell(row, 3))
	lvl.ResolutionY, _ = NumericCast(cell(row, 4))
	lvl.Geometry = Identifier{
		Schema:    cellString(row, 5),
		Name:      cellString(row, 6),
		Qualifier: cellString(row, 7),
	}
	lvl.Raster = ColumnDefinition{Name: cellString(row, 8), Type: Blob}
	g.cur.Levels = append(g.cur.Levels, lvl)
	return nil
}

func (g *rasterGrouper) result() []RasterPyramid {
	g.flush()
	return g.pyramids
}

// mergeRasters merges two sorted lists, native entries come first on equal identities and nothing is deduplicated.
func mergeRasters(native, simple []RasterPyramid) []RasterPyramid {
	ret := make([]RasterPyramid, 0, len(native)+len(simple))
	i, j := 0, 0
	for i < len(native) && j < len(simple) {
		if simple[j].ID.Less(native[i].ID) {
			ret = append(ret, simple[j])
			j++
		} else {
			ret = append(ret, native[i])
			i++
		}
	}
	ret = append(ret, native[i:]...)
	return append(ret, simple[j:]...)
}

func sortRasters(r []RasterPyramid) {
	sort.SliceStable(r, func(i, j int) bool { return r[i].ID.Less(r[j].ID) })
}

func rasterNative(cmd Command) ([]RasterPyramid, error) {
	sys := cmd.System()
	test := SQLTestRasters(sys)
	if test == "" {
		return nil, nil
	}
	row, err := remoteFirst(cmd, test)
	if err != nil {
		return nil, fmt.Errorf("couldnt test raster catalog: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	var g rasterGrouper
	if err = remoteEach(cmd, SQLRasters(sys), g.add); err != nil {
		return nil, fmt.Errorf("couldnt read raster catalog: %w", err)
	}
	ret := g.result()
	for i := range ret {
		for j := range ret[i].Levels {
			ret[i].Levels[j] = NativeRasterLevel(sys, ret[i], j)
		}
	}
	return ret, nil
}

// rasterRegistry finds the simple_rasters table, nil when there is none.
func rasterRegistry(cmd Command) (*Identifier, error) {
	var found []Identifier
	err := remoteEach(cmd, sqlTablesNamed(cmd.System(), SimpleRasters), func(row []Value) error {
		found = append(found, Identifier{Schema: cellString(row, 0), Name: cellString(row, 1)})
		if len(found) > 1 {
			return fmt.Errorf("%w: %s and %s", ErrAmbiguousRegistry, found[0], found[1])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// simpleRastersColumns resolves the registry column names case insensitively, a missing optional schema column stays empty.
func simpleRastersColumns(tbl TableDetail[ColumnDetail]) ([len(simpleRastersNames)]string, error) {
	var ret [len(simpleRastersNames)]string
	for i, want := range simpleRastersNames {
		for _, c := range tbl.Columns {
			if strings.EqualFold(c.Name, want) {
				ret[i] = c.Name
				break
			}
		}
		if ret[i] == "" && !strings.HasSuffix(want, "schema") {
			return ret, fmt.Errorf("%w: %s has no %s column", ErrRaster, tbl.ID, want)
		}
	}
	return ret, nil
}

func rasterSimple(cmd Command, reg Identifier) ([]RasterPyramid, error) {
	sys := cmd.System()
	if sys == SQLite {
		if ok, err := remoteTableExists(cmd, "geometry_columns"); err != nil || !ok {
			return nil, err
		}
	}
	tbl, err := RemoteTableDetail(cmd, reg)
	if err != nil {
		return nil, err
	}
	cols, err := simpleRastersColumns(tbl)
	if err != nil {
		return nil, err
	}
	r := func(i int) string {
		if cols[i] == "" {
			return "''"
		}
		return "r." + SQLIdentifier(sys, cols[i])
	}

	q := "SELECT " + r(3) + " base_scm, " + r(4) + " base_tbl, " + r(5) + " base_col, " +
		r(7) + " res_x, " + r(8) + " res_y, " +
		r(0) + " geom_scm, " + r(1) + " geom_tbl, " + r(6) + " geom_col, " + r(2) + " raster_col" +
		" FROM " + SQLQualified(sys, reg) + " r JOIN (" + SQLGeometries(sys) + ") g ON "
	if cols[0] != "" {
		q += r(0) + " = g.scm AND "
	}
	q += r(1) + " = g.tbl AND " + r(6) + " = g.col ORDER BY base_scm, base_tbl, base_col, res_x, res_y"

	var g rasterGrouper
	if err = remoteEach(cmd, q, g.add); err != nil {
		return nil, fmt.Errorf("couldnt read %s: %w", reg, err)
	}
	return g.result(), nil
}

/*
	RasterDiscover reads both raster conventions and merges them by identity.
	the same coverage registered in both shows up twice, native first.
*/
func RasterDiscover(cmd Command) ([]RasterPyramid, error) {
	native, err := rasterNative(cmd)
	if err != nil {
		return nil, err
	}
	var simple []RasterPyramid
	reg, err := rasterRegistry(cmd)
	if err != nil {
		return nil, err
	}
	if reg != nil {
		if simple, err = rasterSimple(cmd, *reg); err != nil {
			return nil, err
		}
	}
	// catalog collations do not always agree with Less
	sortRasters(native)
	sortRasters(simple)
	return mergeRasters(native, simple), nil
}

/*
	RasterRegister creates the registry when it is missing and returns the
	statements which replace any previous registration of the pyramid.
	the pyramid's identity is taken from its first level and returned with the
	statements. only the registry creation is executed here.
*/
func RasterRegister(cmd Command, pyramid RasterPyramid) (RasterPyramid, []string, error) {
	sys := cmd.System()
	if len(pyramid.Levels) == 0 {
		return pyramid, nil, fmt.Errorf("%w: pyramid %s has no levels", ErrRaster, pyramid.ID)
	}

	schema, err := remoteSchema(cmd)
	if err != nil {
		return pyramid, nil, err
	}

	reg, err := rasterRegistry(cmd)
	if err != nil {
		return pyramid, nil, err
	}
	if reg == nil {
		def, stmts, err := StmtCreateTable(sys, SimpleRastersDefinition(sys))
		if err != nil {
			return pyramid, nil, err
		}
		for _, s := range stmts {
			if err = cmd.Exec(s); err != nil {
				return pyramid, nil, fmt.Errorf("couldnt create %s: %w", def.ID, err)
			}
		}
		reg = &Identifier{Schema: schema, Name: def.ID.Name}
	}

	tbl, err := RemoteTableDetail(cmd, *reg)
	if err != nil {
		return pyramid, nil, err
	}

	levels := make([]RasterLevel, len(pyramid.Levels))
	for i, lvl := range pyramid.Levels {
		lvl.Geometry.Schema = schema
		lvl.Geometry = NormalizeIdentifier(sys, lvl.Geometry)
		levels[i] = lvl
	}
	pyramid.Levels = levels
	pyramid.ID = levels[0].Geometry
	pyramid.ID.Qualifier = levels[0].Raster.Name

	var stmts []string
	del := "DELETE FROM " + SQLQualified(sys, *reg) + " WHERE "
	if sys != SQLite {
		del += SQLIdentifier(sys, rasterColumn(tbl, "base_schema")) + " = " + lit(sys, pyramid.ID.Schema) + " AND "
	}
	del += SQLIdentifier(sys, rasterColumn(tbl, "base_table")) + " = " + lit(sys, pyramid.ID.Name) +
		" AND " + SQLIdentifier(sys, rasterColumn(tbl, "base_raster")) + " = " + lit(sys, pyramid.ID.Qualifier)
	stmts = append(stmts, del)

	names := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		names[i] = c.Name
	}
	for _, lvl := range pyramid.Levels {
		values := make([]string, len(tbl.Columns))
		for i, c := range tbl.Columns {
			switch strings.ToLower(c.Name) {
			case "schema":
				values[i] = lit(sys, lvl.Geometry.Schema)
			case "table":
				values[i] = lit(sys, lvl.Geometry.Name)
			case "raster":
				values[i] = lit(sys, lvl.Raster.Name)
			case "base_schema":
				values[i] = lit(sys, pyramid.ID.Schema)
			case "base_table":
				values[i] = lit(sys, pyramid.ID.Name)
			case "base_raster":
				values[i] = lit(sys, pyramid.ID.Qualifier)
			case "geometry":
				values[i] = lit(sys, lvl.Geometry.Qualifier)
			case "resolution_x":
				values[i] = num(lvl.ResolutionX)
			case "resolution_y":
				values[i] = num(lvl.ResolutionY)
			default:
				values[i] = "NULL"
			}
		}
		stmts = append(stmts, "INSERT INTO "+SQLQualified(sys, *reg)+" ("+sqlColumnList(sys, names)+") VALUES ("+strings.Join(values, ", ")+")")
	}
	return pyramid, stmts, nil
}

func rasterColumn(tbl TableDetail[ColumnDetail], name string) string {
	for _, c := range tbl.Columns {
		if strings.EqualFold(c.Name, name) {
			return c.Name
		}
	}
	return name
}
