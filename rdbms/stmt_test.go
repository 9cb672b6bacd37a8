package rdbms

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func mbr(t *testing.T, e Envelope) Value {
	t.Helper()
	b, err := EnvelopeWKB(e)
	if err != nil {
		t.Fatal(err)
	}
	return BlobValue(b)
}

func TestStmtCreateTable(t *testing.T) {
	t.Parallel()

	table := []struct {
		desc     string
		sys      Dialect
		in       TableDefinition
		expected []string
		indexes  []Identifier
	}{
		{
			desc: "postgres registers geometry and names indexes",
			sys:  Postgres,
			in: TableDefinition{
				ID: Identifier{Schema: "GIS", Name: "Roads"},
				Columns: []ColumnDefinition{
					{Name: "id", Type: Integer},
					{Name: "name", Type: String, Chars: 40},
					{Name: "geom", Type: Geometry, EPSG: 4326},
				},
				Indexes: []IndexDefinition{
					{Type: Primary, Columns: []string{"id"}},
					{Type: Spatial, Columns: []string{"geom"}},
					{Type: Duplicate, Columns: []string{"name"}},
				},
			},
			expected: []string{
				`CREATE TABLE "gis"."roads" ("id" BIGINT, "name" VARCHAR(40), PRIMARY KEY ("id"))`,
				`SELECT AddGeometryColumn('gis', 'roads', 'geom', (SELECT SRID FROM PUBLIC.SPATIAL_REF_SYS WHERE AUTH_NAME LIKE 'EPSG' AND AUTH_SRID = 4326 ORDER BY SRID FETCH FIRST 1 ROWS ONLY), 'GEOMETRY', 2)`,
				`CREATE INDEX "roads_idx_1" ON "gis"."roads" USING GIST("geom")`,
				`CREATE INDEX "roads_idx_2" ON "gis"."roads" ("name")`,
			},
			indexes: []Identifier{{}, {Name: "roads_idx_1"}, {Name: "roads_idx_2"}},
		},
		{
			desc: "mssql promotes unique to primary and grids the spatial index",
			sys:  MSSQL,
			in: TableDefinition{
				ID: Identifier{Name: "t"},
				Columns: []ColumnDefinition{
					{Name: "name", Type: String},
					{Name: "geom", Type: Geometry, Query: mbr(t, Envelope{MinX: 0, MinY: 0, MaxX: 10, MaxY: 20.5})},
				},
				Indexes: []IndexDefinition{
					{Type: Unique, Columns: []string{"name"}},
					{Type: Spatial, Columns: []string{"geom"}},
				},
			},
			expected: []string{
				`CREATE TABLE [t] ([name] NVARCHAR(250), [geom] GEOMETRY, PRIMARY KEY ([name]))`,
				`CREATE SPATIAL INDEX [t_idx_1] ON [t] ([geom]) USING GEOMETRY_GRID WITH (BOUNDING_BOX = (0, 0, 10, 20.5))`,
			},
			indexes: []Identifier{{}, {Name: "t_idx_1"}},
		},
		{
			desc: "mssql without a key gets an identity column",
			sys:  MSSQL,
			in: TableDefinition{
				ID:      Identifier{Name: "t"},
				Columns: []ColumnDefinition{{Name: "a", Type: Integer}},
			},
			expected: []string{
				`CREATE TABLE [t] (ID BIGINT IDENTITY PRIMARY KEY, [a] BIGINT)`,
			},
			indexes: []Identifier{},
		},
		{
			desc: "db2 forces not null on key columns",
			sys:  DB2,
			in: TableDefinition{
				ID: Identifier{Name: "Pts"},
				Columns: []ColumnDefinition{
					{Name: "id", Type: Integer},
					{Name: "g", Type: Geometry},
				},
				Indexes: []IndexDefinition{
					{Type: Primary, Columns: []string{"id"}},
					{Type: Spatial, Columns: []string{"g"}},
				},
			},
			expected: []string{
				`CREATE TABLE "PTS" ("ID" BIGINT NOT NULL, "G" DB2GSE.ST_GEOMETRY, PRIMARY KEY ("ID"))`,
				`BEGIN ATOMIC DECLARE msg_code INTEGER; DECLARE msg_text VARCHAR(1024); call DB2GSE.ST_register_spatial_column(NULL, 'PTS', 'G', 'DEFAULT_SRS', msg_code, msg_text); END`,
				`CREATE INDEX "PTS_idx_1" ON "PTS" ("G") EXTEND USING DB2GSE.SPATIAL_INDEX (1, 0, 0)`,
			},
			indexes: []Identifier{{}, {Name: "PTS_idx_1"}},
		},
		{
			desc: "mysql spatial columns are not null and tables are myisam",
			sys:  MySQL,
			in: TableDefinition{
				ID:      Identifier{Name: "t"},
				Columns: []ColumnDefinition{{Name: "g", Type: Geometry}},
				Indexes: []IndexDefinition{{Type: Spatial, Columns: []string{"g"}}},
			},
			expected: []string{
				"CREATE TABLE `t` (`g` GEOMETRY NOT NULL) ENGINE = MyISAM",
				"CREATE SPATIAL INDEX `t_idx_1` ON `t` (`g`)",
			},
			indexes: []Identifier{{Name: "t_idx_1"}},
		},
		{
			desc: "sqlite drops the schema and lets spatialite name the index",
			sys:  SQLite,
			in: TableDefinition{
				ID: Identifier{Schema: "main", Name: "t"},
				Columns: []ColumnDefinition{
					{Name: "id", Type: Integer},
					{Name: "g", Type: Geometry, EPSG: 4326},
				},
				Indexes: []IndexDefinition{{Type: Spatial, Columns: []string{"g"}}},
			},
			expected: []string{
				`CREATE TABLE "t" ("id" INTEGER)`,
				`SELECT AddGeometryColumn('t', 'g', (SELECT SRID FROM SPATIAL_REF_SYS WHERE AUTH_NAME LIKE 'EPSG' AND AUTH_SRID = 4326 ORDER BY SRID LIMIT 1), 'GEOMETRY', 2)`,
				`SELECT CreateSpatialIndex('t', 'g')`,
			},
			indexes: []Identifier{{}},
		},
		{
			desc: "oracle adds a guid key and geometry metadata",
			sys:  Oracle,
			in: TableDefinition{
				ID: Identifier{Name: "t"},
				Columns: []ColumnDefinition{
					{Name: "g", Type: Geometry, Query: mbr(t, Envelope{MinX: 1, MinY: 2, MaxX: 3, MaxY: 4})},
				},
			},
			expected: []string{
				`CREATE TABLE "T" (ID NVARCHAR2(32) DEFAULT SYS_GUID() PRIMARY KEY, "G" MDSYS.SDO_GEOMETRY)`,
				`BEGIN DELETE FROM MDSYS.USER_SDO_GEOM_METADATA WHERE TABLE_NAME = 'T' AND COLUMN_NAME = 'G'; INSERT INTO MDSYS.USER_SDO_GEOM_METADATA (TABLE_NAME, COLUMN_NAME, DIMINFO, SRID) VALUES ('T', 'G', MDSYS.SDO_DIM_ARRAY(MDSYS.SDO_DIM_ELEMENT('X', 1, 3, 0.000001), MDSYS.SDO_DIM_ELEMENT('Y', 2, 4, 0.000001)), NULL); END;`,
			},
			indexes: []Identifier{},
		},
		{
			desc: "void columns and the indexes on them are pruned",
			sys:  Postgres,
			in: TableDefinition{
				ID: Identifier{Name: "t"},
				Columns: []ColumnDefinition{
					{Name: "a", Type: Integer},
					{Name: "b"},
				},
				Indexes: []IndexDefinition{
					{Type: Unique, Columns: []string{"a", "b"}},
					{Type: Duplicate},
					{Type: Duplicate, Columns: []string{"a"}},
				},
			},
			expected: []string{
				`CREATE TABLE "t" ("a" BIGINT)`,
				`CREATE INDEX "t_idx_1" ON "t" ("a")`,
			},
			indexes: []Identifier{{Name: "t_idx_1"}},
		},
		{
			desc:     "postgres accepts a table without columns",
			sys:      Postgres,
			in:       TableDefinition{ID: Identifier{Name: "t"}},
			expected: []string{`CREATE TABLE "t" ()`},
			indexes:  []Identifier{},
		},
	}

	for _, tc := range table {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			before := tc.in.Clone()
			def, got, err := StmtCreateTable(tc.sys, tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(got, tc.expected); diff != "" {
				t.Fatalf("(-got, +want)\n%s", diff)
			}
			ids := []Identifier{}
			for _, idx := range def.Indexes {
				ids = append(ids, idx.ID)
			}
			if diff := cmp.Diff(ids, tc.indexes); diff != "" {
				t.Fatalf("index ids (-got, +want)\n%s", diff)
			}
			if diff := cmp.Diff(tc.in, before, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("input was modified (-got, +want)\n%s", diff)
			}
		})
	}
}

func TestStmtCreateTableErrors(t *testing.T) {
	t.Parallel()

	geom := func(sys Dialect, idx ...IndexDefinition) TableDefinition {
		return TableDefinition{
			ID: Identifier{Name: "t"},
			Columns: []ColumnDefinition{
				{Name: "a", Type: String},
				{Name: "g", Type: Geometry},
			},
			Indexes: idx,
		}
	}

	table := []struct {
		desc string
		sys  Dialect
		in   TableDefinition
	}{
		{desc: "unknown dialect", sys: VoidSystem, in: geom(VoidSystem)},
		{desc: "cubrid has no geometry", sys: CUBRID, in: geom(CUBRID)},
		{desc: "oracle needs an envelope", sys: Oracle, in: geom(Oracle)},
		{desc: "mssql spatial index needs an envelope", sys: MSSQL, in: geom(MSSQL, IndexDefinition{Type: Spatial, Columns: []string{"g"}})},
		{desc: "ingres spatial index needs an envelope", sys: Ingres, in: geom(Ingres, IndexDefinition{Type: Spatial, Columns: []string{"g"}})},
		{desc: "spatial index on text", sys: Postgres, in: geom(Postgres, IndexDefinition{Type: Spatial, Columns: []string{"a"}})},
		{desc: "spatial index on two columns", sys: MySQL, in: geom(MySQL, IndexDefinition{Type: Spatial, Columns: []string{"a", "g"}})},
		{desc: "mysql without columns", sys: MySQL, in: TableDefinition{ID: Identifier{Name: "t"}}},
	}

	for _, tc := range table {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			_, got, err := StmtCreateTable(tc.sys, tc.in)
			if !errors.Is(err, ErrGeneration) {
				t.Fatalf("expected generation error, got %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("statements returned with an error: %v", got)
			}
		})
	}
}

func TestStmtDropTable(t *testing.T) {
	t.Parallel()

	detail := func(typ string) TableDetail[ColumnDetail] {
		return TableDetail[ColumnDetail]{
			ID: Identifier{Schema: "main", Name: "t"},
			Columns: []ColumnDetail{
				{Name: "id", Type: Identifier{Name: "INTEGER"}},
				{Name: "g", Type: Identifier{Name: typ}},
			},
		}
	}

	table := []struct {
		desc     string
		sys      Dialect
		in       TableDetail[ColumnDetail]
		expected []string
	}{
		{
			desc: "sqlite discards spatialite metadata first",
			sys:  SQLite,
			in:   detail("POINT"),
			expected: []string{
				`SELECT DisableSpatialIndex('t', 'g')`,
				`DROP TABLE IF EXISTS "idx_t_g"`,
				`SELECT DiscardGeometryColumn('t', 'g')`,
				`DROP TABLE "t"`,
			},
		},
		{
			desc:     "postgres drops the table only",
			sys:      Postgres,
			in:       detail("geometry"),
			expected: []string{`DROP TABLE "main"."t"`},
		},
		{
			desc: "oracle deletes geometry metadata",
			sys:  Oracle,
			in: TableDetail[ColumnDetail]{
				ID:      Identifier{Schema: "GIS", Name: "T"},
				Columns: []ColumnDetail{{Name: "G", Type: Identifier{Schema: "MDSYS", Name: "SDO_GEOMETRY"}}},
			},
			expected: []string{
				`DELETE FROM MDSYS.USER_SDO_GEOM_METADATA WHERE TABLE_NAME = 'T' AND COLUMN_NAME = 'G'`,
				`DROP TABLE "GIS"."T"`,
			},
		},
	}

	for _, tc := range table {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			got := StmtDropTable(tc.sys, tc.in)
			if diff := cmp.Diff(got, tc.expected); diff != "" {
				t.Fatalf("(-got, +want)\n%s", diff)
			}
		})
	}
}

var allDialects = []Dialect{CUBRID, DB2, Informix, Ingres, MSSQL, MySQL, Oracle, Postgres, SQLite}

func TestProperty_ColumnTypeToken(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every pair yields a token or an error, never both or neither", prop.ForAll(
		func(d, c, width int) bool {
			tok, err := ColumnTypeToken(allDialects[d], ColumnType(c), width)
			return (tok == "") == (err != nil)
		},
		gen.IntRange(0, len(allDialects)-1),
		gen.IntRange(int(Blob), int(String)),
		gen.IntRange(-10, 1000),
	))

	properties.Property("string widths are clamped to the chars limit", prop.ForAll(
		func(width int) bool {
			tok, err := ColumnTypeToken(MSSQL, String, width)
			if err != nil {
				return false
			}
			want := width
			if width <= 0 || width >= CharsLimit {
				want = CharsLimit
			}
			return tok == "NVARCHAR("+strconv.Itoa(want)+")"
		},
		gen.IntRange(-10, 1000),
	))

	properties.Property("index columns follow the normalized column names", prop.ForAll(
		func(names []string) bool {
			seen := map[string]bool{}
			tbl := TableDefinition{ID: Identifier{Name: "T"}}
			for _, n := range names {
				if seen[strings.ToLower(n)] {
					continue
				}
				seen[strings.ToLower(n)] = true
				tbl.Columns = append(tbl.Columns, ColumnDefinition{Name: n, Type: Integer})
				tbl.Indexes = append(tbl.Indexes, IndexDefinition{Type: Duplicate, Columns: []string{n}})
			}
			for _, sys := range []Dialect{Oracle, Postgres} {
				def, _, err := StmtCreateTable(sys, tbl)
				if err != nil {
					return false
				}
				for _, idx := range def.Indexes {
					if def.column(idx.Columns[0]) == nil {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(5, gen.Identifier()),
	))

	properties.TestingRun(t)
}
