package rdbms

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func roadsDetail(sys Dialect, geometry string) TableDetail[ColumnDetail] {
	col := func(name, typ string, srid int) ColumnDetail {
		return ColumnDetail{
			Name:          name,
			Type:          Identifier{Name: typ},
			LowerCaseType: Identifier{Name: typ},
			SRID:          srid,
			EPSG:          srid,
		}
	}
	integer, text := "int8", "varchar"
	switch sys {
	case MSSQL, MySQL:
		integer = "bigint"
	case Oracle:
		integer, text = "binary_double", "nvarchar2"
	case SQLite:
		integer, text = "integer", "text"
	}
	return TableDetail[ColumnDetail]{
		ID: roads,
		Columns: []ColumnDetail{
			col("id", integer, -1),
			col("name", text, -1),
			col("geom", geometry, 3857),
			col("doc", "tsvector", -1),
		},
	}
}

func TestStmtSelect(t *testing.T) {
	t.Parallel()

	box := &Envelope{MinX: 0, MinY: 0, MaxX: 10, MaxY: 5}
	table := []struct {
		desc     string
		sys      Dialect
		geometry string
		opts     SelectOptions
		expected string
	}{
		{
			desc:     "postgres every column",
			sys:      Postgres,
			geometry: "geometry",
			expected: `SELECT "id", "name", ST_AsBinary("geom") AS "geom" FROM "gis"."roads"`,
		},
		{
			desc:     "postgres box and limit",
			sys:      Postgres,
			geometry: "geometry",
			opts:     SelectOptions{Rows: 10, Geometry: "geom", Box: box},
			expected: `SELECT "id", "name", ST_AsBinary("geom") AS "geom" FROM "gis"."roads" WHERE "geom" && ST_MakeEnvelope(0, 0, 10, 5, 3857) LIMIT 10`,
		},
		{
			desc:     "mssql top and filter",
			sys:      MSSQL,
			geometry: "geometry",
			opts:     SelectOptions{Columns: []string{"geom", "id"}, Rows: 3, Geometry: "geom", Box: box},
			expected: "SELECT TOP 3 [geom].STAsBinary() AS [geom], [id] FROM [gis].[roads] WHERE [geom].Filter(geometry::STGeomFromText('POLYGON ((0 0, 10 0, 10 5, 0 5, 0 0))', 3857)) = 1",
		},
		{
			desc:     "oracle rownum",
			sys:      Oracle,
			geometry: "sdo_geometry",
			opts:     SelectOptions{Columns: []string{"id"}, Rows: 5, Geometry: "geom", Box: box},
			expected: `SELECT "id" FROM "gis"."roads" WHERE SDO_FILTER("geom", SDO_GEOMETRY(2003, 3857, NULL, SDO_ELEM_INFO_ARRAY(1, 1003, 3), SDO_ORDINATE_ARRAY(0, 0, 10, 5))) = 'TRUE' AND ROWNUM <= 5`,
		},
		{
			desc:     "sqlite drops the schema",
			sys:      SQLite,
			geometry: "point",
			opts:     SelectOptions{Rows: 1, Geometry: "geom", Box: box},
			expected: `SELECT "id", "name", AsBinary("geom") AS "geom" FROM "roads" WHERE MbrIntersects("geom", BuildMbr(0, 0, 10, 5)) LIMIT 1`,
		},
		{
			desc:     "mysql limit without box",
			sys:      MySQL,
			geometry: "geometry",
			opts:     SelectOptions{Columns: []string{"name"}, Rows: 2},
			expected: "SELECT `name` FROM `gis`.`roads` LIMIT 2",
		},
	}
	for _, tc := range table {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			got, err := StmtSelect(tc.sys, roadsDetail(tc.sys, tc.geometry), tc.opts)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(got, tc.expected); diff != "" {
				t.Fatalf("(-got, +want)\n%s", diff)
			}
		})
	}
}

func TestStmtSelectErrors(t *testing.T) {
	t.Parallel()

	box := &Envelope{MaxX: 1, MaxY: 1}
	table := []struct {
		desc string
		sys  Dialect
		opts SelectOptions
	}{
		{desc: "unknown column", sys: Postgres, opts: SelectOptions{Columns: []string{"missing"}}},
		{desc: "column without portable type", sys: Postgres, opts: SelectOptions{Columns: []string{"doc"}}},
		{desc: "box on text", sys: Postgres, opts: SelectOptions{Geometry: "name", Box: box}},
		{desc: "box without column", sys: Postgres, opts: SelectOptions{Box: box}},
		{desc: "unknown dialect", sys: VoidSystem},
	}
	for _, tc := range table {
		_, err := StmtSelect(tc.sys, roadsDetail(tc.sys, "geometry"), tc.opts)
		if !errors.Is(err, ErrGeneration) {
			t.Fatalf("%s: expected generation error, got %v", tc.desc, err)
		}
	}
}

func TestStmtInsert(t *testing.T) {
	t.Parallel()

	table := []struct {
		desc     string
		sys      Dialect
		geometry string
		cols     []string
		expected string
	}{
		{
			desc:     "postgres numbered parameters",
			sys:      Postgres,
			geometry: "geometry",
			expected: `INSERT INTO "gis"."roads" ("id", "name", "geom") VALUES ($1, $2, ST_GeomFromWKB($3, 3857))`,
		},
		{
			desc:     "mssql named parameters",
			sys:      MSSQL,
			geometry: "geometry",
			cols:     []string{"geom", "id"},
			expected: "INSERT INTO [gis].[roads] ([geom], [id]) VALUES (geometry::STGeomFromWKB(@p1, 3857), @p2)",
		},
		{
			desc:     "mysql",
			sys:      MySQL,
			geometry: "geometry",
			cols:     []string{"name", "geom"},
			expected: "INSERT INTO `gis`.`roads` (`name`, `geom`) VALUES (?, ST_GeomFromWKB(?, 3857))",
		},
		{
			desc:     "sqlite",
			sys:      SQLite,
			geometry: "point",
			cols:     []string{"id", "geom"},
			expected: `INSERT INTO "roads" ("id", "geom") VALUES (?, GeomFromWKB(?, 3857))`,
		},
		{
			desc:     "oracle",
			sys:      Oracle,
			geometry: "sdo_geometry",
			cols:     []string{"geom"},
			expected: `INSERT INTO "gis"."roads" ("geom") VALUES (SDO_GEOMETRY(:1, 3857))`,
		},
	}
	for _, tc := range table {
		got, err := StmtInsert(tc.sys, roadsDetail(tc.sys, tc.geometry), tc.cols)
		if err != nil {
			t.Fatalf("%s: %v", tc.desc, err)
		}
		if diff := cmp.Diff(got, tc.expected); diff != "" {
			t.Fatalf("%s: (-got, +want)\n%s", tc.desc, diff)
		}
	}

	if _, err := StmtInsert(Postgres, roadsDetail(Postgres, "geometry"), []string{"doc"}); !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected generation error, got %v", err)
	}
}

func TestRemoteSelect(t *testing.T) {
	t.Parallel()

	tbl := roadsDetail(Postgres, "geometry")
	q, err := StmtSelect(Postgres, tbl, SelectOptions{Columns: []string{"id", "name"}})
	if err != nil {
		t.Fatal(err)
	}
	cmd := newFake(Postgres, fakeRule{
		match: exact(q),
		rows: [][]Value{
			row(Int64Value(1), TextValue("a1")),
			row(Int64Value(2), TextValue("d8")),
		},
	})

	var got [][]Value
	err = RemoteSelect(cmd, tbl, SelectOptions{Columns: []string{"id", "name"}}, func(r []Value) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	expected := [][]Value{
		row(Int64Value(1), TextValue("a1")),
		row(Int64Value(2), TextValue("d8")),
	}
	if diff := cmp.Diff(got, expected); diff != "" {
		t.Fatalf("(-got, +want)\n%s", diff)
	}

	if err = RemoteSelect(cmd, tbl, SelectOptions{Columns: []string{"missing"}}, nil); !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected generation error, got %v", err)
	}
	if len(cmd.execd) != 1 {
		t.Fatalf("a failed generation reached the database: %v", cmd.execd)
	}
}
