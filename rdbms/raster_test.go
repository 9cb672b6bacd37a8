package rdbms

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// pyramid tags its single level with the source it came from
func pyramid(name string, source float64) RasterPyramid {
	return RasterPyramid{
		ID:     Identifier{Schema: "public", Name: name, Qualifier: "rast"},
		Levels: []RasterLevel{{ResolutionX: source}},
	}
}

func pyramidNames(r []RasterPyramid) []string {
	ret := []string{}
	for _, p := range r {
		ret = append(ret, p.ID.Name)
	}
	return ret
}

func TestMergeRasters(t *testing.T) {
	t.Parallel()

	got := mergeRasters(
		[]RasterPyramid{pyramid("a", 1), pyramid("c", 1)},
		[]RasterPyramid{pyramid("b", 2), pyramid("d", 2)},
	)
	if diff := cmp.Diff(pyramidNames(got), []string{"a", "b", "c", "d"}); diff != "" {
		t.Fatalf("(-got, +want)\n%s", diff)
	}

	got = mergeRasters(nil, []RasterPyramid{pyramid("a", 2)})
	if diff := cmp.Diff(pyramidNames(got), []string{"a"}); diff != "" {
		t.Fatalf("(-got, +want)\n%s", diff)
	}
}

func TestProperty_MergeRasters(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	build := func(names []string, source float64) []RasterPyramid {
		ret := make([]RasterPyramid, len(names))
		for i, n := range names {
			ret[i] = pyramid(n, source)
		}
		sortRasters(ret)
		return ret
	}
	name := gen.OneConstOf("a", "b", "c", "d", "e")

	properties.Property("merge keeps every entry in order with native first on ties", prop.ForAll(
		func(native, simple []string) bool {
			got := mergeRasters(build(native, 1), build(simple, 2))
			if len(got) != len(native)+len(simple) {
				return false
			}
			for i := 1; i < len(got); i++ {
				a, b := got[i-1], got[i]
				if b.ID.Less(a.ID) {
					return false
				}
				if a.ID == b.ID && a.Levels[0].ResolutionX > b.Levels[0].ResolutionX {
					return false
				}
			}
			return true
		},
		gen.SliceOf(name),
		gen.SliceOf(name),
	))

	properties.TestingRun(t)
}

func TestRasterGrouper(t *testing.T) {
	t.Parallel()

	var g rasterGrouper
	rows := [][]Value{
		row(TextValue("s"), TextValue("dem"), TextValue("rast"), DoubleValue(10), DoubleValue(10), TextValue("s"), TextValue("dem"), TextValue("rast"), TextValue("rast")),
		row(TextValue("s"), TextValue("dem"), TextValue("rast"), DoubleValue(20), DoubleValue(20), TextValue("s"), TextValue("o_2_dem"), TextValue("rast"), TextValue("rast")),
		row(TextValue("s"), TextValue("hill"), TextValue("rast"), Int32Value(5), Int32Value(5), TextValue("s"), TextValue("hill"), TextValue("rast"), TextValue("rast")),
	}
	for _, r := range rows {
		if err := g.add(r); err != nil {
			t.Fatal(err)
		}
	}
	got := g.result()

	expected := []RasterPyramid{
		{
			ID: Identifier{Schema: "s", Name: "dem", Qualifier: "rast"},
			Levels: []RasterLevel{
				{ResolutionX: 10, ResolutionY: 10, Geometry: Identifier{Schema: "s", Name: "dem", Qualifier: "rast"}, Raster: ColumnDefinition{Name: "rast", Type: Blob}},
				{ResolutionX: 20, ResolutionY: 20, Geometry: Identifier{Schema: "s", Name: "o_2_dem", Qualifier: "rast"}, Raster: ColumnDefinition{Name: "rast", Type: Blob}},
			},
		},
		{
			ID: Identifier{Schema: "s", Name: "hill", Qualifier: "rast"},
			Levels: []RasterLevel{
				{ResolutionX: 5, ResolutionY: 5, Geometry: Identifier{Schema: "s", Name: "hill", Qualifier: "rast"}, Raster: ColumnDefinition{Name: "rast", Type: Blob}},
			},
		},
	}
	if diff := cmp.Diff(got, expected); diff != "" {
		t.Fatalf("(-got, +want)\n%s", diff)
	}
}

var registry = Identifier{Schema: "public", Name: "simple_rasters"}

func registryColumns(sys Dialect, names ...string) [][]Value {
	var ret [][]Value
	for _, n := range names {
		ret = append(ret, row(TextValue(n), TextValue(""), TextValue("text"), Int32Value(0), Int32Value(0), Int32Value(0)))
	}
	return ret
}

func TestRasterDiscover(t *testing.T) {
	t.Parallel()

	cmd := newFake(Postgres,
		fakeRule{match: contains("relname = 'raster_columns'"), rows: [][]Value{row(Int32Value(1))}},
		fakeRule{
			match: exact(SQLRasters(Postgres)),
			rows: [][]Value{
				row(TextValue("public"), TextValue("dem"), TextValue("rast"), DoubleValue(10), DoubleValue(10), TextValue("public"), TextValue("dem"), TextValue("rast"), TextValue("rast")),
				row(TextValue("public"), TextValue("dem"), TextValue("rast"), DoubleValue(20), DoubleValue(20), TextValue("public"), TextValue("o_2_dem"), TextValue("rast"), TextValue("rast")),
			},
		},
		fakeRule{
			match: contains("LOWER(t.tbl) = 'simple_rasters'"),
			rows:  [][]Value{row(TextValue("public"), TextValue("simple_rasters"))},
		},
		fakeRule{
			match: exact(SQLColumns(Postgres, registry)),
			rows:  registryColumns(Postgres, simpleRastersNames[:]...),
		},
		fakeRule{
			match: contains(`FROM "public"."simple_rasters" r JOIN`),
			rows: [][]Value{
				row(TextValue("public"), TextValue("aaa"), TextValue("r"), DoubleValue(1), DoubleValue(1), TextValue("public"), TextValue("aaa_t"), TextValue("g"), TextValue("r")),
				row(TextValue("public"), TextValue("dem"), TextValue("rast"), DoubleValue(10), DoubleValue(10), TextValue("public"), TextValue("dem_tiles"), TextValue("geom"), TextValue("rast")),
			},
		},
	)

	got, err := RasterDiscover(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(pyramidNames(got), []string{"aaa", "dem", "dem"}); diff != "" {
		t.Fatalf("(-got, +want)\n%s", diff)
	}
	native := got[1]
	if len(native.Levels) != 2 || native.Levels[1].Geometry != (Identifier{Schema: "public", Name: "o_2_dem", Qualifier: "rast"}) {
		t.Fatalf("native pyramid should come first: %+v", native)
	}
	if got[2].Levels[0].Geometry.Name != "dem_tiles" {
		t.Fatalf("registry pyramid should come second: %+v", got[2])
	}
}

func TestRasterDiscoverAmbiguous(t *testing.T) {
	t.Parallel()

	cmd := newFake(MSSQL, fakeRule{
		match: contains("LOWER(t.tbl) = 'simple_rasters'"),
		rows: [][]Value{
			row(TextValue("a"), TextValue("simple_rasters")),
			row(TextValue("b"), TextValue("SIMPLE_RASTERS")),
		},
	})
	if _, err := RasterDiscover(cmd); !errors.Is(err, ErrAmbiguousRegistry) {
		t.Fatalf("expected ambiguous registry, got %v", err)
	}
	if _, _, err := RasterRegister(cmd, pyramid("a", 1)); !errors.Is(err, ErrAmbiguousRegistry) {
		t.Fatalf("expected ambiguous registry, got %v", err)
	}
}

func TestRasterRegister(t *testing.T) {
	t.Parallel()

	cmd := newFake(SQLite,
		fakeRule{
			match: contains("pragma_table_info('simple_rasters')"),
			rows:  registryColumns(SQLite, "table", "raster", "base_table", "base_raster", "geometry", "resolution_x", "resolution_y"),
		},
	)
	in := RasterPyramid{
		Levels: []RasterLevel{
			{ResolutionX: 1.5, ResolutionY: 1.5, Geometry: Identifier{Schema: "x", Name: "dem", Qualifier: "geom"}, Raster: ColumnDefinition{Name: "rast"}},
			{ResolutionX: 3, ResolutionY: 3, Geometry: Identifier{Name: "dem_2", Qualifier: "geom"}, Raster: ColumnDefinition{Name: "rast"}},
		},
	}

	reg, got, err := RasterRegister(cmd, in)
	if err != nil {
		t.Fatal(err)
	}
	if !cmd.ran(`CREATE TABLE "simple_rasters"`) {
		t.Fatalf("registry was not created: %v", cmd.execd)
	}
	if diff := cmp.Diff(reg.ID, Identifier{Name: "dem", Qualifier: "rast"}); diff != "" {
		t.Fatalf("(-got, +want)\n%s", diff)
	}

	expected := []string{
		`DELETE FROM "simple_rasters" WHERE "base_table" = 'dem' AND "base_raster" = 'rast'`,
		`INSERT INTO "simple_rasters" ("table", "raster", "base_table", "base_raster", "geometry", "resolution_x", "resolution_y") VALUES ('dem', 'rast', 'dem', 'rast', 'geom', 1.5, 1.5)`,
		`INSERT INTO "simple_rasters" ("table", "raster", "base_table", "base_raster", "geometry", "resolution_x", "resolution_y") VALUES ('dem_2', 'rast', 'dem', 'rast', 'geom', 3, 3)`,
	}
	if diff := cmp.Diff(got, expected); diff != "" {
		t.Fatalf("(-got, +want)\n%s", diff)
	}
}

func TestRasterRegisterPostgres(t *testing.T) {
	t.Parallel()

	cmd := newFake(Postgres,
		fakeRule{match: exact(SQLSchema(Postgres)), rows: [][]Value{row(TextValue("public"))}},
		fakeRule{
			match: contains("LOWER(t.tbl) = 'simple_rasters'"),
			rows:  [][]Value{row(TextValue("public"), TextValue("simple_rasters"))},
		},
		fakeRule{
			match: exact(SQLColumns(Postgres, registry)),
			rows:  registryColumns(Postgres, simpleRastersNames[:]...),
		},
	)
	in := RasterPyramid{Levels: []RasterLevel{
		{ResolutionX: 0.25, ResolutionY: 0.5, Geometry: Identifier{Name: "DEM", Qualifier: "geom"}, Raster: ColumnDefinition{Name: "rast"}},
	}}

	_, got, err := RasterRegister(cmd, in)
	if err != nil {
		t.Fatal(err)
	}
	if cmd.ran("CREATE TABLE") {
		t.Fatalf("existing registry was recreated: %v", cmd.execd)
	}
	expected := []string{
		`DELETE FROM "public"."simple_rasters" WHERE "base_schema" = 'public' AND "base_table" = 'dem' AND "base_raster" = 'rast'`,
		`INSERT INTO "public"."simple_rasters" ("schema", "table", "raster", "base_schema", "base_table", "base_raster", "geometry", "resolution_x", "resolution_y") VALUES ('public', 'dem', 'rast', 'public', 'dem', 'rast', 'geom', 0.25, 0.5)`,
	}
	if diff := cmp.Diff(got, expected); diff != "" {
		t.Fatalf("(-got, +want)\n%s", diff)
	}
}

func TestRasterRegisterEmpty(t *testing.T) {
	t.Parallel()

	if _, _, err := RasterRegister(newFake(Postgres), RasterPyramid{}); !errors.Is(err, ErrRaster) {
		t.Fatalf("expected raster error, got %v", err)
	}
}
