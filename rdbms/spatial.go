package rdbms

import (
	"fmt"
	"strconv"

	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geom/encoding/wkt"
)

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

/*
	EnvelopeOf computes the bounding box of a WKB payload.
	Postgres payloads may carry an SRID (EWKB), plain WKB decodes through
	the same path.
*/
func EnvelopeOf(sys Dialect, v Value) (Envelope, error) {
	g, err := decodeGeometry(sys, v)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMBR, err)
	}
	bounds := g.Bounds()
	if bounds == nil || bounds.IsEmpty() {
		return Envelope{}, fmt.Errorf("%w: empty geometry", ErrMBR)
	}
	return Envelope{
		MinX: bounds.Min(0),
		MinY: bounds.Min(1),
		MaxX: bounds.Max(0),
		MaxY: bounds.Max(1),
	}, nil
}

func decodeGeometry(sys Dialect, v Value) (geom.T, error) {
	b, ok := v.(BlobValue)
	if !ok || len(b) == 0 {
		return nil, fmt.Errorf("no geometry payload")
	}
	if sys == Postgres {
		return ewkb.Unmarshal(b)
	}
	return wkb.Unmarshal(b)
}

// GeometryWKT renders a WKB payload as text.
func GeometryWKT(sys Dialect, v Value) (string, error) {
	g, err := decodeGeometry(sys, v)
	if err != nil {
		return "", err
	}
	return wkt.Marshal(g)
}

func envelopePolygon(e Envelope) (*geom.Polygon, error) {
	return geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{{
		{e.MinX, e.MinY},
		{e.MaxX, e.MinY},
		{e.MaxX, e.MaxY},
		{e.MinX, e.MaxY},
		{e.MinX, e.MinY},
	}})
}

// EnvelopeWKB encodes the box as a little endian WKB polygon.
func EnvelopeWKB(e Envelope) ([]byte, error) {
	p, err := envelopePolygon(e)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(p, wkb.NDR)
}

func envelopeWKT(e Envelope) (string, error) {
	p, err := envelopePolygon(e)
	if err != nil {
		return "", err
	}
	return wkt.Marshal(p)
}

func requireEnvelope(sys Dialect, col *ColumnDefinition) (Envelope, error) {
	e, err := EnvelopeOf(sys, col.Query)
	if err != nil {
		return Envelope{}, errGeneration("column %s needs an envelope: %v", col.Name, err)
	}
	return e, nil
}

func srsQuery(sys Dialect, epsg int) string {
	e := strconv.Itoa(epsg)
	switch sys {
	case DB2:
		if epsg <= 0 {
			return "'DEFAULT_SRS'"
		}
		return "(SELECT SRS_NAME FROM DB2GSE.ST_SPATIAL_REFERENCE_SYSTEMS WHERE ORGANIZATION LIKE 'EPSG' AND ORGANIZATION_COORDSYS_ID = " + e + " ORDER BY SRS_ID FETCH FIRST 1 ROWS ONLY)"
	case Oracle:
		if epsg <= 0 {
			return "NULL"
		}
		return "(SELECT SRID FROM MDSYS.SDO_COORD_REF_SYS WHERE DATA_SOURCE LIKE 'EPSG' AND SRID = " + e + " AND ROWNUM <= 1)"
	case Postgres:
		if epsg <= 0 {
			return "0"
		}
		return "(SELECT SRID FROM PUBLIC.SPATIAL_REF_SYS WHERE AUTH_NAME LIKE 'EPSG' AND AUTH_SRID = " + e + " ORDER BY SRID FETCH FIRST 1 ROWS ONLY)"
	case SQLite:
		if epsg <= 0 {
			return "-1"
		}
		return "(SELECT SRID FROM SPATIAL_REF_SYS WHERE AUTH_NAME LIKE 'EPSG' AND AUTH_SRID = " + e + " ORDER BY SRID LIMIT 1)"
	}
	return e
}

// sqlRegisterGeometry returns the spatial metadata statement of a geometry column, empty when none is needed.
func sqlRegisterGeometry(sys Dialect, tbl Identifier, col *ColumnDefinition) (string, error) {
	switch sys {
	case CUBRID, VoidSystem:
		return "", errGeneration("no geometry support in %s", sys)
	case DB2:
		scm := "NULL"
		if tbl.Schema != "" {
			scm = lit(sys, tbl.Schema)
		}
		return "BEGIN ATOMIC DECLARE msg_code INTEGER; DECLARE msg_text VARCHAR(1024); call DB2GSE.ST_register_spatial_column(" +
			scm + ", " + lit(sys, tbl.Name) + ", " + lit(sys, col.Name) + ", " + srsQuery(sys, col.EPSG) + ", msg_code, msg_text); END", nil
	case Oracle:
		e, err := requireEnvelope(sys, col)
		if err != nil {
			return "", err
		}
		const eps = "0.000001"
		t, c := lit(sys, tbl.Name), lit(sys, col.Name)
		return "BEGIN DELETE FROM MDSYS.USER_SDO_GEOM_METADATA WHERE TABLE_NAME = " + t + " AND COLUMN_NAME = " + c +
			"; INSERT INTO MDSYS.USER_SDO_GEOM_METADATA (TABLE_NAME, COLUMN_NAME, DIMINFO, SRID) VALUES (" + t + ", " + c +
			", MDSYS.SDO_DIM_ARRAY(MDSYS.SDO_DIM_ELEMENT('X', " + num(e.MinX) + ", " + num(e.MaxX) + ", " + eps +
			"), MDSYS.SDO_DIM_ELEMENT('Y', " + num(e.MinY) + ", " + num(e.MaxY) + ", " + eps + ")), " +
			srsQuery(sys, col.EPSG) + "); END;", nil
	case Postgres:
		args := lit(sys, tbl.Name) + ", " + lit(sys, col.Name)
		if tbl.Schema != "" {
			args = lit(sys, tbl.Schema) + ", " + args
		}
		return "SELECT AddGeometryColumn(" + args + ", " + srsQuery(sys, col.EPSG) + ", 'GEOMETRY', 2)", nil
	case SQLite:
		return "SELECT AddGeometryColumn(" + lit(sys, tbl.Name) + ", " + lit(sys, col.Name) + ", " + srsQuery(sys, col.EPSG) + ", 'GEOMETRY', 2)", nil
	case Informix, Ingres, MSSQL, MySQL:
		return "", nil
	}
	return "", nil
}

/*
	sqlSpatialIndex builds the spatial index statement of one column.
	named is false when the dialect manages the index name itself.
*/
func sqlSpatialIndex(sys Dialect, tbl Identifier, name string, col *ColumnDefinition) (stmt string, named bool, err error) {
	on := " ON " + SQLQualified(sys, tbl) + " (" + SQLIdentifier(sys, col.Name) + ")"
	idx := SQLIdentifier(sys, name)
	switch sys {
	case CUBRID, VoidSystem:
		return "", false, errGeneration("no spatial index in %s", sys)
	case DB2:
		return "CREATE INDEX " + idx + on + " EXTEND USING DB2GSE.SPATIAL_INDEX (1, 0, 0)", true, nil
	case Informix:
		return "CREATE INDEX " + idx + " ON " + SQLQualified(sys, tbl) + " (" + SQLIdentifier(sys, col.Name) + " ST_Geometry_ops) USING RTREE", true, nil
	case Ingres:
		e, err := requireEnvelope(sys, col)
		if err != nil {
			return "", false, err
		}
		return "CREATE INDEX " + idx + on + " WITH STRUCTURE = RTREE, RANGE = ((" +
			num(e.MinX) + ", " + num(e.MinY) + "), (" + num(e.MaxX) + ", " + num(e.MaxY) + "))", true, nil
	case MSSQL:
		e, err := requireEnvelope(sys, col)
		if err != nil {
			return "", false, err
		}
		return "CREATE SPATIAL INDEX " + idx + on + " USING GEOMETRY_GRID WITH (BOUNDING_BOX = (" +
			num(e.MinX) + ", " + num(e.MinY) + ", " + num(e.MaxX) + ", " + num(e.MaxY) + "))", true, nil
	case MySQL:
		return "CREATE SPATIAL INDEX " + idx + on, true, nil
	case Oracle:
		return "CREATE INDEX " + idx + on + " INDEXTYPE IS MDSYS.SPATIAL_INDEX", true, nil
	case Postgres:
		return "CREATE INDEX " + idx + " ON " + SQLQualified(sys, tbl) + " USING GIST(" + SQLIdentifier(sys, col.Name) + ")", true, nil
	case SQLite:
		return "SELECT CreateSpatialIndex(" + lit(sys, tbl.Name) + ", " + lit(sys, col.Name) + ")", false, nil
	}
	return "", false, nil
}

// sqlUnregisterGeometry undoes sqlRegisterGeometry and sqlSpatialIndex where dropping the table does not.
func sqlUnregisterGeometry(sys Dialect, tbl Identifier, col string) []string {
	switch sys {
	case DB2:
		scm := "NULL"
		if tbl.Schema != "" {
			scm = lit(sys, tbl.Schema)
		}
		return []string{"BEGIN ATOMIC DECLARE msg_code INTEGER; DECLARE msg_text VARCHAR(1024); call DB2GSE.ST_unregister_spatial_column(" +
			scm + ", " + lit(sys, tbl.Name) + ", " + lit(sys, col) + ", msg_code, msg_text); END"}
	case Oracle:
		return []string{"DELETE FROM MDSYS.USER_SDO_GEOM_METADATA WHERE TABLE_NAME = " + lit(sys, tbl.Name) + " AND COLUMN_NAME = " + lit(sys, col)}
	case SQLite:
		t, c := lit(sys, tbl.Name), lit(sys, col)
		return []string{
			"SELECT DisableSpatialIndex(" + t + ", " + c + ")",
			"DROP TABLE IF EXISTS " + SQLIdentifier(sys, "idx_"+tbl.Name+"_"+col),
			"SELECT DiscardGeometryColumn(" + t + ", " + c + ")",
		}
	case CUBRID, Informix, Ingres, MSSQL, MySQL, Postgres, VoidSystem:
		return nil
	}
	return nil
}
