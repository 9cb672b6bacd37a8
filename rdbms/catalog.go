package rdbms

import (
	"fmt"
	"strings"
)

/*
	catalog query text.
	every builder returns rows of a fixed positional shape, the shape is written
	above each builder and the mapper in remote.go reads cells by position.
	an empty string means the dialect has nothing to ask.
*/

func lit(sys Dialect, s string) string {
	return SQLLiteral(sys, s)
}

// (scm)
func SQLSchema(sys Dialect) string {
	switch sys {
	case DB2:
		return "SELECT RTRIM(CURRENT SCHEMA) FROM SYSIBM.SYSDUMMY1"
	case Informix:
		return "SELECT TRIM(USER) FROM systables WHERE tabid = 1"
	case Ingres:
		return "SELECT DBMSINFO('username')"
	case MSSQL:
		return "SELECT SCHEMA_NAME()"
	case MySQL:
		return "SELECT DATABASE()"
	case Oracle:
		return "SELECT SYS_CONTEXT('USERENV', 'CURRENT_SCHEMA') FROM DUAL"
	case Postgres:
		return "SELECT CURRENT_SCHEMA()"
	case CUBRID, SQLite, VoidSystem:
		return ""
	}
	return ""
}

// (scm, tbl) without ORDER BY so it nests as a derived table.
func SQLTables(sys Dialect) string {
	switch sys {
	case CUBRID:
		return "SELECT '' scm, class_name tbl FROM db_class WHERE class_type = 'CLASS' AND is_system_class = 'NO'"
	case DB2:
		return "SELECT RTRIM(TABSCHEMA) scm, TABNAME tbl FROM SYSCAT.TABLES WHERE TYPE = 'T' AND TABSCHEMA NOT LIKE 'SYS%'"
	case Informix:
		return "SELECT TRIM(owner) scm, tabname tbl FROM systables WHERE tabtype = 'T' AND tabid > 99"
	case Ingres:
		return "SELECT TRIM(table_owner) scm, TRIM(table_name) tbl FROM iitables WHERE table_type = 'T' AND system_use = 'U'"
	case MSSQL:
		return "SELECT s.name scm, t.name tbl FROM sys.tables t JOIN sys.schemas s ON s.schema_id = t.schema_id WHERE t.is_ms_shipped = 0"
	case MySQL:
		return "SELECT TABLE_SCHEMA scm, TABLE_NAME tbl FROM information_schema.TABLES WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_SCHEMA NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')"
	case Oracle:
		return "SELECT OWNER scm, TABLE_NAME tbl FROM ALL_TABLES WHERE OWNER NOT IN ('SYS', 'SYSTEM', 'MDSYS', 'CTXSYS', 'XDB', 'OUTLN', 'ORDSYS', 'WMSYS')"
	case Postgres:
		return "SELECT table_schema scm, table_name tbl FROM information_schema.tables WHERE table_type = 'BASE TABLE' AND table_schema NOT IN ('pg_catalog', 'information_schema')"
	case SQLite:
		return `SELECT '' scm, name tbl FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\' AND name NOT LIKE 'idx\_%' ESCAPE '\'`
	case VoidSystem:
		return ""
	}
	return ""
}

// sqlTablesNamed finds a table by case insensitive name in every visible schema.
func sqlTablesNamed(sys Dialect, name string) string {
	return "SELECT t.scm, t.tbl FROM (" + SQLTables(sys) + ") t WHERE LOWER(t.tbl) = " + lit(sys, strings.ToLower(name))
}

// (name, type_schema, type_name, chars, precision, scale) in column order.
func SQLColumns(sys Dialect, id Identifier) string {
	scm, tbl := lit(sys, id.Schema), lit(sys, id.Name)
	switch sys {
	case CUBRID:
		return "SELECT attr_name, '', data_type, prec, prec, scale FROM db_attribute WHERE class_name = " + tbl + " ORDER BY def_order"
	case DB2:
		return "SELECT COLNAME, RTRIM(TYPESCHEMA), TYPENAME, LENGTH, LENGTH, SCALE FROM SYSCAT.COLUMNS WHERE TABSCHEMA = " + scm + " AND TABNAME = " + tbl + " ORDER BY COLNO"
	case Informix:
		return `SELECT c.colname, '', CASE MOD(c.coltype, 256)
WHEN 0 THEN 'char' WHEN 1 THEN 'smallint' WHEN 2 THEN 'integer' WHEN 3 THEN 'float'
WHEN 4 THEN 'smallfloat' WHEN 5 THEN 'decimal' WHEN 6 THEN 'serial' WHEN 8 THEN 'money'
WHEN 11 THEN 'byte' WHEN 13 THEN 'varchar' WHEN 15 THEN 'nchar' WHEN 16 THEN 'nvarchar'
WHEN 17 THEN 'int8' WHEN 18 THEN 'serial8' WHEN 52 THEN 'bigint' WHEN 53 THEN 'bigserial'
ELSE COALESCE(x.name, '') END,
c.collength, TRUNC(c.collength / 256), MOD(c.collength, 256)
FROM syscolumns c JOIN systables t ON t.tabid = c.tabid LEFT JOIN sysxtdtypes x ON x.extended_id = c.extended_id
WHERE t.owner = ` + scm + " AND t.tabname = " + tbl + " ORDER BY c.colno"
	case Ingres:
		return "SELECT TRIM(column_name), '', TRIM(column_datatype), column_length, column_length, column_scale FROM iicolumns WHERE table_owner = " + scm + " AND table_name = " + tbl + " ORDER BY column_sequence"
	case MSSQL:
		return `SELECT c.name, ts.name, t.name,
CASE WHEN t.name IN ('nchar', 'nvarchar') AND c.max_length > 0 THEN c.max_length / 2 ELSE c.max_length END,
c.precision, c.scale
FROM sys.columns c JOIN sys.types t ON t.user_type_id = c.user_type_id JOIN sys.schemas ts ON ts.schema_id = t.schema_id
WHERE c.object_id = OBJECT_ID(` + lit(sys, SQLQualified(sys, id)) + ") ORDER BY c.column_id"
	case MySQL:
		return "SELECT COLUMN_NAME, '', DATA_TYPE, COALESCE(CHARACTER_MAXIMUM_LENGTH, 0), COALESCE(NUMERIC_PRECISION, 0), COALESCE(NUMERIC_SCALE, 0) FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = " + scm + " AND TABLE_NAME = " + tbl + " ORDER BY ORDINAL_POSITION"
	case Oracle:
		return "SELECT COLUMN_NAME, DATA_TYPE_OWNER, DATA_TYPE, CHAR_LENGTH, DATA_PRECISION, DATA_SCALE FROM ALL_TAB_COLUMNS WHERE OWNER = " + scm + " AND TABLE_NAME = " + tbl + " ORDER BY COLUMN_ID"
	case Postgres:
		return "SELECT column_name, udt_schema, udt_name, COALESCE(character_maximum_length, 0), COALESCE(numeric_precision, 0), COALESCE(numeric_scale, 0) FROM information_schema.columns WHERE table_schema = " + scm + " AND table_name = " + tbl + " ORDER BY ordinal_position"
	case SQLite:
		return "SELECT name, '', type, 0, 0, 0 FROM pragma_table_info(" + tbl + ") ORDER BY cid"
	case VoidSystem:
		return ""
	}
	return ""
}

/*
	(idx_schema, idx_name, primary, unique, spatial, col_name, desc)
	ordered by index identity and then key position, so that one index arrives
	as a run of consecutive rows. col_name is empty for expression keys.
*/
func SQLIndexedColumns(sys Dialect, id Identifier) string {
	scm, tbl := lit(sys, id.Schema), lit(sys, id.Name)
	switch sys {
	case CUBRID:
		return `SELECT '', i.index_name, CASE WHEN i.is_primary_key = 'YES' THEN 1 ELSE 0 END, CASE WHEN i.is_unique = 'YES' THEN 1 ELSE 0 END, 0,
COALESCE(k.key_attr_name, ''), CASE WHEN k.asc_desc = 'DESC' THEN 1 ELSE 0 END
FROM db_index i JOIN db_index_key k ON k.index_name = i.index_name AND k.class_name = i.class_name
WHERE i.class_name = ` + tbl + " ORDER BY i.index_name, k.key_order"
	case DB2:
		return `SELECT RTRIM(i.INDSCHEMA), i.INDNAME, CASE WHEN i.UNIQUERULE = 'P' THEN 1 ELSE 0 END, CASE WHEN i.UNIQUERULE = 'U' THEN 1 ELSE 0 END,
CASE WHEN i.IENAME IS NULL THEN 0 ELSE 1 END, c.COLNAME, CASE WHEN c.COLORDER = 'D' THEN 1 ELSE 0 END
FROM SYSCAT.INDEXES i JOIN SYSCAT.INDEXCOLUSE c ON c.INDSCHEMA = i.INDSCHEMA AND c.INDNAME = i.INDNAME
WHERE i.TABSCHEMA = ` + scm + " AND i.TABNAME = " + tbl + " ORDER BY i.INDSCHEMA, i.INDNAME, c.COLSEQ"
	case Informix:
		parts := make([]string, 16)
		for n := 1; n <= 16; n++ {
			p := fmt.Sprintf("i.part%d", n)
			parts[n-1] = `SELECT TRIM(i.owner), i.idxname, CASE WHEN k.constrtype = 'P' THEN 1 ELSE 0 END, CASE WHEN i.idxtype = 'U' THEN 1 ELSE 0 END,
CASE WHEN a.am_name = 'rtree' THEN 1 ELSE 0 END, COALESCE(c.colname, ''), CASE WHEN ` + p + ` < 0 THEN 1 ELSE 0 END, ` + fmt.Sprint(n) + `
FROM sysindices i JOIN systables t ON t.tabid = i.tabid
LEFT JOIN sysconstraints k ON k.tabid = i.tabid AND k.idxname = i.idxname AND k.constrtype = 'P'
LEFT JOIN sysams a ON a.am_id = i.amid
LEFT JOIN syscolumns c ON c.tabid = i.tabid AND c.colno = ABS(` + p + `)
WHERE t.owner = ` + scm + " AND t.tabname = " + tbl + " AND " + p + " <> 0"
		}
		return strings.Join(parts, "\nUNION ALL\n") + "\nORDER BY 1, 2, 8"
	case Ingres:
		return `SELECT TRIM(i.index_owner), TRIM(i.index_name), 0, CASE WHEN i.unique_rule = 'U' THEN 1 ELSE 0 END,
CASE WHEN i.storage_structure = 'RTREE' THEN 1 ELSE 0 END, TRIM(c.column_name), CASE WHEN c.sort_direction = 'D' THEN 1 ELSE 0 END
FROM iiindexes i JOIN iiindex_columns c ON c.index_owner = i.index_owner AND c.index_name = i.index_name
WHERE i.base_owner = ` + scm + " AND i.base_name = " + tbl + " ORDER BY 1, 2, c.key_sequence"
	case MSSQL:
		return `SELECT s.name, i.name, i.is_primary_key, i.is_unique, CASE WHEN i.type = 4 THEN 1 ELSE 0 END, c.name, ic.is_descending_key
FROM sys.indexes i
JOIN sys.tables t ON t.object_id = i.object_id JOIN sys.schemas s ON s.schema_id = t.schema_id
JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
JOIN sys.columns c ON c.object_id = ic.object_id AND c.column_id = ic.column_id
WHERE s.name = ` + scm + " AND t.name = " + tbl + " AND ic.is_included_column = 0 ORDER BY i.index_id, ic.key_ordinal"
	case MySQL:
		return `SELECT INDEX_SCHEMA, INDEX_NAME, CASE WHEN INDEX_NAME = 'PRIMARY' THEN 1 ELSE 0 END, CASE WHEN NON_UNIQUE = 0 THEN 1 ELSE 0 END,
CASE WHEN INDEX_TYPE = 'SPATIAL' THEN 1 ELSE 0 END, COALESCE(COLUMN_NAME, ''), CASE WHEN COLLATION = 'D' THEN 1 ELSE 0 END
FROM information_schema.STATISTICS
WHERE TABLE_SCHEMA = ` + scm + " AND TABLE_NAME = " + tbl + " ORDER BY INDEX_SCHEMA, INDEX_NAME, SEQ_IN_INDEX"
	case Oracle:
		return `SELECT i.OWNER, i.INDEX_NAME, CASE WHEN k.CONSTRAINT_TYPE = 'P' THEN 1 ELSE 0 END, CASE WHEN i.UNIQUENESS = 'UNIQUE' THEN 1 ELSE 0 END,
CASE WHEN i.ITYPE_OWNER = 'MDSYS' AND i.ITYPE_NAME = 'SPATIAL_INDEX' THEN 1 ELSE 0 END, c.COLUMN_NAME, CASE WHEN c.DESCEND = 'DESC' THEN 1 ELSE 0 END
FROM ALL_INDEXES i JOIN ALL_IND_COLUMNS c ON c.INDEX_OWNER = i.OWNER AND c.INDEX_NAME = i.INDEX_NAME
LEFT JOIN ALL_CONSTRAINTS k ON k.OWNER = i.TABLE_OWNER AND k.INDEX_NAME = i.INDEX_NAME AND k.CONSTRAINT_TYPE = 'P'
WHERE i.TABLE_OWNER = ` + scm + " AND i.TABLE_NAME = " + tbl + " ORDER BY i.OWNER, i.INDEX_NAME, c.COLUMN_POSITION"
	case Postgres:
		return `SELECT n.nspname, c.relname, i.indisprimary, i.indisunique, am.amname = 'gist', COALESCE(a.attname, ''), (i.indoption[s.k] & 1) <> 0
FROM pg_catalog.pg_index i
JOIN pg_catalog.pg_class t ON t.oid = i.indrelid
JOIN pg_catalog.pg_namespace tn ON tn.oid = t.relnamespace
JOIN pg_catalog.pg_class c ON c.oid = i.indexrelid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
JOIN pg_catalog.pg_am am ON am.oid = c.relam
CROSS JOIN LATERAL generate_subscripts(i.indkey, 1) s(k)
LEFT JOIN pg_catalog.pg_attribute a ON a.attrelid = t.oid AND a.attnum = i.indkey[s.k]
WHERE tn.nspname = ` + scm + " AND t.relname = " + tbl + " AND s.k < i.indnkeyatts ORDER BY n.nspname, c.relname, s.k"
	case SQLite:
		return `SELECT '', il.name, il.origin = 'pk', il."unique", 0, COALESCE(ii.name, ''), ii."desc"
FROM pragma_index_list(` + tbl + `) il, pragma_index_xinfo(il.name) ii
WHERE ii.key = 1 ORDER BY il.name, ii.seqno`
	case VoidSystem:
		return ""
	}
	return ""
}

// sqlSpatialIndexedColumns covers spatial indexes kept outside the index catalog, same shape as SQLIndexedColumns.
func sqlSpatialIndexedColumns(sys Dialect, id Identifier) string {
	if sys != SQLite {
		return ""
	}
	return `SELECT '', 'idx_' || f_table_name || '_' || f_geometry_column, 0, 0, 1, f_geometry_column, 0
FROM geometry_columns
WHERE LOWER(f_table_name) = LOWER(` + lit(sys, id.Name) + `) AND spatial_index_enabled = 1
ORDER BY 2`
}

// (srid, epsg, type_detail) for one geometry column.
func SQLSrid(sys Dialect, id Identifier, col string) string {
	scm, tbl, c := lit(sys, id.Schema), lit(sys, id.Name), lit(sys, col)
	switch sys {
	case DB2:
		return `SELECT g.SRS_ID, s.ORGANIZATION_COORDSYS_ID, ''
FROM DB2GSE.ST_GEOMETRY_COLUMNS g JOIN DB2GSE.ST_SPATIAL_REFERENCE_SYSTEMS s ON s.SRS_ID = g.SRS_ID
WHERE g.TABLE_SCHEMA = ` + scm + " AND g.TABLE_NAME = " + tbl + " AND g.COLUMN_NAME = " + c
	case Informix:
		return `SELECT g.srid, s.auth_srid, ''
FROM sde.geometry_columns g JOIN sde.spatial_references s ON s.srid = g.srid
WHERE g.f_table_schema = ` + scm + " AND g.f_table_name = " + tbl + " AND g.f_geometry_column = " + c
	case Ingres:
		return "SELECT srid, srid, '' FROM geometry_columns WHERE f_table_schema = " + scm + " AND f_table_name = " + tbl + " AND f_geometry_column = " + c
	case MSSQL:
		q := SQLIdentifier(sys, col)
		return "SELECT TOP 1 " + q + ".STSrid, " + q + ".STSrid, '' FROM " + SQLQualified(sys, id) + " WHERE " + q + " IS NOT NULL"
	case MySQL:
		q := SQLIdentifier(sys, col)
		return "SELECT ST_SRID(" + q + "), ST_SRID(" + q + "), '' FROM " + SQLQualified(sys, id) + " WHERE " + q + " IS NOT NULL LIMIT 1"
	case Oracle:
		return `SELECT m.SRID, NVL(s.LEGACY_CODE, m.SRID), ''
FROM ALL_SDO_GEOM_METADATA m LEFT JOIN MDSYS.SDO_COORD_REF_SYS s ON s.SRID = m.SRID
WHERE m.OWNER = ` + scm + " AND m.TABLE_NAME = " + tbl + " AND m.COLUMN_NAME = " + c
	case Postgres:
		return `SELECT g.srid, COALESCE(s.auth_srid, g.srid), g.type
FROM geometry_columns g LEFT JOIN spatial_ref_sys s ON s.srid = g.srid AND s.auth_name = 'EPSG'
WHERE g.f_table_schema = ` + scm + " AND g.f_table_name = " + tbl + " AND g.f_geometry_column = " + c + `
UNION ALL
SELECT g.srid, COALESCE(s.auth_srid, g.srid), g.type
FROM geography_columns g LEFT JOIN spatial_ref_sys s ON s.srid = g.srid AND s.auth_name = 'EPSG'
WHERE g.f_table_schema = ` + scm + " AND g.f_table_name = " + tbl + " AND g.f_geography_column = " + c
	case SQLite:
		return `SELECT g.srid, COALESCE(s.auth_srid, g.srid), ''
FROM geometry_columns g LEFT JOIN spatial_ref_sys s ON s.srid = g.srid AND LOWER(s.auth_name) = 'epsg'
WHERE LOWER(g.f_table_name) = LOWER(` + tbl + ") AND LOWER(g.f_geometry_column) = LOWER(" + c + ")"
	case CUBRID, VoidSystem:
		return ""
	}
	return ""
}

// (scm, tbl, col) for every registered geometry column.
func SQLGeometries(sys Dialect) string {
	switch sys {
	case CUBRID:
		return "SELECT '' scm, '' tbl, '' col FROM db_root WHERE 1 = 0"
	case DB2:
		return "SELECT TABLE_SCHEMA scm, TABLE_NAME tbl, COLUMN_NAME col FROM DB2GSE.ST_GEOMETRY_COLUMNS"
	case Informix:
		return "SELECT f_table_schema scm, f_table_name tbl, f_geometry_column col FROM sde.geometry_columns"
	case Ingres:
		return "SELECT f_table_schema scm, f_table_name tbl, f_geometry_column col FROM geometry_columns"
	case MSSQL:
		return `SELECT s.name scm, t.name tbl, c.name col FROM sys.columns c
JOIN sys.tables t ON t.object_id = c.object_id JOIN sys.schemas s ON s.schema_id = t.schema_id
JOIN sys.types ty ON ty.user_type_id = c.user_type_id WHERE ty.name IN ('geometry', 'geography')`
	case MySQL:
		return "SELECT TABLE_SCHEMA scm, TABLE_NAME tbl, COLUMN_NAME col FROM information_schema.COLUMNS WHERE DATA_TYPE IN ('geometry', 'point', 'linestring', 'polygon', 'multipoint', 'multilinestring', 'multipolygon', 'geometrycollection')"
	case Oracle:
		return "SELECT OWNER scm, TABLE_NAME tbl, COLUMN_NAME col FROM ALL_SDO_GEOM_METADATA"
	case Postgres:
		return "SELECT f_table_schema scm, f_table_name tbl, f_geometry_column col FROM geometry_columns UNION ALL SELECT f_table_schema, f_table_name, f_geography_column FROM geography_columns"
	case SQLite:
		return "SELECT '' scm, f_table_name tbl, f_geometry_column col FROM geometry_columns"
	case VoidSystem:
		return ""
	}
	return ""
}

// SQLTestRasters checks the native raster catalog, any row means it is usable.
func SQLTestRasters(sys Dialect) string {
	if sys == Postgres {
		return "SELECT 1 FROM pg_catalog.pg_class c JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace WHERE c.relname = 'raster_columns' AND c.relkind = 'v'"
	}
	return ""
}

// (base_scm, base_tbl, base_col, res_x, res_y, geom_scm, geom_tbl, geom_col, raster_col) ordered by base identity.
func SQLRasters(sys Dialect) string {
	if sys != Postgres {
		return ""
	}
	return `SELECT * FROM (
SELECT c.r_table_schema base_scm, c.r_table_name base_tbl, c.r_raster_column base_col, ABS(c.scale_x) res_x, ABS(c.scale_y) res_y,
c.r_table_schema geom_scm, c.r_table_name geom_tbl, c.r_raster_column geom_col, c.r_raster_column raster_col
FROM raster_columns c
WHERE NOT EXISTS (SELECT 1 FROM raster_overviews o WHERE o.o_table_schema = c.r_table_schema AND o.o_table_name = c.r_table_name AND o.o_raster_column = c.r_raster_column)
UNION ALL
SELECT o.r_table_schema, o.r_table_name, o.r_raster_column, ABS(c.scale_x), ABS(c.scale_y),
o.o_table_schema, o.o_table_name, o.o_raster_column, o.o_raster_column
FROM raster_overviews o JOIN raster_columns c ON c.r_table_schema = o.o_table_schema AND c.r_table_name = o.o_table_name AND c.r_raster_column = o.o_raster_column
) r ORDER BY base_scm, base_tbl, base_col, res_x, res_y`
}

// NativeRasterLevel lets the dialect refine a level read from its native raster catalog.
func NativeRasterLevel(sys Dialect, pyramid RasterPyramid, i int) RasterLevel {
	lvl := pyramid.Levels[i]
	lvl.Raster.Type = Blob
	if sys == Postgres {
		// the footprint is computed from the raster column itself
		lvl.Geometry.Qualifier = lvl.Raster.Name
	}
	return lvl
}

// (minx, miny, maxx, maxy) of a geometry column.
func SQLMBR(sys Dialect, id Identifier, col string) string {
	tbl, q := SQLQualified(sys, id), SQLIdentifier(sys, col)
	switch sys {
	case DB2:
		return "SELECT MIN(DB2GSE.ST_MinX(" + q + ")), MIN(DB2GSE.ST_MinY(" + q + ")), MAX(DB2GSE.ST_MaxX(" + q + ")), MAX(DB2GSE.ST_MaxY(" + q + ")) FROM " + tbl
	case MSSQL:
		return "SELECT b.STPointN(1).STX, b.STPointN(1).STY, b.STPointN(3).STX, b.STPointN(3).STY FROM (SELECT geometry::EnvelopeAggregate(" + q + ") b FROM " + tbl + ") t"
	case Oracle:
		return "SELECT MIN(v.X), MIN(v.Y), MAX(v.X), MAX(v.Y) FROM TABLE(SDO_UTIL.GETVERTICES((SELECT SDO_AGGR_MBR(" + q + ") FROM " + tbl + "))) v"
	case Postgres:
		return "SELECT ST_XMin(b), ST_YMin(b), ST_XMax(b), ST_YMax(b) FROM (SELECT ST_Extent(" + q + ")::box2d b FROM " + tbl + ") t"
	case SQLite:
		return "SELECT MIN(MbrMinX(" + q + ")), MIN(MbrMinY(" + q + ")), MAX(MbrMaxX(" + q + ")), MAX(MbrMaxY(" + q + ")) FROM " + SQLIdentifier(sys, id.Name)
	case CUBRID, Informix, Ingres, MySQL, VoidSystem:
		return ""
	}
	return ""
}
