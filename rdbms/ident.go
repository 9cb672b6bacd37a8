package rdbms

import (
	"strings"

	"github.com/lib/pq"
)

// NormalizeName folds a name the way the dialect's catalog stores unquoted identifiers.
func NormalizeName(sys Dialect, name string) string {
	switch sys {
	case DB2, Oracle:
		return strings.ToUpper(name)
	case Informix, Ingres, Postgres:
		return strings.ToLower(name)
	case CUBRID, MSSQL, MySQL, SQLite, VoidSystem:
		return name
	}
	return name
}

func NormalizeIdentifier(sys Dialect, id Identifier) Identifier {
	id.Schema = NormalizeName(sys, id.Schema)
	id.Name = NormalizeName(sys, id.Name)
	return id
}

/*
	normalizeTable folds every name of the definition exactly once and then
	substitutes the result into each place that refers to it, so index column
	lists can never disagree with the columns they point at.
*/
func normalizeTable(sys Dialect, tbl *TableDefinition) {
	tbl.ID = NormalizeIdentifier(sys, tbl.ID)
	renamed := make(map[string]string, len(tbl.Columns))
	for i := range tbl.Columns {
		n := NormalizeName(sys, tbl.Columns[i].Name)
		renamed[tbl.Columns[i].Name] = n
		tbl.Columns[i].Name = n
	}
	for i := range tbl.Indexes {
		for j, c := range tbl.Indexes[i].Columns {
			if n, ok := renamed[c]; ok {
				tbl.Indexes[i].Columns[j] = n
			}
		}
	}
}

func SQLIdentifier(sys Dialect, name string) string {
	switch sys {
	case MSSQL:
		return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
	case MySQL:
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	case Postgres:
		return pq.QuoteIdentifier(name)
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// SQLQualified quotes schema.name, the schema is left out when empty.
func SQLQualified(sys Dialect, id Identifier) string {
	if id.Schema == "" {
		return SQLIdentifier(sys, id.Name)
	}
	return SQLIdentifier(sys, id.Schema) + "." + SQLIdentifier(sys, id.Name)
}

func SQLLiteral(sys Dialect, s string) string {
	if sys == Postgres {
		return pq.QuoteLiteral(s)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sqlColumnList(sys Dialect, cols []string) string {
	q := make([]string, len(cols))
	for i, c := range cols {
		q[i] = SQLIdentifier(sys, c)
	}
	return strings.Join(q, ", ")
}
