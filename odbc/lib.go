package odbc

/*
	ODBC type codes as they appear in sql.h, sqlext.h and the
	informix extensions. only the ones the dispatcher hands out are listed.
*/

const (
	SQL_NULL_DATA = -1

	SQL_C_BINARY  = -2
	SQL_C_WCHAR   = -8
	SQL_C_SSHORT  = -15
	SQL_C_SLONG   = -16
	SQL_C_SBIGINT = -25
	SQL_C_FLOAT   = 7
	SQL_C_DOUBLE  = 8

	SQL_SMALLINT      = 5
	SQL_INTEGER       = 4
	SQL_BIGINT        = -5
	SQL_REAL          = 7
	SQL_DOUBLE        = 8
	SQL_VARBINARY     = -3
	SQL_LONGVARBINARY = -4
	SQL_WVARCHAR      = -9
	SQL_WLONGVARCHAR  = -10

	SQL_INFX_UDT_LVARCHAR = -104
)
