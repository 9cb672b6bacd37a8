package rdbms

/*
	Command is the statement executor this package reads catalogs through.
	Exec replaces whatever result set was open, Fetch streams its rows.
	nothing here wraps statements in a transaction.
*/
type Command interface {
	Exec(sql string, params ...Value) error
	Fetch() ([]Value, bool, error)
	System() Dialect
}

// remoteEach runs stmt and hands every row to fn, stopping at the first error.
func remoteEach(cmd Command, stmt string, fn func(row []Value) error) error {
	if err := cmd.Exec(stmt); err != nil {
		return err
	}
	for {
		row, ok, err := cmd.Fetch()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err = fn(row); err != nil {
			return err
		}
	}
}

// remoteFirst returns the first row of stmt or nil when there is none.
func remoteFirst(cmd Command, stmt string) ([]Value, error) {
	if err := cmd.Exec(stmt); err != nil {
		return nil, err
	}
	row, ok, err := cmd.Fetch()
	if err != nil || !ok {
		return nil, err
	}
	return row, nil
}
