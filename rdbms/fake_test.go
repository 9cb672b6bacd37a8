package rdbms

import (
	"strings"
)

// fakeRule answers every statement it matches with rows, or fails it with err.
type fakeRule struct {
	match func(string) bool
	rows  [][]Value
	err   error
}

func exact(s string) func(string) bool {
	return func(stmt string) bool { return stmt == s }
}

func contains(s string) func(string) bool {
	return func(stmt string) bool { return strings.Contains(stmt, s) }
}

type fakeCommand struct {
	sys   Dialect
	rules []fakeRule
	execd []string
	rows  [][]Value
}

func newFake(sys Dialect, rules ...fakeRule) *fakeCommand {
	return &fakeCommand{sys: sys, rules: rules}
}

func (f *fakeCommand) System() Dialect {
	return f.sys
}

func (f *fakeCommand) Exec(stmt string, params ...Value) error {
	f.execd = append(f.execd, stmt)
	f.rows = nil
	for _, r := range f.rules {
		if r.match(stmt) {
			if r.err != nil {
				return r.err
			}
			f.rows = append([][]Value(nil), r.rows...)
			return nil
		}
	}
	return nil
}

func (f *fakeCommand) Fetch() ([]Value, bool, error) {
	if len(f.rows) == 0 {
		return nil, false, nil
	}
	row := f.rows[0]
	f.rows = f.rows[1:]
	return row, true, nil
}

// ran reports whether a statement containing s was executed.
func (f *fakeCommand) ran(s string) bool {
	for _, e := range f.execd {
		if strings.Contains(e, s) {
			return true
		}
	}
	return false
}

func row(v ...Value) []Value {
	return v
}
