package store_test

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB implements store.DB with canned behaviour per call kind.
type fakeDB struct {
	execFn     func(sql string, args []any) (pgconn.CommandTag, error)
	queryFn    func(sql string, args []any) (pgx.Rows, error)
	queryRowFn func(sql string, args []any) pgx.Row

	execSQL  []string
	execArgs [][]any
	querySQL []string
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	if f.execFn == nil {
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return f.execFn(sql, args)
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.querySQL = append(f.querySQL, sql)
	if f.queryFn == nil {
		return &fakeRows{}, nil
	}
	return f.queryFn(sql, args)
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	if f.queryRowFn == nil {
		return fakeRow{}
	}
	return f.queryRowFn(sql, args)
}

// fakeRow scans canned values, or fails with err.
type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		assign(d, r.vals[i])
	}
	return nil
}

// fakeRows iterates canned rows through the pgx.Rows interface.
type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx < len(r.rows) {
		r.idx++
		return true
	}
	return false
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	for i, d := range dest {
		assign(d, row[i])
	}
	return nil
}

func assign(dest, val any) {
	switch d := dest.(type) {
	case *string:
		*d = val.(string)
	case *int:
		*d = val.(int)
	case *float64:
		*d = val.(float64)
	case **int:
		if val == nil {
			*d = nil
		} else {
			v := val.(int)
			*d = &v
		}
	case **string:
		if val == nil {
			*d = nil
		} else {
			v := val.(string)
			*d = &v
		}
	case **float64:
		if val == nil {
			*d = nil
		} else {
			v := val.(float64)
			*d = &v
		}
	default:
		panic(fmt.Sprintf("fake scan: unsupported destination %T", dest))
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
