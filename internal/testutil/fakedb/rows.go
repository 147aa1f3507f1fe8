package fakedb

import (
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Rows is an in-memory pgx.Rows over pre-built values.
type Rows struct {
	data   [][]any
	idx    int
	err    error
	closed bool
}

// NewRows returns rows yielding each entry of data in order.
func NewRows(data ...[]any) *Rows {
	return &Rows{data: data}
}

func (r *Rows) Close() { r.closed = true }

func (r *Rows) Err() error { return r.err }

func (r *Rows) Next() bool {
	if r.closed || r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.data) {
		return fmt.Errorf("fakedb: scan without current row")
	}
	return assign(r.data[r.idx-1], dest)
}

func (r *Rows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *Rows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.data) {
		return nil, fmt.Errorf("fakedb: values without current row")
	}
	return r.data[r.idx-1], nil
}

func (r *Rows) RawValues() [][]byte { return nil }

func (r *Rows) Conn() *pgx.Conn { return nil }

// Row is an in-memory pgx.Row. A Row without values scans as pgx.ErrNoRows.
type Row struct {
	vals []any
	err  error
}

func NewRow(vals ...any) Row { return Row{vals: vals} }

func ErrRow(err error) Row { return Row{err: err} }

func (r Row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.vals == nil {
		return pgx.ErrNoRows
	}
	return assign(r.vals, dest)
}

func assign(vals []any, dest []any) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("fakedb: scan %d values into %d targets", len(vals), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d)
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("fakedb: target %d is not a pointer", i)
		}
		elem := target.Elem()
		if vals[i] == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		v := reflect.ValueOf(vals[i])
		switch {
		case v.Type().AssignableTo(elem.Type()):
			elem.Set(v)
		case elem.Kind() == reflect.Pointer && v.Type().AssignableTo(elem.Type().Elem()):
			p := reflect.New(elem.Type().Elem())
			p.Elem().Set(v)
			elem.Set(p)
		case v.Kind() == reflect.Pointer && v.IsNil():
			elem.Set(reflect.Zero(elem.Type()))
		case v.Kind() == reflect.Pointer && v.Elem().Type().AssignableTo(elem.Type()):
			elem.Set(v.Elem())
		case v.Type().ConvertibleTo(elem.Type()):
			elem.Set(v.Convert(elem.Type()))
		default:
			return fmt.Errorf("fakedb: cannot scan %T into %s", vals[i], elem.Type())
		}
	}
	return nil
}
