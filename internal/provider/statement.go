package provider

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// IDColumn is the identifier column every table is keyed on.
const IDColumn = "id"

// Row is one raw result row keyed by column name.
type Row map[string]any

// Rows is a raw result set.
type Rows []Row

// Conditions is an equality filter, column -> expected value.
type Conditions map[string]any

// Fields is a column -> value payload for inserts and updates.
type Fields map[string]any

// Pair is one column/value entry of Conditions or Fields.
type Pair struct {
	Column string
	Value  any
}

// Result is what a write statement reports back.
// InsertID holds the generated identifier of an insert and is nil otherwise.
type Result struct {
	InsertID     any   `json:"insert_id,omitempty"`
	RowsAffected int64 `json:"rows_affected"`
}

// Pairs returns the conditions ordered by column name. The WHERE fragment
// and its argument list are both built from this slice.
func (c Conditions) Pairs() []Pair {
	return sortedPairs(c)
}

// Pairs returns the fields ordered by column name.
func (f Fields) Pairs() []Pair {
	return sortedPairs(f)
}

// Without returns a copy of f minus the given column.
func (f Fields) Without(column string) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if k != column {
			out[k] = v
		}
	}
	return out
}

func sortedPairs(m map[string]any) []Pair {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, len(keys))
	for i, k := range keys {
		pairs[i] = Pair{Column: k, Value: m[k]}
	}
	return pairs
}

// WhereClause renders "c1 = ? AND c2 = ?" for pairs, without the WHERE keyword.
func WhereClause(d Dialect, pairs []Pair) string {
	return joinAssignments(d, pairs, " AND ")
}

// FlattenPairs returns the values of pairs in placeholder order.
func FlattenPairs(pairs []Pair) []any {
	args := make([]any, len(pairs))
	for i, p := range pairs {
		args[i] = p.Value
	}
	return args
}

func joinAssignments(d Dialect, pairs []Pair, sep string) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = d.Ident(p.Column) + " = ?"
	}
	return strings.Join(parts, sep)
}

type statement struct {
	query string
	args  []any
}

func (d Dialect) stmt(query string, args ...any) statement {
	return statement{query: d.Rebind(query), args: args}
}

func (d Dialect) selectByID(table string, id any) statement {
	return d.stmt(fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", d.Ident(table), d.Ident(IDColumn)), id)
}

func (d Dialect) selectByIDs(table string, ids []any) (statement, error) {
	return d.in(fmt.Sprintf("SELECT * FROM %s WHERE %s IN (?)", d.Ident(table), d.Ident(IDColumn)), ids)
}

func (d Dialect) selectAll(table string) statement {
	return d.stmt(fmt.Sprintf("SELECT * FROM %s", d.Ident(table)))
}

func (d Dialect) selectWhere(table string, conds Conditions) statement {
	return d.filtered("SELECT * FROM "+d.Ident(table), conds)
}

func (d Dialect) count(table string, conds Conditions) statement {
	return d.filtered(fmt.Sprintf("SELECT COUNT(1) AS %s FROM %s", d.Ident("count"), d.Ident(table)), conds)
}

// filtered appends a WHERE clause only when there is at least one condition;
// an empty map matches the whole table.
func (d Dialect) filtered(base string, conds Conditions) statement {
	pairs := conds.Pairs()
	if len(pairs) == 0 {
		return d.stmt(base)
	}
	return d.stmt(base+" WHERE "+WhereClause(d, pairs), FlattenPairs(pairs)...)
}

func (d Dialect) insert(table string, fields Fields) statement {
	pairs := fields.Pairs()

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.Ident(table))
	b.WriteByte(' ')
	if len(pairs) == 0 {
		b.WriteString(d.EmptyInsert)
	} else {
		cols := make([]string, len(pairs))
		for i, p := range pairs {
			cols[i] = d.Ident(p.Column)
		}
		b.WriteString("(" + strings.Join(cols, ", ") + ") VALUES (")
		b.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(pairs)), ", "))
		b.WriteByte(')')
	}
	if d.Returning {
		b.WriteString(" RETURNING " + d.Ident(IDColumn))
	}
	return d.stmt(b.String(), FlattenPairs(pairs)...)
}

// update never writes the identifier column; the row is addressed by id alone.
func (d Dialect) update(table string, id any, fields Fields) statement {
	pairs := fields.Without(IDColumn).Pairs()
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		d.Ident(table), joinAssignments(d, pairs, ", "), d.Ident(IDColumn))
	return d.stmt(query, append(FlattenPairs(pairs), id)...)
}

func (d Dialect) deleteByID(table string, id any) statement {
	return d.stmt(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", d.Ident(table), d.Ident(IDColumn)), id)
}

func (d Dialect) deleteByIDs(table string, ids []any) (statement, error) {
	return d.in(fmt.Sprintf("DELETE FROM %s WHERE %s IN (?)", d.Ident(table), d.Ident(IDColumn)), ids)
}

// raw expands slice arguments the way the IN helpers do, then rebinds.
func (d Dialect) raw(query string, args []any) (statement, error) {
	return d.in(query, args...)
}

func (d Dialect) in(query string, args ...any) (statement, error) {
	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return statement{}, err
	}
	return d.stmt(expanded, expandedArgs...), nil
}
