// Package querybuilder renders operation filters into SQL WHERE clauses for
// the supported dialects.
package querybuilder

import (
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Dialect captures the differences between the SQL engines behind the ledger store.
type Dialect struct {
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// ContainsFold renders a case-insensitive substring test of column against placeholder.
	ContainsFold func(column, placeholder string) string
	// AmountColumn is the expression used to compare amounts numerically.
	AmountColumn string
	// DateArg converts a calendar date into the bind value for op_date.
	DateArg func(t time.Time) any
	// DecimalArg converts an amount bound into the bind value compared with AmountColumn.
	DecimalArg func(d decimal.Decimal) any
}

// SQLite stores dates as YYYY-MM-DD text and amounts as decimal text.
var SQLite = Dialect{
	Placeholder: func(int) string { return "?" },
	ContainsFold: func(column, placeholder string) string {
		return "instr(lower(" + column + "), lower(" + placeholder + ")) > 0"
	},
	AmountColumn: "CAST(amount AS REAL)",
	DateArg:      func(t time.Time) any { return domain.FormatDate(t) },
	DecimalArg: func(d decimal.Decimal) any {
		f, _ := d.Float64()
		return f
	},
}

// Postgres uses numbered placeholders and native DATE and NUMERIC columns.
var Postgres = Dialect{
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	ContainsFold: func(column, placeholder string) string {
		return "strpos(lower(" + column + "), lower(" + placeholder + ")) > 0"
	},
	AmountColumn: "amount",
	DateArg:      func(t time.Time) any { return domain.NormalizeDate(t) },
	DecimalArg:   func(d decimal.Decimal) any { return d },
}

// Query accumulates AND-ed conditions and their bind arguments.
type Query struct {
	dialect    Dialect
	conditions []string
	args       []any
}

// New starts an empty query for the dialect.
func New(d Dialect) *Query {
	return &Query{dialect: d}
}

// Arg binds v and returns its placeholder.
func (q *Query) Arg(v any) string {
	q.args = append(q.args, v)
	return q.dialect.Placeholder(len(q.args))
}

// Where adds a raw condition. Placeholders inside it must come from Arg.
func (q *Query) Where(condition string) *Query {
	q.conditions = append(q.conditions, condition)
	return q
}

// DateBetween restricts op_date to the inclusive range [start, end].
func (q *Query) DateBetween(start, end time.Time) *Query {
	q.Where("op_date >= " + q.Arg(q.dialect.DateArg(start)))
	return q.Where("op_date <= " + q.Arg(q.dialect.DateArg(end)))
}

// DateBefore restricts op_date to dates strictly before d.
func (q *Query) DateBefore(d time.Time) *Query {
	return q.Where("op_date < " + q.Arg(q.dialect.DateArg(d)))
}

// DateAfter restricts op_date to dates strictly after d.
func (q *Query) DateAfter(d time.Time) *Query {
	return q.Where("op_date > " + q.Arg(q.dialect.DateArg(d)))
}

// Filter adds the conditions of f. Category ids are used as given, so callers
// expand folders to their descendants beforehand.
func (q *Query) Filter(f domain.Filter) *Query {
	if len(f.Types) > 0 {
		types := make([]any, len(f.Types))
		for i, t := range f.Types {
			types[i] = string(t)
		}
		q.Where("type IN (" + q.argList(types) + ")")
	}
	if len(f.AccountIDs) > 0 {
		ids := toAny(f.AccountIDs)
		q.Where("(account_id IN (" + q.argList(ids) + ") OR to_account_id IN (" + q.argList(ids) + "))")
	}
	if len(f.CategoryIDs) > 0 {
		q.Where("category_id IN (" + q.argList(toAny(f.CategoryIDs)) + ")")
	}
	if text := strings.TrimSpace(f.SearchText); text != "" {
		q.Where(q.dialect.ContainsFold("description", q.Arg(text)))
	}
	if f.DateRange.Start != nil {
		q.Where("op_date >= " + q.Arg(q.dialect.DateArg(*f.DateRange.Start)))
	}
	if f.DateRange.End != nil {
		q.Where("op_date <= " + q.Arg(q.dialect.DateArg(*f.DateRange.End)))
	}
	if f.AmountRange.Min != nil {
		q.Where(q.dialect.AmountColumn + " >= " + q.Arg(q.dialect.DecimalArg(*f.AmountRange.Min)))
	}
	if f.AmountRange.Max != nil {
		q.Where(q.dialect.AmountColumn + " <= " + q.Arg(q.dialect.DecimalArg(*f.AmountRange.Max)))
	}
	return q
}

// WhereClause renders " WHERE ..." or an empty string when there are no conditions.
func (q *Query) WhereClause() string {
	if len(q.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conditions, " AND ")
}

// Args returns the bind arguments in placeholder order.
func (q *Query) Args() []any {
	return q.args
}

func (q *Query) argList(values []any) string {
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = q.Arg(v)
	}
	return strings.Join(placeholders, ", ")
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
