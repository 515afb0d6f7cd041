package nlq

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/izzystu/geo-change-risk-sub000/internal/georisk"
	"gorm.io/gorm/clause"
)

type fieldKind int

const (
	kindNumber fieldKind = iota
	kindEnum
	kindOrdinal // enum whose codes are ranked
	kindText
	kindBool
	kindTime
)

func (k fieldKind) String() string {
	switch k {
	case kindNumber:
		return "number"
	case kindEnum, kindOrdinal:
		return "enum"
	case kindText:
		return "text"
	case kindBool:
		return "boolean"
	case kindTime:
		return "date"
	}
	return "unknown"
}

// enumSet is satisfied by georisk.Enum.
type enumSet interface {
	Lookup(name string) (int, bool)
	Names() []string
}

// field is one whitelisted property: the name the model uses, the column it
// reads and how values are parsed.
type field struct {
	name   string
	column clause.Column
	kind   fieldKind
	enum   enumSet
}

func col(table, name string) clause.Column {
	return clause.Column{Table: table, Name: name}
}

func numberField(name, table, column string) field {
	return field{name: name, column: col(table, column), kind: kindNumber}
}

func textField(name, table, column string) field {
	return field{name: name, column: col(table, column), kind: kindText}
}

func boolField(name, table, column string) field {
	return field{name: name, column: col(table, column), kind: kindBool}
}

func timeField(name, table, column string) field {
	return field{name: name, column: col(table, column), kind: kindTime}
}

func enumField(name, table, column string, e enumSet) field {
	return field{name: name, column: col(table, column), kind: kindEnum, enum: e}
}

func ordinalField(name, table, column string, e enumSet) field {
	return field{name: name, column: col(table, column), kind: kindOrdinal, enum: e}
}

// fieldSet is an ordered whitelist with case-insensitive lookup.
type fieldSet struct {
	ordered []field
	byKey   map[string]field
}

func newFieldSet(fields ...field) fieldSet {
	s := fieldSet{ordered: fields, byKey: make(map[string]field, len(fields))}
	for _, f := range fields {
		s.byKey[propertyKey(f.name)] = f
	}
	return s
}

// propertyKey folds case and drops underscores, so "risk_score" and
// "RiskScore" both find riskScore.
func propertyKey(name string) string {
	return georisk.Fold(strings.ReplaceAll(name, "_", ""))
}

func (s fieldSet) lookup(name string) (field, bool) {
	f, ok := s.byKey[propertyKey(name)]
	return f, ok
}

func (s fieldSet) names() []string {
	out := make([]string, 0, len(s.ordered))
	for _, f := range s.ordered {
		out = append(out, f.name)
	}
	return out
}

// dropReason labels a filter the executor ignored.
type dropReason string

const (
	dropUnknownProperty     dropReason = "unknown_property"
	dropUnknownOperator     dropReason = "unknown_operator"
	dropUnsupportedOperator dropReason = "unsupported_operator"
	dropBadValue            dropReason = "bad_value"
)

var comparisons = map[Operator]func(clause.Column, any) clause.Expression{
	OpEq:  func(c clause.Column, v any) clause.Expression { return clause.Eq{Column: c, Value: v} },
	OpNeq: func(c clause.Column, v any) clause.Expression { return clause.Neq{Column: c, Value: v} },
	OpGt:  func(c clause.Column, v any) clause.Expression { return clause.Gt{Column: c, Value: v} },
	OpGte: func(c clause.Column, v any) clause.Expression { return clause.Gte{Column: c, Value: v} },
	OpLt:  func(c clause.Column, v any) clause.Expression { return clause.Lt{Column: c, Value: v} },
	OpLte: func(c clause.Column, v any) clause.Expression { return clause.Lte{Column: c, Value: v} },
}

func isEquality(op Operator) bool {
	return op == OpEq || op == OpNeq
}

// condition builds the SQL expression for one filter on this field. A
// non-empty reason means the filter cannot be applied and must be skipped.
func (f field) condition(op Operator, value FilterValue) (clause.Expression, dropReason) {
	switch f.kind {
	case kindNumber:
		if op == OpIn {
			return nil, dropUnsupportedOperator
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(string(value)), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, dropBadValue
		}
		return comparisons[op](f.column, n), ""

	case kindEnum, kindOrdinal:
		items := value.Items()
		if op == OpIn || (op == OpEq && len(items) > 1) {
			codes := make([]any, 0, len(items))
			for _, item := range items {
				if code, ok := f.enum.Lookup(item); ok {
					codes = append(codes, code)
				}
			}
			if len(codes) == 0 {
				return nil, dropBadValue
			}
			return clause.IN{Column: f.column, Values: codes}, ""
		}
		if f.kind == kindEnum && !isEquality(op) {
			return nil, dropUnsupportedOperator
		}
		code, ok := f.enum.Lookup(string(value))
		if !ok {
			return nil, dropBadValue
		}
		return comparisons[op](f.column, code), ""

	case kindText:
		switch op {
		case OpEq, OpNeq:
			v := strings.TrimSpace(string(value))
			if v == "" {
				return nil, dropBadValue
			}
			sql := "LOWER(?) = ?"
			if op == OpNeq {
				sql = "LOWER(?) <> ?"
			}
			return clause.Expr{SQL: sql, Vars: []any{f.column, strings.ToLower(v)}}, ""
		case OpIn:
			items := value.Items()
			if len(items) == 0 {
				return nil, dropBadValue
			}
			lowered := make([]string, len(items))
			for i, item := range items {
				lowered[i] = strings.ToLower(item)
			}
			return clause.Expr{SQL: "LOWER(?) IN ?", Vars: []any{f.column, lowered}}, ""
		}
		return nil, dropUnsupportedOperator

	case kindBool:
		if !isEquality(op) {
			return nil, dropUnsupportedOperator
		}
		b, ok := parseBoolText(string(value))
		if !ok {
			return nil, dropBadValue
		}
		return comparisons[op](f.column, b), ""

	case kindTime:
		if op == OpIn {
			return nil, dropUnsupportedOperator
		}
		t, _, ok := parseTime(string(value))
		if !ok {
			return nil, dropBadValue
		}
		return comparisons[op](f.column, t), ""
	}
	return nil, dropUnsupportedOperator
}

// parseTime accepts RFC 3339, a bare local timestamp or YYYY-MM-DD. All
// results are UTC. dateOnly reports the last form.
func parseTime(s string) (t time.Time, dateOnly bool, ok bool) {
	s = strings.TrimSpace(s)
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		return parsed.UTC(), false, true
	}
	if parsed, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return parsed.UTC(), false, true
	}
	if parsed, err := time.Parse("2006-01-02", s); err == nil {
		return parsed.UTC(), true, true
	}
	return time.Time{}, false, false
}
