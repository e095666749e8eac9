package dto

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterOperatorLess      = "less"
	FilterOperatorGreater   = "greater"
	FilterIsNotNull         = "is_not_null"
	FilterIsNull            = "is_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// Filter compares one column with Value. Like is a case-insensitive substring match.
type Filter struct {
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq like in not_eq less_eq greater_eq less greater is_not_null is_null"`
	Table    string
}

func (f Filter) column() exp.IdentifierExpression {
	if f.Table == "" {
		return goqu.C(f.Field)
	}

	return goqu.T(f.Table).Col(f.Field)
}

// Expression renders the filter for the query builder. Unknown operators yield nil.
func (f Filter) Expression() exp.Expression {
	column := f.column()

	switch f.Operator {
	case FilterOperatorEq:
		return column.Eq(f.Value)
	case FilterOperatorLike:
		return column.ILike(fmt.Sprintf("%%%v%%", f.Value))
	case FilterOperatorIn:
		return column.In(f.Value)
	case FilterOperatorNotEq:
		return column.Neq(f.Value)
	case FilterOperatorLessEq:
		return column.Lte(f.Value)
	case FilterOperatorGreaterEq:
		return column.Gte(f.Value)
	case FilterOperatorLess:
		return column.Lt(f.Value)
	case FilterOperatorGreater:
		return column.Gt(f.Value)
	case FilterIsNotNull:
		return column.IsNotNull()
	case FilterIsNull:
		return column.IsNull()
	default:
		return nil
	}
}

// FilterGroup joins Filters, each a Filter or a nested FilterGroup, with Operator. AND is the default.
type FilterGroup struct {
	Filters  []any
	Operator string
}

// Expression renders the group, or nil when it holds no usable filter.
func (f FilterGroup) Expression() exp.Expression {
	expressions := make([]exp.Expression, 0, len(f.Filters))

	for _, filter := range f.Filters {
		var expression exp.Expression

		switch fill := filter.(type) {
		case Filter:
			expression = fill.Expression()
		case FilterGroup:
			expression = fill.Expression()
		}

		if expression != nil {
			expressions = append(expressions, expression)
		}
	}

	if len(expressions) == 0 {
		return nil
	}

	if f.Operator == FilterGroupOperatorOr {
		return goqu.Or(expressions...)
	}

	return goqu.And(expressions...)
}

// IsEmpty reports whether the group would not narrow a query at all.
func (f FilterGroup) IsEmpty() bool {
	return f.Expression() == nil
}
