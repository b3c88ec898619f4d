package db

import (
	"fmt"
	"slices"

	"github.com/nickyhof/RecordDB/core"
	"github.com/nickyhof/RecordDB/sql"
)

// Clause is one stage of the SELECT pipeline. Stages run in source order:
// WHERE, then ORDER_BY, then LIMIT.
type Clause interface {
	Apply(slice core.TableSlice) (core.TableSlice, error)
}

// WhereClause keeps the records for which Expr holds. Any evaluation error
// aborts the whole query.
type WhereClause struct {
	Expr sql.Expr
}

func (clause WhereClause) Apply(slice core.TableSlice) (core.TableSlice, error) {
	filtered := make(core.TableSlice, 0, len(slice))
	for _, record := range slice {
		keep, err := evaluate(clause.Expr, record)
		if err != nil {
			return nil, err
		}
		if keep {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

// evaluate walks the expression tree. Both operands of AND and OR are always
// evaluated, left first, so the left error wins.
func evaluate(expr sql.Expr, record core.Record) (bool, error) {
	switch node := expr.(type) {
	case *sql.Comparison:
		value, ok := record[node.Field]
		if !ok {
			return false, fmt.Errorf("%w: WHERE references unknown field '%s'", core.ErrMissingField, node.Field)
		}
		ordering, err := core.Compare(value, node.Value)
		if err != nil {
			return false, fmt.Errorf("field '%s': %w", node.Field, err)
		}
		return node.Operator.Holds(ordering), nil

	case *sql.And:
		left, err := evaluate(node.Left, record)
		if err != nil {
			return false, err
		}
		right, err := evaluate(node.Right, record)
		if err != nil {
			return false, err
		}
		return left && right, nil

	case *sql.Or:
		left, err := evaluate(node.Left, record)
		if err != nil {
			return false, err
		}
		right, err := evaluate(node.Right, record)
		if err != nil {
			return false, err
		}
		return left || right, nil

	default:
		return false, fmt.Errorf("%w: unsupported expression %T", core.ErrUnknownToken, expr)
	}
}

// OrderByClause stably sorts by each field in turn; missing values sort first.
type OrderByClause struct {
	Fields []string
}

func (clause OrderByClause) Apply(slice core.TableSlice) (core.TableSlice, error) {
	sorted := slice.Clone()
	slices.SortStableFunc(sorted, func(a, b core.Record) int {
		for _, field := range clause.Fields {
			if c := core.CompareOptional(a.Lookup(field), b.Lookup(field)); c != 0 {
				return c
			}
		}
		return 0
	})
	return sorted, nil
}

// LimitClause keeps at most Amount records.
type LimitClause struct {
	Amount int
}

func (clause LimitClause) Apply(slice core.TableSlice) (core.TableSlice, error) {
	if clause.Amount < 0 {
		return nil, fmt.Errorf("%w: negative LIMIT %d", core.ErrParse, clause.Amount)
	}
	return slice[:min(clause.Amount, len(slice))], nil
}

// clausesFor builds the pipeline for a SELECT in the fixed clause order.
func clausesFor(statement sql.SelectStatement) []Clause {
	var clauses []Clause
	if statement.Where != nil {
		clauses = append(clauses, WhereClause{Expr: statement.Where})
	}
	if len(statement.OrderBy) > 0 {
		clauses = append(clauses, OrderByClause{Fields: statement.OrderBy})
	}
	if statement.Limit != nil {
		clauses = append(clauses, LimitClause{Amount: *statement.Limit})
	}
	return clauses
}

// project extracts the requested fields from each record, in request order.
func project(slice core.TableSlice, fields []string) ([]SelectRow, error) {
	rows := make([]SelectRow, 0, len(slice))
	for _, record := range slice {
		row := make(SelectRow, len(fields))
		for i, field := range fields {
			value, ok := record[field]
			if !ok {
				return nil, fmt.Errorf("%w: SELECT references unknown field '%s'", core.ErrMissingField, field)
			}
			row[i] = FieldValue{Field: field, Value: value}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
