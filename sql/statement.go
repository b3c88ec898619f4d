package sql

import (
	"fmt"

	"github.com/nickyhof/RecordDB/core"
)

type StatementType int

const (
	CreateStatementType StatementType = iota
	InsertStatementType
	DeleteStatementType
	SelectStatementType
	ReadStatementType
	SaveStatementType
)

func (statementType StatementType) String() string {
	switch statementType {
	case CreateStatementType:
		return "CREATE"
	case InsertStatementType:
		return "INSERT"
	case DeleteStatementType:
		return "DELETE"
	case SelectStatementType:
		return "SELECT"
	case ReadStatementType:
		return "READ_FROM"
	case SaveStatementType:
		return "SAVE_AS"
	default:
		return fmt.Sprintf("StatementType(%d)", int(statementType))
	}
}

type Statement interface {
	Type() StatementType
}

type CreateStatement struct {
	Table  string
	Key    string
	Schema core.Schema
}

type InsertStatement struct {
	Table  string
	Record core.IntermediateRecord
}

type DeleteStatement struct {
	Table string
	Key   core.KeyValue
}

type SelectStatement struct {
	Table   string
	Fields  []string
	Where   Expr // nil when there is no WHERE clause
	OrderBy []string
	Limit   *int
}

type ReadStatement struct {
	Path string
}

type SaveStatement struct {
	Path string
}

func (s CreateStatement) Type() StatementType { return CreateStatementType }
func (s InsertStatement) Type() StatementType { return InsertStatementType }
func (s DeleteStatement) Type() StatementType { return DeleteStatementType }
func (s SelectStatement) Type() StatementType { return SelectStatementType }
func (s ReadStatement) Type() StatementType   { return ReadStatementType }
func (s SaveStatement) Type() StatementType   { return SaveStatementType }

type WhereOperator int

const (
	EqualsOperator WhereOperator = iota
	NotEqualsOperator
	LessThanOperator
	GreaterThanOperator
	LessThanOrEqualOperator
	GreaterThanOrEqualOperator
)

func (operator WhereOperator) String() string {
	switch operator {
	case EqualsOperator:
		return "="
	case NotEqualsOperator:
		return "!="
	case LessThanOperator:
		return "<"
	case GreaterThanOperator:
		return ">"
	case LessThanOrEqualOperator:
		return "<="
	case GreaterThanOrEqualOperator:
		return ">="
	default:
		return fmt.Sprintf("WhereOperator(%d)", int(operator))
	}
}

// Holds reports whether an ordering (negative, zero or positive) satisfies the operator.
func (operator WhereOperator) Holds(ordering int) bool {
	switch operator {
	case EqualsOperator:
		return ordering == 0
	case NotEqualsOperator:
		return ordering != 0
	case LessThanOperator:
		return ordering < 0
	case GreaterThanOperator:
		return ordering > 0
	case LessThanOrEqualOperator:
		return ordering <= 0
	case GreaterThanOrEqualOperator:
		return ordering >= 0
	default:
		return false
	}
}

func parseOperator(text string) (WhereOperator, error) {
	switch text {
	case "=":
		return EqualsOperator, nil
	case "!=":
		return NotEqualsOperator, nil
	case "<":
		return LessThanOperator, nil
	case ">":
		return GreaterThanOperator, nil
	case "<=":
		return LessThanOrEqualOperator, nil
	case ">=":
		return GreaterThanOrEqualOperator, nil
	default:
		return 0, fmt.Errorf("%w: operator '%s'", core.ErrUnknownToken, text)
	}
}

// Expr is a node of a WHERE expression tree: *Comparison, *And or *Or.
type Expr interface {
	String() string
	expr()
}

type Comparison struct {
	Field    string
	Operator WhereOperator
	Value    core.IntermediateValue
}

type And struct {
	Left, Right Expr
}

type Or struct {
	Left, Right Expr
}

func (*Comparison) expr() {}
func (*And) expr()        {}
func (*Or) expr()         {}

func (c *Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Field, c.Operator, c.Value)
}

func (a *And) String() string {
	return fmt.Sprintf("(%s AND %s)", a.Left, a.Right)
}

func (o *Or) String() string {
	return fmt.Sprintf("(%s OR %s)", o.Left, o.Right)
}
