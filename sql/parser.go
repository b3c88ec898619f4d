package sql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nickyhof/RecordDB/core"
)

// Parse matches text against the command grammar and turns the result into a
// Statement. Grammar failures, including unconsumed trailing input, are
// reported as core.ErrParse.
func Parse(text string) (Statement, error) {
	command, err := commandParser.ParseString("", text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrParse, err)
	}

	switch {
	case command.Create != nil:
		return parseCreate(command.Create)
	case command.Select != nil:
		return parseSelect(command.Select)
	case command.Insert != nil:
		return parseInsert(command.Insert)
	case command.Delete != nil:
		return parseDelete(command.Delete)
	case command.Read != nil:
		path, err := parsePath(command.Read.Path)
		if err != nil {
			return nil, err
		}
		return ReadStatement{Path: path}, nil
	case command.Save != nil:
		path, err := parsePath(command.Save.Path)
		if err != nil {
			return nil, err
		}
		return SaveStatement{Path: path}, nil
	default:
		return nil, fmt.Errorf("%w: empty command", core.ErrNoToken)
	}
}

func parseCreate(node *createAST) (Statement, error) {
	schema := make(core.Schema, len(node.Fields))
	for _, decl := range node.Fields {
		if _, exists := schema[decl.Name]; exists {
			return nil, fmt.Errorf("%w: field '%s' declared twice", core.ErrAlreadyExists, decl.Name)
		}
		fieldType, err := core.ParseFieldType(decl.Type)
		if err != nil {
			return nil, err
		}
		schema[decl.Name] = fieldType
	}

	return CreateStatement{
		Table:  node.Table,
		Key:    node.Key,
		Schema: schema,
	}, nil
}

func parseInsert(node *insertAST) (Statement, error) {
	record := make(core.IntermediateRecord, len(node.Assignments))
	for _, assign := range node.Assignments {
		if _, exists := record[assign.Field]; exists {
			return nil, fmt.Errorf("%w: field '%s' assigned twice", core.ErrAlreadyExists, assign.Field)
		}
		value, err := parseLiteral(assign.Value)
		if err != nil {
			return nil, err
		}
		record[assign.Field] = value
	}

	return InsertStatement{
		Table:  node.Table,
		Record: record,
	}, nil
}

func parseDelete(node *deleteAST) (Statement, error) {
	literal, err := parseLiteral(node.Key)
	if err != nil {
		return nil, err
	}
	key, err := literal.ToKeyValue()
	if err != nil {
		return nil, err
	}

	return DeleteStatement{
		Table: node.Table,
		Key:   key,
	}, nil
}

func parseSelect(node *selectAST) (Statement, error) {
	statement := SelectStatement{
		Table:   node.Table,
		Fields:  node.Fields,
		OrderBy: node.OrderBy,
	}

	if node.Where != nil {
		where, err := parseOr(node.Where)
		if err != nil {
			return nil, err
		}
		statement.Where = where
	}

	if node.Limit != nil {
		limit, err := strconv.Atoi(*node.Limit)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("%w: LIMIT expects a non-negative integer, got '%s'", core.ErrParse, *node.Limit)
		}
		statement.Limit = &limit
	}

	return statement, nil
}

func parseOr(node *orAST) (Expr, error) {
	if node.Left == nil {
		return nil, fmt.Errorf("%w: expected an expression", core.ErrNoToken)
	}
	left, err := parseAnd(node.Left)
	if err != nil {
		return nil, err
	}
	if node.Right == nil {
		return left, nil
	}
	right, err := parseOr(node.Right)
	if err != nil {
		return nil, err
	}
	return &Or{Left: left, Right: right}, nil
}

func parseAnd(node *andAST) (Expr, error) {
	if node.Left == nil {
		return nil, fmt.Errorf("%w: expected an expression", core.ErrNoToken)
	}
	left, err := parseBraced(node.Left)
	if err != nil {
		return nil, err
	}
	if node.Right == nil {
		return left, nil
	}
	right, err := parseAnd(node.Right)
	if err != nil {
		return nil, err
	}
	return &And{Left: left, Right: right}, nil
}

func parseBraced(node *bracedAST) (Expr, error) {
	switch {
	case node.Comparison != nil:
		return parseComparison(node.Comparison)
	case node.Group != nil:
		return parseOr(node.Group)
	default:
		return nil, fmt.Errorf("%w: expected a comparison or a parenthesised expression", core.ErrNoToken)
	}
}

func parseComparison(node *comparisonAST) (Expr, error) {
	operator, err := parseOperator(node.Operator)
	if err != nil {
		return nil, err
	}
	value, err := parseLiteral(node.Value)
	if err != nil {
		return nil, err
	}
	return &Comparison{
		Field:    node.Field,
		Operator: operator,
		Value:    value,
	}, nil
}

func parseLiteral(node *literalAST) (core.IntermediateValue, error) {
	switch {
	case node == nil:
		return core.IntermediateValue{}, fmt.Errorf("%w: expected a literal", core.ErrMissingToken)
	case node.Number != nil:
		number, err := strconv.ParseFloat(*node.Number, 64)
		if err != nil {
			return core.IntermediateValue{}, fmt.Errorf("%w: malformed number '%s'", core.ErrParse, *node.Number)
		}
		return core.NumericLiteral(number), nil
	case node.String != nil:
		return core.StringLiteral(*node.String), nil
	case node.Bool != nil:
		switch *node.Bool {
		case "true":
			return core.BoolLiteral(true), nil
		case "false":
			return core.BoolLiteral(false), nil
		default:
			return core.IntermediateValue{}, fmt.Errorf("%w: boolean '%s'", core.ErrUnknownToken, *node.Bool)
		}
	default:
		return core.IntermediateValue{}, fmt.Errorf("%w: expected a literal", core.ErrMissingToken)
	}
}

func parsePath(raw string) (string, error) {
	path := raw
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return "", fmt.Errorf("%w: malformed path %s", core.ErrParse, raw)
		}
		path = unquoted
	}
	if path == "" {
		return "", fmt.Errorf("%w: empty path", core.ErrMissingToken)
	}
	return path, nil
}
