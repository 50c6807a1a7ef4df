package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// compareOp identifies a scalar comparison operator
type compareOp int

const (
	opEQ compareOp = iota
	opNE
	opLT
	opLE
	opGT
	opGE
	opBetween
	opOneOf
)

// IntExpression is a comparison over a 64 bit integer field
type IntExpression struct {
	op  compareOp
	a   int64
	b   int64
	set []int64
}

// IntEQ matches values equal to v
func IntEQ(v int64) IntExpression {
	return IntExpression{op: opEQ, a: v}
}

// IntNE matches values not equal to v
func IntNE(v int64) IntExpression {
	return IntExpression{op: opNE, a: v}
}

// IntLT matches values less than v
func IntLT(v int64) IntExpression {
	return IntExpression{op: opLT, a: v}
}

// IntLE matches values less than or equal to v
func IntLE(v int64) IntExpression {
	return IntExpression{op: opLE, a: v}
}

// IntGT matches values greater than v
func IntGT(v int64) IntExpression {
	return IntExpression{op: opGT, a: v}
}

// IntGE matches values greater than or equal to v
func IntGE(v int64) IntExpression {
	return IntExpression{op: opGE, a: v}
}

// IntBetween matches values in the inclusive range [low, high]
func IntBetween(low, high int64) IntExpression {
	return IntExpression{op: opBetween, a: low, b: high}
}

// IntOneOf matches values equal to any of the given values
func IntOneOf(values ...int64) IntExpression {
	set := make([]int64, len(values))
	copy(set, values)
	return IntExpression{op: opOneOf, set: set}
}

// Matches reports whether the value satisfies the expression
func (e IntExpression) Matches(v int64) bool {

	switch e.op {
	case opEQ:
		return v == e.a
	case opNE:
		return v != e.a
	case opLT:
		return v < e.a
	case opLE:
		return v <= e.a
	case opGT:
		return v > e.a
	case opGE:
		return v >= e.a
	case opBetween:
		return v >= e.a && v <= e.b
	case opOneOf:
		for _, s := range e.set {
			if v == s {
				return true
			}
		}
		return false
	}

	return false
}

// FloatExpression is a comparison over a 64 bit float field
type FloatExpression struct {
	op  compareOp
	a   float64
	b   float64
	set []float64
}

// FloatEQ matches values equal to v
func FloatEQ(v float64) FloatExpression {
	return FloatExpression{op: opEQ, a: v}
}

// FloatNE matches values not equal to v
func FloatNE(v float64) FloatExpression {
	return FloatExpression{op: opNE, a: v}
}

// FloatLT matches values less than v
func FloatLT(v float64) FloatExpression {
	return FloatExpression{op: opLT, a: v}
}

// FloatLE matches values less than or equal to v
func FloatLE(v float64) FloatExpression {
	return FloatExpression{op: opLE, a: v}
}

// FloatGT matches values greater than v
func FloatGT(v float64) FloatExpression {
	return FloatExpression{op: opGT, a: v}
}

// FloatGE matches values greater than or equal to v
func FloatGE(v float64) FloatExpression {
	return FloatExpression{op: opGE, a: v}
}

// FloatBetween matches values in the inclusive range [low, high]
func FloatBetween(low, high float64) FloatExpression {
	return FloatExpression{op: opBetween, a: low, b: high}
}

// FloatOneOf matches values equal to any of the given values
func FloatOneOf(values ...float64) FloatExpression {
	set := make([]float64, len(values))
	copy(set, values)
	return FloatExpression{op: opOneOf, set: set}
}

// Matches reports whether the value satisfies the expression
func (e FloatExpression) Matches(v float64) bool {

	switch e.op {
	case opEQ:
		return v == e.a
	case opNE:
		return v != e.a
	case opLT:
		return v < e.a
	case opLE:
		return v <= e.a
	case opGT:
		return v > e.a
	case opGE:
		return v >= e.a
	case opBetween:
		return v >= e.a && v <= e.b
	case opOneOf:
		for _, s := range e.set {
			if v == s {
				return true
			}
		}
		return false
	}

	return false
}

// stringOp identifies a string comparison operator
type stringOp int

const (
	sopEQ stringOp = iota
	sopNE
	sopContains
	sopNotContains
	sopStartsWith
	sopEndsWith
	sopOneOf
)

// StringExpression is a comparison over a string field
type StringExpression struct {
	op  stringOp
	v   string
	set []string
}

// StrEQ matches strings equal to v
func StrEQ(v string) StringExpression {
	return StringExpression{op: sopEQ, v: v}
}

// StrNE matches strings not equal to v
func StrNE(v string) StringExpression {
	return StringExpression{op: sopNE, v: v}
}

// StrContains matches strings containing v
func StrContains(v string) StringExpression {
	return StringExpression{op: sopContains, v: v}
}

// StrNotContains matches strings not containing v
func StrNotContains(v string) StringExpression {
	return StringExpression{op: sopNotContains, v: v}
}

// StrStartsWith matches strings starting with v
func StrStartsWith(v string) StringExpression {
	return StringExpression{op: sopStartsWith, v: v}
}

// StrEndsWith matches strings ending with v
func StrEndsWith(v string) StringExpression {
	return StringExpression{op: sopEndsWith, v: v}
}

// StrOneOf matches strings equal to any of the given values
func StrOneOf(values ...string) StringExpression {
	set := make([]string, len(values))
	copy(set, values)
	return StringExpression{op: sopOneOf, set: set}
}

// Matches reports whether the value satisfies the expression
func (e StringExpression) Matches(v string) bool {

	switch e.op {
	case sopEQ:
		return v == e.v
	case sopNE:
		return v != e.v
	case sopContains:
		return strings.Contains(v, e.v)
	case sopNotContains:
		return !strings.Contains(v, e.v)
	case sopStartsWith:
		return strings.HasPrefix(v, e.v)
	case sopEndsWith:
		return strings.HasSuffix(v, e.v)
	case sopOneOf:
		for _, s := range e.set {
			if v == s {
				return true
			}
		}
		return false
	}

	return false
}

// MarshalJSON encodes the expression as a single key object keyed by the
// operator name
func (e IntExpression) MarshalJSON() ([]byte, error) {

	switch e.op {
	case opEQ:
		return json.Marshal(map[string]any{"eq": e.a})
	case opNE:
		return json.Marshal(map[string]any{"ne": e.a})
	case opLT:
		return json.Marshal(map[string]any{"lt": e.a})
	case opLE:
		return json.Marshal(map[string]any{"le": e.a})
	case opGT:
		return json.Marshal(map[string]any{"gt": e.a})
	case opGE:
		return json.Marshal(map[string]any{"ge": e.a})
	case opBetween:
		return json.Marshal(map[string]any{"between": [2]int64{e.a, e.b}})
	case opOneOf:
		return json.Marshal(map[string]any{"one_of": e.set})
	}

	return nil, fmt.Errorf("unknown integer operator %d", e.op)
}

// UnmarshalJSON decodes the expression from its single key object form
func (e *IntExpression) UnmarshalJSON(data []byte) error {

	name, payload, err := expressionParts(data)

	if err != nil {
		return err
	}

	switch name {
	case "eq", "ne", "lt", "le", "gt", "ge":
		var v int64

		if err := json.Unmarshal(payload, &v); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

		switch name {
		case "eq":
			*e = IntEQ(v)
		case "ne":
			*e = IntNE(v)
		case "lt":
			*e = IntLT(v)
		case "le":
			*e = IntLE(v)
		case "gt":
			*e = IntGT(v)
		case "ge":
			*e = IntGE(v)
		}
		return nil

	case "between":
		var bounds []int64

		if err := json.Unmarshal(payload, &bounds); err != nil {
			return fmt.Errorf("decode between: %w", err)
		}

		if len(bounds) != 2 {
			return fmt.Errorf("between needs 2 bounds, got %d", len(bounds))
		}

		*e = IntBetween(bounds[0], bounds[1])
		return nil

	case "one_of":
		var set []int64

		if err := json.Unmarshal(payload, &set); err != nil {
			return fmt.Errorf("decode one_of: %w", err)
		}

		*e = IntOneOf(set...)
		return nil
	}

	return fmt.Errorf("unknown integer operator %q", name)
}

// MarshalJSON encodes the expression as a single key object keyed by the
// operator name
func (e FloatExpression) MarshalJSON() ([]byte, error) {

	switch e.op {
	case opEQ:
		return json.Marshal(map[string]any{"eq": e.a})
	case opNE:
		return json.Marshal(map[string]any{"ne": e.a})
	case opLT:
		return json.Marshal(map[string]any{"lt": e.a})
	case opLE:
		return json.Marshal(map[string]any{"le": e.a})
	case opGT:
		return json.Marshal(map[string]any{"gt": e.a})
	case opGE:
		return json.Marshal(map[string]any{"ge": e.a})
	case opBetween:
		return json.Marshal(map[string]any{"between": [2]float64{e.a, e.b}})
	case opOneOf:
		return json.Marshal(map[string]any{"one_of": e.set})
	}

	return nil, fmt.Errorf("unknown float operator %d", e.op)
}

// UnmarshalJSON decodes the expression from its single key object form
func (e *FloatExpression) UnmarshalJSON(data []byte) error {

	name, payload, err := expressionParts(data)

	if err != nil {
		return err
	}

	switch name {
	case "eq", "ne", "lt", "le", "gt", "ge":
		var v float64

		if err := json.Unmarshal(payload, &v); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

		switch name {
		case "eq":
			*e = FloatEQ(v)
		case "ne":
			*e = FloatNE(v)
		case "lt":
			*e = FloatLT(v)
		case "le":
			*e = FloatLE(v)
		case "gt":
			*e = FloatGT(v)
		case "ge":
			*e = FloatGE(v)
		}
		return nil

	case "between":
		var bounds []float64

		if err := json.Unmarshal(payload, &bounds); err != nil {
			return fmt.Errorf("decode between: %w", err)
		}

		if len(bounds) != 2 {
			return fmt.Errorf("between needs 2 bounds, got %d", len(bounds))
		}

		*e = FloatBetween(bounds[0], bounds[1])
		return nil

	case "one_of":
		var set []float64

		if err := json.Unmarshal(payload, &set); err != nil {
			return fmt.Errorf("decode one_of: %w", err)
		}

		*e = FloatOneOf(set...)
		return nil
	}

	return fmt.Errorf("unknown float operator %q", name)
}

// MarshalJSON encodes the expression as a single key object keyed by the
// operator name
func (e StringExpression) MarshalJSON() ([]byte, error) {

	switch e.op {
	case sopEQ:
		return json.Marshal(map[string]any{"eq": e.v})
	case sopNE:
		return json.Marshal(map[string]any{"ne": e.v})
	case sopContains:
		return json.Marshal(map[string]any{"contains": e.v})
	case sopNotContains:
		return json.Marshal(map[string]any{"not_contains": e.v})
	case sopStartsWith:
		return json.Marshal(map[string]any{"starts_with": e.v})
	case sopEndsWith:
		return json.Marshal(map[string]any{"ends_with": e.v})
	case sopOneOf:
		return json.Marshal(map[string]any{"one_of": e.set})
	}

	return nil, fmt.Errorf("unknown string operator %d", e.op)
}

// UnmarshalJSON decodes the expression from its single key object form
func (e *StringExpression) UnmarshalJSON(data []byte) error {

	name, payload, err := expressionParts(data)

	if err != nil {
		return err
	}

	switch name {
	case "eq", "ne", "contains", "not_contains", "starts_with", "ends_with":
		var v string

		if err := json.Unmarshal(payload, &v); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}

		switch name {
		case "eq":
			*e = StrEQ(v)
		case "ne":
			*e = StrNE(v)
		case "contains":
			*e = StrContains(v)
		case "not_contains":
			*e = StrNotContains(v)
		case "starts_with":
			*e = StrStartsWith(v)
		case "ends_with":
			*e = StrEndsWith(v)
		}
		return nil

	case "one_of":
		var set []string

		if err := json.Unmarshal(payload, &set); err != nil {
			return fmt.Errorf("decode one_of: %w", err)
		}

		*e = StrOneOf(set...)
		return nil
	}

	return fmt.Errorf("unknown string operator %q", name)
}

// expressionParts splits a single key expression object into its operator
// name and payload
func expressionParts(data []byte) (string, json.RawMessage, error) {

	var raw map[string]json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return "", nil, err
	}

	if len(raw) != 1 {
		return "", nil, fmt.Errorf(
			"expression must have exactly one key, got %d", len(raw))
	}

	for name, payload := range raw {
		return name, payload, nil
	}

	return "", nil, nil
}
