package questionnaire

import (
	"encoding/json"
	"strings"
)

// Condition operators as they appear in the export.
const (
	OpAnd         = "and"
	OpOr          = "or"
	OpIs          = "is"
	OpIsNot       = "is_not"
	OpContains    = "contains"
	OpNotContains = "not_contains"
	OpAlways      = "always"
)

// Condition is a node of a logic action's condition tree. The set of
// implementations is closed: AndCondition, OrCondition, IsCondition,
// IsNotCondition, ContainsCondition, NotContainsCondition, AlwaysCondition,
// UnknownCondition and VarOperand.
type Condition interface {
	Op() string
	evaluate(answers Answers, opts Options) bool
}

// AndCondition is true when every operand is true. An empty operand list is
// true.
type AndCondition struct {
	Operands []Condition
}

// OrCondition is true when at least one operand is true.
type OrCondition struct {
	Operands []Condition
}

// AlwaysCondition is true unconditionally.
type AlwaysCondition struct {
	Vars []LogicVar
}

// VarOperand is a bare var sitting directly in an and/or operand list. It
// always evaluates to false; only nested conditions contribute.
type VarOperand struct {
	Raw any
}

// Var returns the operand as a LogicVar when it has that shape.
func (v VarOperand) Var() (LogicVar, bool) {
	m := asMap(v.Raw)
	if m == nil {
		return LogicVar{}, false
	}
	return LogicVar{Type: text(m["type"]), Value: text(m["value"])}, true
}

// Comparison holds the operands of an atomic condition.
type Comparison struct {
	// Field is the ref of the answer being inspected. A condition without
	// any field var is always false.
	Field string
	// Choice is set for choice based conditions.
	Choice *string
	// Target is the first constant or variable var. Only strict contains
	// matching reads it.
	Target *string
	// Vars are the vars exactly as imported.
	Vars []LogicVar
}

// IsCondition: for a choice condition the choice is among the answers;
// otherwise the field has an answer.
type IsCondition struct{ Comparison }

// IsNotCondition: for a choice condition the field is answered and the
// choice is not among the answers; otherwise the field has no answer.
type IsNotCondition struct{ Comparison }

// ContainsCondition is always true for an answered field unless strict
// contains matching is enabled.
type ContainsCondition struct{ Comparison }

// NotContainsCondition is always false unless strict contains matching is
// enabled.
type NotContainsCondition struct{ Comparison }

// UnknownCondition is any operator the engine does not implement
// (greater, less, ...). It evaluates to false.
type UnknownCondition struct {
	Operator string
	Comparison
}

func (AndCondition) Op() string         { return OpAnd }
func (OrCondition) Op() string          { return OpOr }
func (AlwaysCondition) Op() string      { return OpAlways }
func (VarOperand) Op() string           { return "" }
func (IsCondition) Op() string          { return OpIs }
func (IsNotCondition) Op() string       { return OpIsNot }
func (ContainsCondition) Op() string    { return OpContains }
func (NotContainsCondition) Op() string { return OpNotContains }
func (c UnknownCondition) Op() string   { return c.Operator }

func (c AndCondition) evaluate(answers Answers, opts Options) bool {
	for _, operand := range c.Operands {
		if !operand.evaluate(answers, opts) {
			return false
		}
	}
	return true
}

func (c OrCondition) evaluate(answers Answers, opts Options) bool {
	for _, operand := range c.Operands {
		if operand.evaluate(answers, opts) {
			return true
		}
	}
	return false
}

func (AlwaysCondition) evaluate(Answers, Options) bool { return true }

func (VarOperand) evaluate(Answers, Options) bool { return false }

func (UnknownCondition) evaluate(Answers, Options) bool { return false }

func (c IsCondition) evaluate(answers Answers, _ Options) bool {
	answer, ok := c.answer(answers)
	if !ok {
		return false
	}
	if c.Choice != nil {
		return answer != nil && containsString(answerStrings(answer), *c.Choice)
	}
	return answer != nil
}

func (c IsNotCondition) evaluate(answers Answers, _ Options) bool {
	answer, ok := c.answer(answers)
	if !ok {
		return false
	}
	if c.Choice != nil {
		return answer != nil && !containsString(answerStrings(answer), *c.Choice)
	}
	return answer == nil
}

func (c ContainsCondition) evaluate(answers Answers, opts Options) bool {
	answer, ok := c.answer(answers)
	if !ok || c.Choice != nil || answer == nil {
		return false
	}
	if !opts.StrictContains {
		return true
	}
	return c.Target != nil && answerContains(answer, *c.Target)
}

func (c NotContainsCondition) evaluate(answers Answers, opts Options) bool {
	answer, ok := c.answer(answers)
	if !ok || c.Choice != nil || answer == nil {
		return false
	}
	if !opts.StrictContains {
		return false
	}
	return c.Target != nil && !answerContains(answer, *c.Target)
}

// answer returns the inspected answer, nil when unanswered. ok is false when
// the condition names no field.
func (c Comparison) answer(answers Answers) (any, bool) {
	if c.Field == "" && !c.hasFieldVar() {
		return nil, false
	}
	return answers[c.Field], true
}

func (c Comparison) hasFieldVar() bool {
	for _, v := range c.Vars {
		if v.Type == VarField {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func answerContains(answer any, target string) bool {
	switch answer.(type) {
	case []string, []any:
		return containsString(answerStrings(answer), target)
	}
	return strings.Contains(Stringify(answer), target)
}

// parseCondition builds a Condition from an untyped {op, vars} object.
// A missing condition means always.
func parseCondition(raw any) Condition {
	m := asMap(raw)
	if m == nil {
		return AlwaysCondition{Vars: []LogicVar{}}
	}
	op, _ := m["op"].(string)
	rawVars := asSlice(m["vars"])

	switch op {
	case OpAnd:
		return AndCondition{Operands: parseOperands(rawVars)}
	case OpOr:
		return OrCondition{Operands: parseOperands(rawVars)}
	case OpAlways:
		return AlwaysCondition{Vars: parseVars(rawVars)}
	}

	cmp := newComparison(parseVars(rawVars))
	switch op {
	case OpIs:
		return IsCondition{cmp}
	case OpIsNot:
		return IsNotCondition{cmp}
	case OpContains:
		return ContainsCondition{cmp}
	case OpNotContains:
		return NotContainsCondition{cmp}
	}
	return UnknownCondition{Operator: op, Comparison: cmp}
}

// parseOperands reads an and/or operand list. Entries with an op key are
// nested conditions; anything else is kept as a VarOperand.
func parseOperands(raw []any) []Condition {
	operands := make([]Condition, 0, len(raw))
	for _, item := range raw {
		if m := asMap(item); m != nil {
			if _, ok := m["op"]; ok {
				operands = append(operands, parseCondition(m))
				continue
			}
		}
		operands = append(operands, VarOperand{Raw: item})
	}
	return operands
}

func parseVars(raw []any) []LogicVar {
	vars := make([]LogicVar, 0, len(raw))
	for _, item := range raw {
		m := asMap(item)
		if m == nil {
			continue
		}
		vars = append(vars, LogicVar{Type: text(m["type"]), Value: Stringify(m["value"])})
	}
	return vars
}

func newComparison(vars []LogicVar) Comparison {
	cmp := Comparison{Vars: vars}
	fieldSeen := false
	for _, v := range vars {
		switch v.Type {
		case VarField:
			if !fieldSeen {
				cmp.Field = v.Value
				fieldSeen = true
			}
		case VarChoice:
			if cmp.Choice == nil {
				value := v.Value
				cmp.Choice = &value
			}
		case VarConstant, VarVariable:
			if cmp.Target == nil {
				value := v.Value
				cmp.Target = &value
			}
		}
	}
	return cmp
}

type conditionJSON struct {
	Op   string `json:"op"`
	Vars []any  `json:"vars"`
}

func conditionDoc(c Condition) any {
	switch t := c.(type) {
	case nil:
		return conditionJSON{Op: OpAlways, Vars: []any{}}
	case VarOperand:
		return t.Raw
	case AndCondition:
		return conditionJSON{Op: OpAnd, Vars: operandDocs(t.Operands)}
	case OrCondition:
		return conditionJSON{Op: OpOr, Vars: operandDocs(t.Operands)}
	case AlwaysCondition:
		return conditionJSON{Op: OpAlways, Vars: varDocs(t.Vars)}
	case IsCondition:
		return conditionJSON{Op: OpIs, Vars: varDocs(t.Vars)}
	case IsNotCondition:
		return conditionJSON{Op: OpIsNot, Vars: varDocs(t.Vars)}
	case ContainsCondition:
		return conditionJSON{Op: OpContains, Vars: varDocs(t.Vars)}
	case NotContainsCondition:
		return conditionJSON{Op: OpNotContains, Vars: varDocs(t.Vars)}
	case UnknownCondition:
		return conditionJSON{Op: t.Operator, Vars: varDocs(t.Vars)}
	}
	return conditionJSON{Op: c.Op(), Vars: []any{}}
}

func operandDocs(operands []Condition) []any {
	out := make([]any, len(operands))
	for i, o := range operands {
		out[i] = conditionDoc(o)
	}
	return out
}

func varDocs(vars []LogicVar) []any {
	out := make([]any, len(vars))
	for i, v := range vars {
		out[i] = v
	}
	return out
}

// MarshalCondition renders a condition back into its {op, vars} form.
func MarshalCondition(c Condition) ([]byte, error) {
	return json.Marshal(conditionDoc(c))
}

// ParseCondition decodes a condition from its {op, vars} JSON form.
func ParseCondition(data []byte) (Condition, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return parseCondition(raw), nil
}
