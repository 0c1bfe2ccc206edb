package questionnaire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldVar(ref string) map[string]any    { return map[string]any{"type": "field", "value": ref} }
func choiceVar(value string) map[string]any { return map[string]any{"type": "choice", "value": value} }

func cond(op string, vars ...any) Condition {
	return parseCondition(map[string]any{"op": op, "vars": vars})
}

func jumpRule(ref, to string, condition map[string]any) []Logic {
	return parseLogic([]any{map[string]any{
		"type": "field",
		"ref":  ref,
		"actions": []any{map[string]any{
			"action":    "jump",
			"details":   map[string]any{"to": map[string]any{"type": "field", "value": to}},
			"condition": condition,
		}},
	}})
}

func threeFields() []Field {
	return parseFields([]any{
		map[string]any{"id": "q1", "ref": "q1", "type": "yes_no"},
		map[string]any{"id": "q2", "ref": "q2"},
		map[string]any{"id": "q3", "ref": "q3"},
	})
}

func TestNextField_SequentialWithoutLogic(t *testing.T) {
	fields := threeFields()
	answers := Answers{"q1": "anything", "q2": []any{"x"}}

	next := NextField(&fields[0], answers, fields, nil)
	require.NotNil(t, next)
	assert.Equal(t, "q2", next.ID)

	next = NextField(&fields[1], Answers{}, fields, []Logic{})
	require.NotNil(t, next)
	assert.Equal(t, "q3", next.ID)

	assert.Nil(t, NextField(&fields[2], answers, fields, nil))
}

func TestNextField_NilAndUnknownCurrent(t *testing.T) {
	fields := threeFields()
	assert.Nil(t, NextField(nil, Answers{}, fields, nil))

	stray := Field{ID: "zz", Ref: "zz"}
	assert.Nil(t, NextField(&stray, Answers{}, fields, nil))
}

func TestNextField_AlwaysIgnoresAnswers(t *testing.T) {
	fields := threeFields()
	rules := jumpRule("q1", "q3", map[string]any{"op": "always", "vars": []any{}})

	for _, answers := range []Answers{{}, {"q1": "true"}, {"q1": nil}, {"other": 4.0}} {
		next := NextField(&fields[0], answers, fields, rules)
		require.NotNil(t, next)
		assert.Equal(t, "q3", next.ID)
	}
}

func TestNextField_ScenarioJumpWhenChoiceMatches(t *testing.T) {
	fields := threeFields()
	rules := jumpRule("q1", "q3", map[string]any{
		"op":   "is",
		"vars": []any{fieldVar("q1"), choiceVar("true")},
	})

	next := NextField(&fields[0], Answers{"q1": "true"}, fields, rules)
	require.NotNil(t, next)
	assert.Equal(t, "q3", next.ID)

	next = NextField(&fields[0], Answers{"q1": "false"}, fields, rules)
	require.NotNil(t, next)
	assert.Equal(t, "q2", next.ID)
}

func TestNextField_UnresolvableTargetFallsBack(t *testing.T) {
	fields := threeFields()
	rules := jumpRule("q1", "q9", map[string]any{"op": "always", "vars": []any{}})

	next := NextField(&fields[0], Answers{"q1": "true"}, fields, rules)
	require.NotNil(t, next)
	assert.Equal(t, "q2", next.ID)
}

func TestNextField_FirstResolvableActionWins(t *testing.T) {
	fields := threeFields()
	rules := parseLogic([]any{map[string]any{
		"ref": "q1",
		"actions": []any{
			map[string]any{
				"details":   map[string]any{"to": map[string]any{"type": "field", "value": "missing"}},
				"condition": map[string]any{"op": "always", "vars": []any{}},
			},
			map[string]any{
				"details":   map[string]any{"to": map[string]any{"type": "field", "value": "q2"}},
				"condition": map[string]any{"op": "is", "vars": []any{fieldVar("q1"), choiceVar("no")}},
			},
			map[string]any{
				"details":   map[string]any{"to": map[string]any{"type": "field", "value": "q3"}},
				"condition": map[string]any{"op": "always", "vars": []any{}},
			},
		},
	}})

	next := NextField(&fields[0], Answers{"q1": "yes"}, fields, rules)
	require.NotNil(t, next)
	assert.Equal(t, "q3", next.ID)
}

func TestNextField_OnlyFirstRuleForRefIsUsed(t *testing.T) {
	fields := threeFields()
	rules := append(
		jumpRule("q1", "q2", map[string]any{"op": "is", "vars": []any{fieldVar("q1"), choiceVar("never")}}),
		jumpRule("q1", "q3", map[string]any{"op": "always", "vars": []any{}})...,
	)

	next := NextField(&fields[0], Answers{"q1": "yes"}, fields, rules)
	require.NotNil(t, next)
	assert.Equal(t, "q2", next.ID, "second rule for the same ref is ignored; sequential fallback applies")
}

func TestNextField_TargetPrefersIDOverRef(t *testing.T) {
	fields := parseFields([]any{
		map[string]any{"id": "start", "ref": "start"},
		map[string]any{"id": "a", "ref": "b"},
		map[string]any{"id": "b", "ref": "c"},
	})
	rules := jumpRule("start", "b", map[string]any{"op": "always"})

	next := NextField(&fields[0], Answers{}, fields, rules)
	require.NotNil(t, next)
	assert.Equal(t, "b", next.ID)
}

func TestNextField_TargetByRef(t *testing.T) {
	fields := parseFields([]any{
		map[string]any{"id": "f1", "ref": "intro"},
		map[string]any{"id": "f2", "ref": "middle"},
		map[string]any{"id": "f3", "ref": "closing"},
	})
	rules := jumpRule("intro", "closing", map[string]any{"op": "always"})

	next := NextField(&fields[0], Answers{}, fields, rules)
	require.NotNil(t, next)
	assert.Equal(t, "f3", next.ID)
}

func TestEvaluate_ChoiceIsAndIsNot(t *testing.T) {
	is := cond("is", fieldVar("q"), choiceVar("b"))
	isNot := cond("is_not", fieldVar("q"), choiceVar("b"))

	assert.True(t, Evaluate(is, Answers{"q": []any{"b"}}))
	assert.False(t, Evaluate(isNot, Answers{"q": []any{"b"}}))

	assert.False(t, Evaluate(is, Answers{"q": []any{"a"}}))
	assert.True(t, Evaluate(isNot, Answers{"q": []any{"a"}}))

	assert.True(t, Evaluate(is, Answers{"q": []string{"a", "b"}}))
	assert.True(t, Evaluate(is, Answers{"q": "b"}), "scalar answers are wrapped")
}

func TestEvaluate_ChoiceOnUnansweredFieldIsFalse(t *testing.T) {
	assert.False(t, Evaluate(cond("is", fieldVar("q"), choiceVar("b")), Answers{}))
	assert.False(t, Evaluate(cond("is_not", fieldVar("q"), choiceVar("b")), Answers{}))
	assert.False(t, Evaluate(cond("is_not", fieldVar("q"), choiceVar("b")), Answers{"q": nil}))
}

func TestEvaluate_ChoiceWithOtherOpsIsFalse(t *testing.T) {
	answers := Answers{"q": []any{"b"}}
	assert.False(t, Evaluate(cond("contains", fieldVar("q"), choiceVar("b")), answers))
	assert.False(t, Evaluate(cond("not_contains", fieldVar("q"), choiceVar("b")), answers))
	assert.False(t, Evaluate(cond("greater", fieldVar("q"), choiceVar("b")), answers))
}

func TestEvaluate_ChoiceMatchesStringifiedNumbers(t *testing.T) {
	assert.True(t, Evaluate(cond("is", fieldVar("rating"), choiceVar("4")), Answers{"rating": 4.0}))
	assert.True(t, Evaluate(cond("is", fieldVar("agree"), choiceVar("true")), Answers{"agree": true}))
}

func TestEvaluate_FieldValueOnUnansweredField(t *testing.T) {
	isNot := cond("is_not", fieldVar("q"))
	is := cond("is", fieldVar("q"))

	assert.True(t, Evaluate(isNot, Answers{}))
	assert.False(t, Evaluate(is, Answers{}))
	assert.True(t, Evaluate(isNot, Answers{"q": nil}))

	assert.False(t, Evaluate(cond("contains", fieldVar("q")), Answers{}))
	assert.False(t, Evaluate(cond("not_contains", fieldVar("q")), Answers{}))
	assert.False(t, Evaluate(cond("greater", fieldVar("q")), Answers{}))
}

func TestEvaluate_FieldValueOnAnsweredField(t *testing.T) {
	answers := Answers{"q": ""}
	assert.True(t, Evaluate(cond("is", fieldVar("q")), answers), "an empty string still counts as answered")
	assert.False(t, Evaluate(cond("is_not", fieldVar("q")), answers))
}

func TestEvaluate_MissingFieldVarIsFalse(t *testing.T) {
	assert.False(t, Evaluate(cond("is_not"), Answers{}))
	assert.False(t, Evaluate(cond("is", choiceVar("b")), Answers{"b": "b"}))
}

// contains / not_contains compare the answer with itself in imported
// questionnaires. These tests pin that behaviour.
func TestEvaluate_LegacyContains(t *testing.T) {
	withTarget := cond("contains", fieldVar("q"), map[string]any{"type": "constant", "value": "zzz"})
	notWithTarget := cond("not_contains", fieldVar("q"), map[string]any{"type": "constant", "value": "abc"})

	assert.True(t, Evaluate(withTarget, Answers{"q": "abc"}))
	assert.True(t, Evaluate(cond("contains", fieldVar("q")), Answers{"q": 12.0}))
	assert.False(t, Evaluate(notWithTarget, Answers{"q": "abc"}))
	assert.False(t, Evaluate(cond("not_contains", fieldVar("q")), Answers{"q": "abc"}))
}

func TestEvaluate_StrictContains(t *testing.T) {
	engine := NewEngine(Options{StrictContains: true})
	target := map[string]any{"type": "constant", "value": "injury"}

	assert.True(t, engine.Evaluate(cond("contains", fieldVar("q"), target), Answers{"q": "personal injury claim"}))
	assert.False(t, engine.Evaluate(cond("contains", fieldVar("q"), target), Answers{"q": "divorce"}))
	assert.True(t, engine.Evaluate(cond("not_contains", fieldVar("q"), target), Answers{"q": "divorce"}))
	assert.False(t, engine.Evaluate(cond("contains", fieldVar("q")), Answers{"q": "anything"}), "no comparison target")
	assert.True(t, engine.Evaluate(cond("contains", fieldVar("q"), target), Answers{"q": []any{"injury", "other"}}))
}

func TestEvaluate_AndOr(t *testing.T) {
	answers := Answers{"a": "x", "b": []any{"yes"}}
	aAnswered := map[string]any{"op": "is", "vars": []any{fieldVar("a")}}
	bYes := map[string]any{"op": "is", "vars": []any{fieldVar("b"), choiceVar("yes")}}
	bNo := map[string]any{"op": "is", "vars": []any{fieldVar("b"), choiceVar("no")}}

	assert.True(t, Evaluate(cond("and", aAnswered, bYes), answers))
	assert.False(t, Evaluate(cond("and", aAnswered, bNo), answers))
	assert.True(t, Evaluate(cond("or", bNo, bYes), answers))
	assert.False(t, Evaluate(cond("or", bNo), answers))

	nested := cond("or", bNo, map[string]any{"op": "and", "vars": []any{aAnswered, bYes}})
	assert.True(t, Evaluate(nested, answers))
}

func TestEvaluate_EmptyCombinators(t *testing.T) {
	assert.True(t, Evaluate(cond("and"), Answers{}))
	assert.False(t, Evaluate(cond("or"), Answers{}))
}

// Bare vars directly inside and/or never hold. These tests pin that
// behaviour.
func TestEvaluate_BareVarsInCombinators(t *testing.T) {
	answers := Answers{"q": []any{"b"}}

	and := cond("and", fieldVar("q"), choiceVar("b"))
	require.IsType(t, AndCondition{}, and)
	require.IsType(t, VarOperand{}, and.(AndCondition).Operands[0])
	assert.False(t, Evaluate(and, answers))

	or := cond("or", fieldVar("q"), map[string]any{"op": "always"})
	assert.True(t, Evaluate(or, answers), "nested conditions still count")

	or = cond("or", fieldVar("q"), nil, "junk")
	assert.False(t, Evaluate(or, answers))
}

func TestEvaluate_NilCondition(t *testing.T) {
	assert.True(t, Evaluate(nil, Answers{}))
}

func TestParseCondition_Variants(t *testing.T) {
	c, err := ParseCondition([]byte(`{"op":"is","vars":[{"type":"field","value":"q1"},{"type":"choice","value":"c1"}]}`))
	require.NoError(t, err)
	is, ok := c.(IsCondition)
	require.True(t, ok)
	assert.Equal(t, "q1", is.Field)
	require.NotNil(t, is.Choice)
	assert.Equal(t, "c1", *is.Choice)

	c, err = ParseCondition([]byte(`{"op":"greater","vars":[{"type":"field","value":"age"},{"type":"constant","value":18}]}`))
	require.NoError(t, err)
	unknown, ok := c.(UnknownCondition)
	require.True(t, ok)
	assert.Equal(t, "greater", unknown.Op())
	require.NotNil(t, unknown.Target)
	assert.Equal(t, "18", *unknown.Target)

	_, err = ParseCondition([]byte(`{"op":`))
	assert.Error(t, err)
}

func TestMarshalCondition_RoundTrip(t *testing.T) {
	raw := `{"op":"or","vars":[{"type":"field","value":"q"},{"op":"is_not","vars":[{"type":"field","value":"q"}]}]}`
	c, err := ParseCondition([]byte(raw))
	require.NoError(t, err)

	out, err := MarshalCondition(c)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}
