package questionnaire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routedForm = `{
  "title": "Intake",
  "welcome_screens": [{"id": "w", "title": "Welcome"}],
  "thankyou_screens": [{"id": "ty", "title": "Thanks {{field:name}}"}],
  "fields": [
    {"id": "s1", "type": "statement", "title": "Free consultation"},
    {"id": "s2", "type": "statement", "title": "Confidential"},
    {"id": "n", "ref": "name", "type": "short_text", "title": "Name"},
    {"id": "k", "ref": "kind", "type": "multiple_choice", "title": "Kind",
     "properties": {"choices": [{"id": "car", "label": "Car"}, {"id": "other", "label": "Other"}]}},
    {"id": "d", "ref": "details", "type": "long_text", "title": "Details"},
    {"id": "e", "ref": "email", "type": "email", "title": "Email"}
  ],
  "logic": [
    {"type": "field", "ref": "kind", "actions": [
      {"action": "jump", "details": {"to": {"type": "field", "value": "email"}},
       "condition": {"op": "is", "vars": [{"type": "field", "value": "kind"}, {"type": "choice", "value": "car"}]}}
    ]}
  ]
}`

func TestNavigator_IntroAndFields(t *testing.T) {
	cfg := mustParse(t, routedForm)
	nav := NewNavigator(cfg, nil)

	require.Len(t, nav.Fields(), 4)
	assert.Equal(t, "n", nav.Fields()[0].ID)

	start := nav.Start()
	assert.Equal(t, StepWelcome, start.Kind)
	require.NotNil(t, start.Screen)
	assert.Equal(t, "w", start.Screen.ID)
	require.Len(t, start.Intro, 2)
	assert.Equal(t, "welcome", start.Key())
}

func TestNavigator_Walk(t *testing.T) {
	cfg := mustParse(t, routedForm)
	nav := NewNavigator(cfg, nil)
	answers := Answers{"name": "Ana", "kind": "car"}

	step := nav.Next(nav.Start(), answers)
	assert.Equal(t, StepQuestion, step.Kind)
	assert.Equal(t, "n", step.Field.ID)
	assert.Equal(t, 0, step.Index)

	step = nav.Next(step, answers)
	assert.Equal(t, "k", step.Field.ID)
	assert.Equal(t, 25, nav.Progress(step))

	step = nav.Next(step, answers)
	assert.Equal(t, "e", step.Field.ID, "logic skips the details question")
	assert.Equal(t, 3, step.Index)
	assert.Equal(t, "field:e", step.Key())

	assert.False(t, step.Final())

	step = nav.Next(step, answers)
	assert.Equal(t, StepThankYou, step.Kind)
	require.NotNil(t, step.Screen)
	assert.Equal(t, "ty", step.Screen.ID)
	assert.Equal(t, 100, nav.Progress(step))
	assert.True(t, step.Final())
	assert.Equal(t, step, nav.End())

	step = nav.Next(step, answers)
	assert.Equal(t, StepDone, step.Kind)
	assert.Equal(t, StepDone, nav.Next(step, answers).Kind)
}

func TestNavigator_SequentialWhenConditionFails(t *testing.T) {
	cfg := mustParse(t, routedForm)
	nav := NewNavigator(cfg, nil)

	kind, ok := nav.Resolve("field:k")
	require.True(t, ok)
	next := nav.Next(kind, Answers{"kind": "other"})
	assert.Equal(t, "d", next.Field.ID)
}

func TestNavigator_NoWelcome(t *testing.T) {
	cfg := mustParse(t, `{"fields": [{"id": "a", "type": "short_text"}]}`)
	nav := NewNavigator(cfg, NewEngine(Options{}))

	start := nav.Start()
	assert.Equal(t, StepQuestion, start.Kind)
	assert.Equal(t, "a", start.Field.ID)
	assert.Equal(t, StepDone, nav.Next(start, nil).Kind, "no thank-you screen ends the session")
}

func TestNavigator_OnlyStatements(t *testing.T) {
	cfg := mustParse(t, `{"fields": [{"id": "s", "type": "statement"}]}`)
	nav := NewNavigator(cfg, nil)

	assert.Empty(t, nav.Fields())
	assert.Empty(t, cfg.IntroStatements())
	assert.Equal(t, StepDone, nav.Start().Kind)
}

func TestNavigator_LaterStatementIsNavigable(t *testing.T) {
	cfg := mustParse(t, `{"fields": [{"id": "a"}, {"id": "s", "type": "statement"}, {"id": "b"}]}`)
	nav := NewNavigator(cfg, nil)

	require.Len(t, nav.Fields(), 3)
	step, ok := nav.Resolve("field:a")
	require.True(t, ok)
	assert.Equal(t, "s", nav.Next(step, nil).Field.ID)
}

func TestNavigator_Resolve(t *testing.T) {
	cfg := mustParse(t, routedForm)
	nav := NewNavigator(cfg, nil)

	for _, key := range []string{"welcome", "field:n", "field:e", "thankyou:ty", "done"} {
		step, ok := nav.Resolve(key)
		require.True(t, ok, key)
		assert.Equal(t, key, step.Key())
	}

	for _, key := range []string{"", "field:s1", "field:nope", "thankyou:nope", "bogus"} {
		_, ok := nav.Resolve(key)
		assert.False(t, ok, key)
	}
}

func TestConfiguration_Lookups(t *testing.T) {
	cfg := mustParse(t, routedForm)

	require.NotNil(t, cfg.FieldByIDOrRef("email"))
	assert.Equal(t, "e", cfg.FieldByIDOrRef("email").ID)
	assert.Equal(t, "email", cfg.FieldByIDOrRef("e").Ref)
	assert.Nil(t, cfg.FieldByIDOrRef("nope"))

	assert.Equal(t, "ty", cfg.ThankYouScreen().ID)
	assert.Equal(t, "w", cfg.WelcomeScreen().ID)
	assert.Nil(t, (&Configuration{}).ThankYouScreen())
}
