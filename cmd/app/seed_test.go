package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workchat-intake-backend/internal/questionnaire"
)

func TestDemoFormRouting(t *testing.T) {
	cfg, err := questionnaire.ParseJSON([]byte(demoForm))
	require.NoError(t, err)
	nav := questionnaire.NewNavigator(cfg, nil)

	walk := func(answers questionnaire.Answers) []string {
		var refs []string
		step := nav.Next(nav.Start(), answers)
		for step.Kind == questionnaire.StepQuestion {
			refs = append(refs, step.Field.Ref)
			step = nav.Next(step, answers)
		}
		assert.Equal(t, questionnaire.StepThankYou, step.Kind)
		return refs
	}

	assert.Equal(t,
		[]string{"first_name", "last_name", "incident_type", "injured", "police_report", "details", "phone", "email"},
		walk(questionnaire.Answers{"incident_type": "car"}))
	assert.Equal(t,
		[]string{"first_name", "last_name", "incident_type", "details", "phone", "email"},
		walk(questionnaire.Answers{"incident_type": "work"}))
}
