package service

import (
	"workchat-intake-backend/internal/model"
	"workchat-intake-backend/internal/questionnaire"
)

// StepView is a navigator step as shown to the respondent, with every
// {{field:...}} reference in its titles already replaced.
type StepView struct {
	Kind      questionnaire.StepKind `json:"type"`
	Key       string                 `json:"key"`
	Field     *questionnaire.Field   `json:"field,omitempty"`
	Screen    *questionnaire.Screen  `json:"screen,omitempty"`
	Intro     []questionnaire.Field  `json:"intro,omitempty"`
	Progress  int                    `json:"progress"`
	CanGoBack bool                   `json:"can_go_back"`
}

// Session is what the response endpoints return after every move.
type Session struct {
	ResponseID string         `json:"response_id"`
	SessionID  string         `json:"session_id"`
	Status     string         `json:"status"`
	Answers    map[string]any `json:"answers"`
	Step       StepView       `json:"step"`
}

func newSession(resp *model.Response, nav *questionnaire.Navigator, step questionnaire.Step) *Session {
	answers := questionnaire.Answers(resp.Answers.Data())
	view := StepView{
		Kind:      step.Kind,
		Key:       step.Key(),
		Progress:  nav.Progress(step),
		CanGoBack: step.Kind == questionnaire.StepQuestion && len(resp.History.Data()) > 0 && !resp.Completed(),
	}
	if step.Field != nil {
		f := *step.Field
		f.Title = questionnaire.Interpolate(f.Title, answers)
		view.Field = &f
	}
	if step.Screen != nil {
		s := *step.Screen
		s.Title = questionnaire.Interpolate(s.Title, answers)
		view.Screen = &s
	}
	for _, f := range step.Intro {
		f.Title = questionnaire.Interpolate(f.Title, answers)
		view.Intro = append(view.Intro, f)
	}

	out := map[string]any{}
	for k, v := range resp.Answers.Data() {
		out[k] = v
	}
	return &Session{
		ResponseID: resp.ID,
		SessionID:  resp.SessionID,
		Status:     resp.Status,
		Answers:    out,
		Step:       view,
	}
}
