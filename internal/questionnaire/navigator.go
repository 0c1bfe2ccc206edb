package questionnaire

import "strings"

// StepKind names the screen a respondent is on.
type StepKind string

const (
	StepWelcome  StepKind = "welcome"
	StepQuestion StepKind = "question"
	StepThankYou StepKind = "thankyou"
	StepDone     StepKind = "done"
)

// Step is one position in a response session.
type Step struct {
	Kind   StepKind `json:"type"`
	Field  *Field   `json:"field,omitempty"`
	Screen *Screen  `json:"screen,omitempty"`
	Intro  []Field  `json:"intro,omitempty"`
	Index  int      `json:"index"`
}

// Key identifies the step in a form that can be stored and resolved later.
func (s Step) Key() string {
	switch s.Kind {
	case StepQuestion:
		if s.Field != nil {
			return "field:" + s.Field.ID
		}
	case StepThankYou:
		if s.Screen != nil {
			return "thankyou:" + s.Screen.ID
		}
		return "thankyou:"
	case StepWelcome:
		return "welcome"
	}
	return "done"
}

// Final reports whether no question follows the step.
func (s Step) Final() bool {
	return s.Kind == StepThankYou || s.Kind == StepDone
}

// Navigator drives a session through
// welcome -> question ... -> thank-you -> done, asking the engine for every
// question to question transition.
type Navigator struct {
	cfg    *Configuration
	engine *Engine
	fields []Field
}

func NewNavigator(cfg *Configuration, engine *Engine) *Navigator {
	if engine == nil {
		engine = defaultEngine
	}
	return &Navigator{cfg: cfg, engine: engine, fields: cfg.NavigableFields()}
}

// Fields are the navigable fields, leading intro statements excluded.
func (n *Navigator) Fields() []Field {
	return n.fields
}

// Start returns the first step of a new session. The welcome step is used
// only when there is a welcome screen or intro statements to show.
func (n *Navigator) Start() Step {
	intro := n.cfg.IntroStatements()
	if len(n.cfg.WelcomeScreens) > 0 || len(intro) > 0 {
		return Step{Kind: StepWelcome, Screen: n.cfg.WelcomeScreen(), Intro: intro}
	}
	return n.firstQuestion()
}

// Next returns the step after from.
func (n *Navigator) Next(from Step, answers Answers) Step {
	switch from.Kind {
	case StepWelcome:
		return n.firstQuestion()
	case StepQuestion:
		next := n.engine.NextField(from.Field, answers, n.fields, n.cfg.Logic)
		if next == nil {
			return n.End()
		}
		return n.question(next)
	}
	return Step{Kind: StepDone}
}

// Resolve turns a key produced by Step.Key back into a step.
func (n *Navigator) Resolve(key string) (Step, bool) {
	switch {
	case key == "welcome":
		return Step{Kind: StepWelcome, Screen: n.cfg.WelcomeScreen(), Intro: n.cfg.IntroStatements()}, true
	case key == "done":
		return Step{Kind: StepDone}, true
	case strings.HasPrefix(key, "field:"):
		id := strings.TrimPrefix(key, "field:")
		for i := range n.fields {
			if n.fields[i].ID == id {
				return n.question(&n.fields[i]), true
			}
		}
	case strings.HasPrefix(key, "thankyou:"):
		id := strings.TrimPrefix(key, "thankyou:")
		for i := range n.cfg.ThankYouScreens {
			if n.cfg.ThankYouScreens[i].ID == id {
				return Step{Kind: StepThankYou, Screen: &n.cfg.ThankYouScreens[i]}, true
			}
		}
		if id == "" {
			return Step{Kind: StepThankYou}, true
		}
	}
	return Step{}, false
}

// Progress is the share of navigable fields before the step, in percent.
func (n *Navigator) Progress(s Step) int {
	switch s.Kind {
	case StepQuestion:
		if len(n.fields) == 0 {
			return 0
		}
		return s.Index * 100 / len(n.fields)
	case StepThankYou, StepDone:
		return 100
	}
	return 0
}

func (n *Navigator) firstQuestion() Step {
	if len(n.fields) == 0 {
		return n.End()
	}
	return n.question(&n.fields[0])
}

func (n *Navigator) question(f *Field) Step {
	idx := 0
	for i := range n.fields {
		if n.fields[i].ID == f.ID {
			idx = i
			break
		}
	}
	return Step{Kind: StepQuestion, Field: f, Index: idx}
}

// End is the step shown once no question is left: the first thank-you
// screen, or done when there is none.
func (n *Navigator) End() Step {
	if s := n.cfg.ThankYouScreen(); s != nil {
		return Step{Kind: StepThankYou, Screen: s}
	}
	return Step{Kind: StepDone}
}
