package questionnaire

// Options tune condition evaluation.
type Options struct {
	// StrictContains makes contains / not_contains compare the answer with
	// the condition's constant or variable var. When false, the imported
	// behaviour is kept: contains is true and not_contains is false for any
	// answered field.
	StrictContains bool
}

// Engine decides which field follows the current one. It holds no state
// beyond its options and is safe for concurrent use.
type Engine struct {
	opts Options
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

var defaultEngine = NewEngine(Options{})

// NextField routes with the default options.
func NextField(current *Field, answers Answers, fields []Field, rules []Logic) *Field {
	return defaultEngine.NextField(current, answers, fields, rules)
}

// Evaluate evaluates a condition with the default options.
func Evaluate(c Condition, answers Answers) bool {
	return defaultEngine.Evaluate(c, answers)
}

// NextField returns the field to present after current, or nil when the
// questionnaire is finished.
//
// The first rule whose ref equals current.Ref is consulted; its actions are
// tried in order and the first one whose condition holds and whose target
// resolves to a field wins. Otherwise the field after current in fields is
// returned.
func (e *Engine) NextField(current *Field, answers Answers, fields []Field, rules []Logic) *Field {
	if current == nil {
		return nil
	}
	if rule := findRule(current.Ref, rules); rule != nil {
		for _, action := range rule.Actions {
			if !e.Evaluate(action.Condition, answers) {
				continue
			}
			if action.Details.To == nil || action.Details.To.Value == "" {
				continue
			}
			if target := findField(action.Details.To.Value, fields); target != nil {
				return target
			}
		}
	}
	return nextSequential(current, fields)
}

// Evaluate reports whether c holds for answers. A nil condition holds.
func (e *Engine) Evaluate(c Condition, answers Answers) bool {
	if c == nil {
		return true
	}
	return c.evaluate(answers, e.opts)
}

func findRule(ref string, rules []Logic) *Logic {
	for i := range rules {
		if rules[i].Ref == ref {
			return &rules[i]
		}
	}
	return nil
}

// findField resolves a jump target, trying ids before refs since a legacy
// ref may equal another field's id.
func findField(idOrRef string, fields []Field) *Field {
	for i := range fields {
		if fields[i].ID == idOrRef {
			return &fields[i]
		}
	}
	for i := range fields {
		if fields[i].Ref == idOrRef {
			return &fields[i]
		}
	}
	return nil
}

func nextSequential(current *Field, fields []Field) *Field {
	for i := range fields {
		if fields[i].ID == current.ID {
			if i+1 < len(fields) {
				return &fields[i+1]
			}
			return nil
		}
	}
	return nil
}
