package questionnaire

import "encoding/json"

// The canonical form marshals back to the export shape, with Extra entries
// merged in beside the modelled keys. Modelled keys win on collision.

func withExtras(doc map[string]any, extra Extras) map[string]any {
	for k, v := range extra {
		if _, taken := doc[k]; !taken {
			doc[k] = v
		}
	}
	return doc
}

func (c Configuration) MarshalJSON() ([]byte, error) {
	doc := map[string]any{
		"title":            c.Title,
		"language":         c.Language,
		"fields":           nonNil(c.Fields),
		"welcome_screens":  nonNil(c.WelcomeScreens),
		"thankyou_screens": nonNil(c.ThankYouScreens),
		"logic":            nonNil(c.Logic),
		"settings":         c.Settings,
	}
	if c.Settings == nil {
		doc["settings"] = map[string]any{}
	}
	if c.Description != nil {
		doc["description"] = *c.Description
	}
	return json.Marshal(withExtras(doc, c.Extra))
}

// UnmarshalJSON parses data with the same permissive rules as ParseJSON.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	doc := map[string]any{
		"id":          f.ID,
		"ref":         f.Ref,
		"title":       f.Title,
		"type":        f.Type,
		"properties":  f.Properties,
		"validations": f.Validations,
	}
	return json.Marshal(withExtras(doc, f.Extra))
}

func (p Properties) MarshalJSON() ([]byte, error) {
	doc := map[string]any{}
	putString(doc, "description", p.Description)
	putString(doc, "button_text", p.ButtonText)
	putBool(doc, "hide_marks", p.HideMarks)
	putBool(doc, "randomize", p.Randomize)
	putBool(doc, "allow_multiple_selection", p.AllowMultipleSelection)
	putBool(doc, "allow_other_choice", p.AllowOtherChoice)
	putBool(doc, "vertical_alignment", p.VerticalAlignment)
	if p.Choices != nil {
		doc["choices"] = p.Choices
	}
	if p.Steps != nil {
		doc["steps"] = *p.Steps
	}
	putBool(doc, "start_at_one", p.StartAtOne)
	if p.Labels != nil {
		doc["labels"] = p.Labels
	}
	return json.Marshal(withExtras(doc, p.Extra))
}

func (v Validations) MarshalJSON() ([]byte, error) {
	doc := map[string]any{}
	putBool(doc, "required", v.Required)
	if v.MaxLength != nil {
		doc["maxLength"] = *v.MaxLength
	}
	if v.MinLength != nil {
		doc["minLength"] = *v.MinLength
	}
	putString(doc, "pattern", v.Pattern)
	if v.Min != nil {
		doc["min"] = *v.Min
	}
	if v.Max != nil {
		doc["max"] = *v.Max
	}
	return json.Marshal(withExtras(doc, v.Extra))
}

func (s Screen) MarshalJSON() ([]byte, error) {
	props := s.Properties
	if props == nil {
		props = map[string]any{}
	}
	doc := map[string]any{
		"id":         s.ID,
		"ref":        s.Ref,
		"title":      s.Title,
		"properties": props,
	}
	return json.Marshal(withExtras(doc, s.Extra))
}

func (l Logic) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":    l.Type,
		"ref":     l.Ref,
		"actions": nonNil(l.Actions),
	})
}

func (a LogicAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"action":    a.Action,
		"details":   a.Details,
		"condition": conditionDoc(a.Condition),
	})
}

func (d ActionDetails) MarshalJSON() ([]byte, error) {
	doc := map[string]any{}
	if d.To != nil {
		doc["to"] = d.To
	}
	return json.Marshal(withExtras(doc, d.Extra))
}

func putString(doc map[string]any, key string, v *string) {
	if v != nil {
		doc[key] = *v
	}
}

func putBool(doc map[string]any, key string, v *bool) {
	if v != nil {
		doc[key] = *v
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
