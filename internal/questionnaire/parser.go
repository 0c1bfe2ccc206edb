package questionnaire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	defaultTitle    = "Untitled Questionnaire"
	defaultLanguage = "en"
)

// Top level keys the parser models. Everything else is carried in Extra.
var configKeys = map[string]bool{
	"id":               true,
	"title":            true,
	"description":      true,
	"language":         true,
	"fields":           true,
	"welcome_screens":  true,
	"thankyou_screens": true,
	"logic":            true,
	"settings":         true,
}

var fieldKeys = map[string]bool{
	"id": true, "ref": true, "title": true, "type": true, "properties": true, "validations": true,
}

var screenKeys = map[string]bool{
	"id": true, "ref": true, "title": true, "properties": true,
}

// ParseJSON decodes a questionnaire export. The only error is malformed JSON;
// every shape problem inside a well-formed document is absorbed by Parse.
func ParseJSON(data []byte) (*Configuration, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode questionnaire: %w", err)
	}
	return Parse(asMap(doc)), nil
}

// Parse converts a decoded Typeform-style export into a Configuration. It
// never rejects input: missing lists become empty, missing strings become
// "", missing ids are generated and unknown properties are preserved.
func Parse(doc map[string]any) *Configuration {
	settings := asMap(doc["settings"])
	if settings == nil {
		settings = map[string]any{}
	}

	cfg := &Configuration{
		Title:           text(doc["title"]),
		Language:        text(settings["language"]),
		Fields:          parseFields(asSlice(doc["fields"])),
		WelcomeScreens:  parseScreens(asSlice(doc["welcome_screens"])),
		ThankYouScreens: parseScreens(asSlice(doc["thankyou_screens"])),
		Logic:           parseLogic(asSlice(doc["logic"])),
		Settings:        settings,
		Extra:           Extras{},
	}
	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}
	if lang := text(doc["language"]); lang != "" {
		cfg.Language = lang
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if d, ok := doc["description"]; ok && d != nil {
		if s, ok := optString(d); ok {
			cfg.Description = s
		} else {
			cfg.Extra["description"] = d
		}
	}

	for k, v := range doc {
		if !configKeys[k] {
			cfg.Extra[k] = v
		}
	}
	return cfg
}

func parseFields(raw []any) []Field {
	fields := make([]Field, 0, len(raw))
	for _, item := range raw {
		m := asMap(item)
		f := Field{
			ID:    text(m["id"]),
			Title: text(m["title"]),
			Type:  NormalizeFieldType(m["type"]),
			Extra: Extras{},
		}
		if f.ID == "" {
			f.ID = generateID()
		}
		f.Ref = text(m["ref"])
		if f.Ref == "" {
			f.Ref = f.ID
		}
		rawType, _ := m["type"].(string)
		f.Properties = parseProperties(asMap(m["properties"]), FieldType(rawType))
		f.Validations = parseValidations(asMap(m["validations"]))
		for k, v := range m {
			if !fieldKeys[k] {
				f.Extra[k] = v
			}
		}
		fields = append(fields, f)
	}
	return fields
}

// parseProperties types the properties that apply to rawType. Properties
// that do not apply, or have an unexpected shape, are kept in Extra.
func parseProperties(raw map[string]any, rawType FieldType) Properties {
	p := Properties{Extra: Extras{}}
	for k, v := range raw {
		if !p.set(k, v, rawType) {
			p.Extra[k] = v
		}
	}
	return p
}

func (p *Properties) set(key string, v any, t FieldType) bool {
	ok := false
	switch key {
	case "description":
		p.Description, ok = optString(v)
	case "button_text":
		p.ButtonText, ok = optString(v)
	case "hide_marks":
		p.HideMarks, ok = optBool(v)
	}
	if t.HasChoices() {
		switch key {
		case "randomize":
			p.Randomize, ok = optBool(v)
		case "allow_multiple_selection":
			p.AllowMultipleSelection, ok = optBool(v)
		case "allow_other_choice":
			p.AllowOtherChoice, ok = optBool(v)
		case "vertical_alignment":
			p.VerticalAlignment, ok = optBool(v)
		case "choices":
			if list, isList := v.([]any); isList {
				p.Choices, ok = parseChoices(list), true
			}
		}
	}
	if t.IsScale() {
		switch key {
		case "steps":
			p.Steps, ok = optInt(v)
		case "start_at_one":
			p.StartAtOne, ok = optBool(v)
		case "labels":
			if m := asMap(v); m != nil {
				p.Labels, ok = m, true
			}
		}
	}
	return ok
}

func parseChoices(raw []any) []Choice {
	choices := make([]Choice, 0, len(raw))
	for _, item := range raw {
		m := asMap(item)
		c := Choice{
			ID:    text(m["id"]),
			Ref:   text(m["ref"]),
			Label: text(m["label"]),
		}
		if c.ID == "" {
			c.ID = generateID()
		}
		if c.Ref == "" {
			c.Ref = c.ID
		}
		choices = append(choices, c)
	}
	return choices
}

func parseValidations(raw map[string]any) Validations {
	v := Validations{Extra: Extras{}}
	for k, val := range raw {
		ok := false
		switch k {
		case "required":
			v.Required, ok = optBool(val)
		case "maxLength":
			v.MaxLength, ok = optInt(val)
		case "minLength":
			v.MinLength, ok = optInt(val)
		case "pattern":
			v.Pattern, ok = optString(val)
		case "min":
			v.Min, ok = optFloat(val)
		case "max":
			v.Max, ok = optFloat(val)
		}
		if !ok {
			v.Extra[k] = val
		}
	}
	return v
}

func parseScreens(raw []any) []Screen {
	screens := make([]Screen, 0, len(raw))
	for _, item := range raw {
		m := asMap(item)
		s := Screen{
			ID:         text(m["id"]),
			Ref:        text(m["ref"]),
			Title:      text(m["title"]),
			Properties: asMap(m["properties"]),
			Extra:      Extras{},
		}
		if s.ID == "" {
			s.ID = generateID()
		}
		if s.Ref == "" {
			s.Ref = s.ID
		}
		if s.Properties == nil {
			s.Properties = map[string]any{}
		}
		for k, v := range m {
			if !screenKeys[k] {
				s.Extra[k] = v
			}
		}
		screens = append(screens, s)
	}
	return screens
}

func parseLogic(raw []any) []Logic {
	rules := make([]Logic, 0, len(raw))
	for _, item := range raw {
		m := asMap(item)
		rule := Logic{
			Type: text(m["type"]),
			Ref:  text(m["ref"]),
		}
		if rule.Type == "" {
			rule.Type = "field"
		}
		if rule.Ref == "" {
			rule.Ref = text(asMap(m["field"])["ref"])
		}
		rawActions := asSlice(m["actions"])
		rule.Actions = make([]LogicAction, 0, len(rawActions))
		for _, a := range rawActions {
			am := asMap(a)
			action := LogicAction{
				Action:    text(am["action"]),
				Details:   parseDetails(asMap(am["details"])),
				Condition: parseCondition(am["condition"]),
			}
			if action.Action == "" {
				action.Action = "jump"
			}
			rule.Actions = append(rule.Actions, action)
		}
		rules = append(rules, rule)
	}
	return rules
}

func parseDetails(raw map[string]any) ActionDetails {
	d := ActionDetails{Extra: Extras{}}
	for k, v := range raw {
		if k == "to" {
			if to := asMap(v); to != nil {
				d.To = &JumpTarget{Type: text(to["type"]), Value: text(to["value"])}
				continue
			}
		}
		d.Extra[k] = v
	}
	return d
}

// generateID produces ids for fields, choices and screens that arrive
// without one.
func generateID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:13]
}
