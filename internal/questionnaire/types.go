// Package questionnaire holds the intake questionnaire model: a permissive
// parser for Typeform-style exports, the conditional routing engine that
// picks the next field, and the helpers the session layer builds on
// (interpolation, validation, navigation).
package questionnaire

// FieldType is the closed set of field kinds the renderer understands.
type FieldType string

const (
	FieldShortText      FieldType = "short_text"
	FieldLongText       FieldType = "long_text"
	FieldEmail          FieldType = "email"
	FieldNumber         FieldType = "number"
	FieldPhoneNumber    FieldType = "phone_number"
	FieldDate           FieldType = "date"
	FieldMultipleChoice FieldType = "multiple_choice"
	FieldYesNo          FieldType = "yes_no"
	FieldDropdown       FieldType = "dropdown"
	FieldStatement      FieldType = "statement"
	FieldFileUpload     FieldType = "file_upload"
	FieldRating         FieldType = "rating"
	FieldOpinionScale   FieldType = "opinion_scale"
	FieldPictureChoice  FieldType = "picture_choice"
)

var fieldTypes = map[string]FieldType{
	string(FieldShortText):      FieldShortText,
	string(FieldLongText):       FieldLongText,
	string(FieldEmail):          FieldEmail,
	string(FieldNumber):         FieldNumber,
	string(FieldPhoneNumber):    FieldPhoneNumber,
	string(FieldDate):           FieldDate,
	string(FieldMultipleChoice): FieldMultipleChoice,
	string(FieldYesNo):          FieldYesNo,
	string(FieldDropdown):       FieldDropdown,
	string(FieldStatement):      FieldStatement,
	string(FieldFileUpload):     FieldFileUpload,
	string(FieldRating):         FieldRating,
	string(FieldOpinionScale):   FieldOpinionScale,
	string(FieldPictureChoice):  FieldPictureChoice,
}

// NormalizeFieldType maps a raw type value onto a FieldType. Anything
// unrecognised becomes short_text.
func NormalizeFieldType(raw any) FieldType {
	s, _ := raw.(string)
	if t, ok := fieldTypes[s]; ok {
		return t
	}
	return FieldShortText
}

// HasChoices reports whether the type carries a choices list.
func (t FieldType) HasChoices() bool {
	return t == FieldMultipleChoice || t == FieldDropdown || t == FieldPictureChoice
}

// IsScale reports whether the type is a stepped rating type.
func (t FieldType) IsScale() bool {
	return t == FieldRating || t == FieldOpinionScale
}

// Extras holds properties the parser does not model. They are kept verbatim
// and written back out on marshal.
type Extras map[string]any

// Choice is one option of a choice-type field. Answers may store either the
// id or the ref.
type Choice struct {
	ID    string `json:"id"`
	Ref   string `json:"ref,omitempty"`
	Label string `json:"label"`
}

// Matches reports whether v names this choice by id or ref.
func (c Choice) Matches(v string) bool {
	return v != "" && (c.ID == v || c.Ref == v)
}

// Properties is the type-dependent property bag of a field.
type Properties struct {
	Description            *string
	ButtonText             *string
	HideMarks              *bool
	Randomize              *bool
	AllowMultipleSelection *bool
	AllowOtherChoice       *bool
	VerticalAlignment      *bool
	Choices                []Choice
	Steps                  *int
	StartAtOne             *bool
	Labels                 map[string]any
	Extra                  Extras
}

// Validations are the declarative answer constraints of a field.
type Validations struct {
	Required  *bool
	MaxLength *int
	MinLength *int
	Pattern   *string
	Min       *float64
	Max       *float64
	Extra     Extras
}

// IsRequired is false unless required is explicitly true.
func (v Validations) IsRequired() bool {
	return v.Required != nil && *v.Required
}

// Field is one question or statement. Fields are created by the parser and
// never mutated afterwards.
type Field struct {
	ID          string
	Ref         string
	Title       string
	Type        FieldType
	Properties  Properties
	Validations Validations
	Extra       Extras
}

// Choice resolves an answer value against the field's choices by id or ref.
func (f *Field) Choice(v string) (Choice, bool) {
	for _, c := range f.Properties.Choices {
		if c.Matches(v) {
			return c, true
		}
	}
	return Choice{}, false
}

// Screen is a welcome or thank-you screen. Screens are display only and
// never part of field traversal.
type Screen struct {
	ID         string
	Ref        string
	Title      string
	Properties map[string]any
	Extra      Extras
}

// JumpTarget is where a logic action routes to.
type JumpTarget struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ActionDetails carries the jump target of an action.
type ActionDetails struct {
	To    *JumpTarget
	Extra Extras
}

// LogicAction is a jump guarded by a condition.
type LogicAction struct {
	Action    string
	Details   ActionDetails
	Condition Condition
}

// Logic is the routing rule attached to the field whose ref equals Ref.
type Logic struct {
	Type    string
	Ref     string
	Actions []LogicAction
}

// LogicVar references a field, a choice or a constant inside a condition.
type LogicVar struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

const (
	VarField    = "field"
	VarChoice   = "choice"
	VarVariable = "variable"
	VarConstant = "constant"
)

// Configuration is the canonical questionnaire document.
type Configuration struct {
	Title           string
	Description     *string
	Language        string
	Fields          []Field
	WelcomeScreens  []Screen
	ThankYouScreens []Screen
	Logic           []Logic
	Settings        map[string]any
	Extra           Extras
}

// Answers maps a field ref (or, for legacy entries, a field id) to the
// answer value: string, number, bool, a list of strings, or nil.
type Answers map[string]any

// ForField returns the answer stored under the field's ref, falling back to
// its id.
func (a Answers) ForField(f *Field) (any, bool) {
	if v, ok := a[f.Ref]; ok && v != nil {
		return v, true
	}
	if v, ok := a[f.ID]; ok && v != nil {
		return v, true
	}
	return nil, false
}
