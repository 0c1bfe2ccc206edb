package main

import (
	"encoding/json"
	"errors"

	"workchat-intake-backend/internal/service"
	"workchat-intake-backend/utilities"
)

// demoForm is a small personal injury intake used on fresh installs.
const demoForm = `{
  "title": "Demo Law Firm Intake",
  "welcome_screens": [{"id": "welcome", "title": "Tell us what happened", "properties": {"button_text": "Start"}}],
  "thankyou_screens": [{"id": "thanks", "title": "Thank you, {{field:first_name}}. An attorney will contact you shortly."}],
  "fields": [
    {"id": "intro", "type": "statement", "title": "This consultation is free and confidential."},
    {"id": "q_first", "ref": "first_name", "type": "short_text", "title": "What's your first name?", "validations": {"required": true}},
    {"id": "q_last", "ref": "last_name", "type": "short_text", "title": "What is your last name, {{field:first_name}}?", "validations": {"required": true}},
    {"id": "q_type", "ref": "incident_type", "type": "multiple_choice", "title": "What kind of incident was it?",
     "properties": {"choices": [
       {"id": "c_car", "ref": "car", "label": "Car accident"},
       {"id": "c_work", "ref": "work", "label": "Workplace injury"},
       {"id": "c_other", "ref": "other", "label": "Something else"}
     ]},
     "validations": {"required": true}},
    {"id": "q_injured", "ref": "injured", "type": "yes_no", "title": "Were you injured?"},
    {"id": "q_report", "ref": "police_report", "type": "file_upload", "title": "Upload the police report if you have one"},
    {"id": "q_details", "ref": "details", "type": "long_text", "title": "Tell us more about what happened"},
    {"id": "q_phone", "ref": "phone", "type": "phone_number", "title": "Best phone number to reach you?", "validations": {"required": true}},
    {"id": "q_email", "ref": "email", "type": "email", "title": "And your email?", "validations": {"required": true}}
  ],
  "logic": [
    {"type": "field", "ref": "incident_type", "actions": [
      {"action": "jump", "details": {"to": {"type": "field", "value": "q_injured"}},
       "condition": {"op": "is", "vars": [{"type": "field", "value": "incident_type"}, {"type": "choice", "value": "car"}]}},
      {"action": "jump", "details": {"to": {"type": "field", "value": "q_details"}},
       "condition": {"op": "always", "vars": []}}
    ]}
  ]
}`

// seedDemo imports the demo questionnaire under the "demo" subdomain unless
// it already exists.
func seedDemo(questionnaires service.QuestionnaireService) error {
	_, err := questionnaires.Import(service.ImportRequest{
		Subdomain:    "demo",
		LawFirmEmail: "intake@demo.workchat.law",
		LawFirmName:  "Demo Law Firm",
		TypeformJSON: json.RawMessage(demoForm),
		Branding:     map[string]any{"primaryColor": "#1f3a5f"},
	})
	if errors.Is(err, service.ErrSubdomainTaken) {
		return nil
	}
	if err != nil {
		return err
	}
	utilities.Info("seeded demo questionnaire")
	return nil
}
