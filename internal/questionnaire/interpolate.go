package questionnaire

import "regexp"

var fieldRefPattern = regexp.MustCompile(`\{\{field:([^}]+)\}\}`)

// Interpolate replaces every {{field:<ref>}} token in text with the answer
// stored under ref. Tokens without an answer are left as they are so a
// broken reference stays visible.
func Interpolate(text string, answers Answers) string {
	if text == "" {
		return text
	}
	return fieldRefPattern.ReplaceAllStringFunc(text, func(token string) string {
		ref := fieldRefPattern.FindStringSubmatch(token)[1]
		answer, ok := answers[ref]
		if !ok || answer == nil {
			return token
		}
		return Stringify(answer)
	})
}
