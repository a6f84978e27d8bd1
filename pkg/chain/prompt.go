package chain

import (
	"context"
	"regexp"
)

// placeholderRe matches the {{ and }} escapes before a {name} placeholder,
// so "{{name}}" renders as the literal "{name}".
var placeholderRe = regexp.MustCompile(`\{\{|\}\}|\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Template is a prompt with {name} placeholders. Doubled braces render as
// a single literal brace.
type Template struct {
	text  string
	names []string
}

// NewTemplate parses text once and records its placeholders in order of
// first appearance.
func NewTemplate(text string) *Template {
	t := &Template{text: text}
	seen := make(map[string]struct{})
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		if m[1] == "" {
			continue
		}
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		t.names = append(t.names, m[1])
	}
	return t
}

// Text returns the raw template.
func (t *Template) Text() string { return t.text }

// Placeholders returns the placeholder names referenced by the template.
func (t *Template) Placeholders() []string {
	return append([]string(nil), t.names...)
}

// Render substitutes every placeholder in a single pass; substituted
// values are not scanned again. Inputs the template does not reference
// are ignored.
func (t *Template) Render(inputs PromptInputs) (string, error) {
	for _, name := range t.names {
		if _, ok := inputs[name]; !ok {
			return "", &MissingPlaceholderError{Name: name}
		}
	}

	return placeholderRe.ReplaceAllStringFunc(t.text, func(m string) string {
		switch m {
		case "{{":
			return "{"
		case "}}":
			return "}"
		}
		return inputs[m[1:len(m)-1]]
	}), nil
}

// RenderStage is Render as a Stage. The template is resolved on every
// call so callers can swap it at runtime.
func RenderStage(resolve func() *Template) Stage[PromptInputs, string] {
	return func(_ context.Context, in PromptInputs) (string, error) {
		return resolve().Render(in)
	}
}
