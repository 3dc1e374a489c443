package util

import (
	"bytes"
	"strings"
	"text/template"
)

// RenderTemplate substitutes instruction placeholders using Go's
// text/template package. Rendering is strict: a placeholder with no value in
// state is an error, never an empty substitution, so an instruction can
// never be dispatched with an unresolved evidence reference. This lives in
// internal to avoid committing to public API stability prematurely.
func RenderTemplate(text string, state map[string]any) (string, error) {
	if !strings.Contains(text, "{{") { // fast path: no template markers
		return text, nil
	}

	tmpl, err := template.New("instruction").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"upper": strings.ToUpper,
			"lower": strings.ToLower,
		}).
		Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, state); err != nil {
		return "", err
	}

	return buf.String(), nil
}
