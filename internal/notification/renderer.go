package notification

import (
	"regexp"

	"notifyhub/internal/models"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.-]+)\s*\}\}`)

// RenderedContent is the output of rendering one template.
type RenderedContent struct {
	Subject string
	Body    string
}

// Renderer substitutes {{name}}-style placeholders in subject and body with
// the matching variable. Placeholders with no matching variable are left
// verbatim, never silently removed. Values are inserted without escaping:
// the body is delivered as rich content, so callers own sanitizing untrusted
// variable values.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render is pure and synchronous; it never fails.
func (r *Renderer) Render(tpl *models.Template, variables map[string]string) RenderedContent {
	return RenderedContent{
		Subject: substitute(tpl.Subject, variables),
		Body:    substitute(tpl.Body, variables),
	}
}

func substitute(s string, variables map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := variables[name]; ok {
			return value
		}
		return match
	})
}
