package notification

import (
	"testing"

	"notifyhub/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRenderSubstitutesVariables(t *testing.T) {
	tpl := &models.Template{
		Subject: "Welcome {{name}}",
		Body:    "<p>Hello {{name}}, get started at {{url}}</p>",
	}

	out := NewRenderer().Render(tpl, map[string]string{
		"name": "Ana",
		"url":  "https://x/onboarding",
	})

	assert.Equal(t, "Welcome Ana", out.Subject)
	assert.Equal(t, "<p>Hello Ana, get started at https://x/onboarding</p>", out.Body)
}

func TestRenderLeavesUnresolvedPlaceholdersVerbatim(t *testing.T) {
	tpl := &models.Template{
		Subject: "Hi {{name}}",
		Body:    "Your code is {{code}}",
	}

	out := NewRenderer().Render(tpl, map[string]string{"name": "Ana"})

	assert.Equal(t, "Hi Ana", out.Subject)
	assert.Equal(t, "Your code is {{code}}", out.Body)
}

func TestRenderToleratesSpacingInsidePlaceholders(t *testing.T) {
	tpl := &models.Template{Subject: "Hi {{ name }}", Body: "{{  name  }}"}

	out := NewRenderer().Render(tpl, map[string]string{"name": "Ana"})

	assert.Equal(t, "Hi Ana", out.Subject)
	assert.Equal(t, "Ana", out.Body)
}

func TestRenderDoesNotEscapeValues(t *testing.T) {
	tpl := &models.Template{Subject: "{{v}}", Body: "{{v}}"}

	out := NewRenderer().Render(tpl, map[string]string{"v": "<b>&"})

	// Rich-content bodies: values are inserted as-is.
	assert.Equal(t, "<b>&", out.Body)
}

func TestRenderWithNoVariables(t *testing.T) {
	tpl := &models.Template{Subject: "Plain subject", Body: "Plain body"}

	out := NewRenderer().Render(tpl, nil)

	assert.Equal(t, "Plain subject", out.Subject)
	assert.Equal(t, "Plain body", out.Body)
}
