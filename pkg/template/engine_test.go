package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kstorelabs/notify/pkg/template"
)

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("substitutes known variables", func(t *testing.T) {
		t.Parallel()

		got := template.Render("Hello {{firstName}} {{lastName}}!", map[string]string{
			"firstName": "Ada",
			"lastName":  "Lovelace",
		})
		assert.Equal(t, "Hello Ada Lovelace!", got)
	})

	t.Run("keeps unresolved placeholders verbatim", func(t *testing.T) {
		t.Parallel()

		got := template.Render("Order #{{orderNumber}} for {{customerName}}", map[string]string{
			"orderNumber": "1042",
		})
		assert.Equal(t, "Order #1042 for {{customerName}}", got)
	})

	t.Run("trims whitespace around identifiers", func(t *testing.T) {
		t.Parallel()

		got := template.Render("Hi {{ name }}", map[string]string{"name": "Bob"})
		assert.Equal(t, "Hi Bob", got)
	})

	t.Run("empty template or parameters are unchanged", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "", template.Render("", map[string]string{"a": "b"}))
		assert.Equal(t, "Hi {{name}}", template.Render("Hi {{name}}", nil))
		assert.Equal(t, "Hi {{name}}", template.Render("Hi {{name}}", map[string]string{}))
	})

	t.Run("does not re-expand braces in substituted values", func(t *testing.T) {
		t.Parallel()

		params := map[string]string{"a": "{{b}}", "b": "nope"}
		got := template.Render("{{a}}", params)
		assert.Equal(t, "{{b}}", got)

		// Rendering the output again with the same parameters resolves the
		// injected token, but a single pass never does.
		assert.Equal(t, "nope", template.Render(got, params))
	})

	t.Run("rendering twice is a no-op for fully resolved output", func(t *testing.T) {
		t.Parallel()

		params := map[string]string{"name": "Ada"}
		once := template.Render("Hello {{name}}", params)
		assert.Equal(t, once, template.Render(once, params))
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.True(t, template.Validate("Hello {{name}}"))
	assert.True(t, template.Validate("no placeholders at all"))
	assert.False(t, template.Validate(""))
	assert.False(t, template.Validate("Hello {{}}"))
	assert.False(t, template.Validate("Hello {{  }}"))
	assert.False(t, template.Validate("{{ok}} and {{ }}"))
}
