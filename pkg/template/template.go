package template

import (
	"time"

	"github.com/google/uuid"

	"github.com/kstorelabs/notify/pkg/notification"
)

// DefaultLanguage is assumed when a template does not specify one.
const DefaultLanguage = "en"

// Template is a named, reusable subject/content pair with {{variable}}
// placeholders, tied to a (type, channel, language) triple. Templates are
// seeded by a collaborator and read-only to the dispatch core.
type Template struct {
	ID              uuid.UUID            `json:"id"`
	Name            string               `json:"name"`
	Type            notification.Type    `json:"type"`
	Channel         notification.Channel `json:"channel"`
	Language        string               `json:"language"`
	SubjectTemplate string               `json:"subject_template"`
	ContentTemplate string               `json:"content_template"`
	Active          bool                 `json:"active"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// RenderSubject renders the subject template with the given parameters.
func (t *Template) RenderSubject(params map[string]string) string {
	return Render(t.SubjectTemplate, params)
}

// RenderContent renders the content template with the given parameters.
func (t *Template) RenderContent(params map[string]string) string {
	return Render(t.ContentTemplate, params)
}
