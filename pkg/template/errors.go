package template

import "errors"

var (
	// ErrTemplateNotFound is returned when no active template matches the lookup.
	ErrTemplateNotFound = errors.New("notification template not found")

	// ErrTemplateExists is returned when creating a template with a name already in use.
	ErrTemplateExists = errors.New("notification template already exists")
)
