// Package template provides the {{variable}} rendering engine and the
// notification template catalog.
//
// Rendering is a single pass over the template string. Placeholders whose
// variable is missing from the parameter map stay in the output verbatim,
// which makes rendering idempotent: feeding an already-rendered string back
// through Render with the same parameters changes nothing.
//
// Templates are looked up either by unique name or by the
// (type, channel, language) triple, and only active templates resolve.
// SeedDefaults installs the built-in catalog on startup without touching
// templates that already exist.
package template
