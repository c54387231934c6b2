// Package render drives template.Engine implementations for whole mail
// templates: it renders every alternative body of a spec.TemplateSpec, applies
// the CRLF newline fix for engines that need it and keeps named engines in a
// Registry.
package render
