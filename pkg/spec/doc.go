// Package spec describes mail templates as an ordered tree of sub-templates.
// Each sub-template names one template body, either a file on disk or inline
// content, and the media type it renders to. Render engines read the tree to
// load, unload and render templates; they never mutate it.
package spec
