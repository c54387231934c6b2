// Package template defines the engine-agnostic contract mail template
// backends implement. EngineBase covers template lifecycle (load, unload,
// error construction) and Engine adds rendering a single sub-template against
// caller data and the content ids of inline attachments.
package template
