// Package pongo implements the mail template render engine on top of
// github.com/flosch/pongo2/v6.
//
// Base templates matched by the glob given to New are shared layouts and
// partials. Templates from a spec.TemplateSpec are loaded into a flat table
// keyed by source id; loading an id twice without unloading it first is a
// TemplateIDCollision. Render exposes the caller data as `data` and the
// inline attachment content ids as `cids`:
//
//	{% extends "base_mail.html" %}
//	{% block body %}Hello, {{ data.name }}! <img src="cid:{{ cids|first }}">{% endblock %}
//
// Output is not newline normalised (ProducesValidNewlines is false).
//
// Autoescaping is decided per template id by its suffix. Because pongo2 only
// has a process wide switch, every Render resets it to pongo2's default (on)
// when done; applications mixing this package with their own pongo2 usage
// should not rely on pongo2.SetAutoescape(false) surviving a render.
package pongo
