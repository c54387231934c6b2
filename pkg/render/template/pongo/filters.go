package pongo

import (
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

// TesterFunc is a predicate usable in conditions. pongo2 has no `is` tests,
// so testers are registered as filters yielding a boolean:
// `{% if count|odd %}`.
type TesterFunc func(in *pongo2.Value, param *pongo2.Value) (bool, error)

func testerFilter(fn TesterFunc) pongo2.FilterFunction {
	return func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		ok, err := fn(in, param)
		if err != nil {
			return nil, &pongo2.Error{Sender: "tester", OrigError: err}
		}
		return pongo2.AsValue(ok), nil
	}
}

// setFilter registers fn in pongo2's process wide filter registry, replacing
// an existing filter of the same name.
func setFilter(name string, fn pongo2.FilterFunction) error {
	if pongo2.FilterExists(name) {
		return pongo2.ReplaceFilter(name, fn)
	}
	return pongo2.RegisterFilter(name, fn)
}

// defaultFilters are registered by New unless WithDefaultFilters(false) is
// given. Filters already present in pongo2's registry are left alone.
var defaultFilters = map[string]pongo2.FilterFunction{
	"trim":          filterTrim,
	"sanitize_html": filterSanitizeHTML,
}

func registerDefaultFilters() {
	for name, fn := range defaultFilters {
		if pongo2.FilterExists(name) {
			continue
		}
		_ = pongo2.RegisterFilter(name, fn)
	}
}

// filterTrim strips surrounding whitespace, typically from user supplied
// values interpolated into subject lines.
func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

var (
	htmlPolicyOnce sync.Once
	htmlPolicy     *bluemonday.Policy
)

// filterSanitizeHTML strips markup that is unsafe in mail clients from user
// supplied HTML fragments and marks the result safe for autoescaping.
func filterSanitizeHTML(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	raw := strings.TrimSpace(in.String())
	if raw == "" {
		return pongo2.AsSafeValue(""), nil
	}
	return pongo2.AsSafeValue(mailSanitizer().Sanitize(raw)), nil
}

func mailSanitizer() *bluemonday.Policy {
	htmlPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowURLSchemes("http", "https", "mailto", "cid")
		htmlPolicy = policy
	})
	return htmlPolicy
}
