// Package paths expands RFC 6570 URI templates into request paths.
package paths

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/yosida95/uritemplate/v3"
)

// templates caches parsed templates; every endpoint re-expands the same
// handful of template strings on each call.
var templates sync.Map

// Expand expands a URI template with the given variables. Absent (nil)
// variables are dropped from the result rather than emitted empty, and
// path segments and query values are percent-encoded per URL rules.
// A malformed template is a programmer error and panics.
func Expand(template string, vars map[string]interface{}) string {
	tmpl := lookup(template)

	values := uritemplate.Values{}

	for name, value := range vars {
		if value == nil {
			continue
		}

		if segments, ok := value.([]string); ok {
			values.Set(name, uritemplate.List(segments...))

			continue
		}

		values.Set(name, uritemplate.String(stringify(value)))
	}

	expanded, err := tmpl.Expand(values)
	if err != nil {
		panic(fmt.Sprintf("expanding URI template %q: %v", template, err))
	}

	return expanded
}

func lookup(template string) *uritemplate.Template {
	if cached, ok := templates.Load(template); ok {
		tmpl, isTemplate := cached.(*uritemplate.Template)
		if isTemplate {
			return tmpl
		}
	}

	tmpl := uritemplate.MustNew(template)
	templates.Store(template, tmpl)

	return tmpl
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
