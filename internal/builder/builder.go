// Package builder maps raw form field values into well-formed FHIR
// resources. Invalid-but-present values degrade via documented defaults;
// only a structurally missing required field fails a build.
package builder

import (
	"fmt"
)

// FormValues holds the raw form fields of one submission, keyed by control
// name. A key that is absent means the control was never rendered, which
// is distinct from a rendered-but-empty value.
type FormValues map[string]string

func (v FormValues) lookup(key string) (string, bool) {
	value, ok := v[key]
	return value, ok
}

// BuildError reports a required form field that was structurally missing
// from the input set. All other invalid input degrades instead of failing.
type BuildError struct {
	Field string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("required form field %q is missing", e.Field)
}

// require returns the raw values of the named fields, failing on the first
// one absent from the input set.
func (v FormValues) require(fields ...string) ([]string, error) {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		value, ok := v.lookup(f)
		if !ok {
			return nil, &BuildError{Field: f}
		}
		out = append(out, value)
	}
	return out, nil
}
