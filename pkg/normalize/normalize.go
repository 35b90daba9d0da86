// Package normalize turns the provider's cardinality-dependent response shapes into lists.
//
// The provider answers a lookup with a bare object when exactly one record matches, with an
// array when several match, and some endpoints wrap the array under a collection key
// ("laps", "lafs", "creneaux", ...). Every caller normalizes before iterating.
package normalize

import "github.com/Competences-et-Metiers/HostingerWebsite/pkg/jsonutil"

// DefaultWrapperProperties are scanned when Options.WrapperProperties is empty.
var DefaultWrapperProperties = []string{"data", "items"}

// CommonIDProperties mark an object as a single record when no explicit id property matched.
var CommonIDProperties = []string{
	"id",
	"id_creneau",
	"id_lap",
	"id_participant",
	"id_formateur",
	"id_action_de_formation",
}

// Options tunes how a single object is recognized.
type Options struct {
	// IDProperty marks a bare object as a one-item collection when truthy (e.g. "id_participant").
	IDProperty string
	// WrapperProperties are collection keys checked in order.
	WrapperProperties []string
}

// ToArray returns data as a list of records.
// Arrays are returned unchanged; objects are unwrapped or wrapped; everything else yields an empty list.
func ToArray(data any, opts Options) []any {
	if arr, ok := data.([]any); ok {
		return arr
	}

	obj, ok := jsonutil.Object(data)
	if !ok {
		return []any{}
	}

	wrappers := opts.WrapperProperties
	if len(wrappers) == 0 {
		wrappers = DefaultWrapperProperties
	}
	for _, wrapper := range wrappers {
		if arr, ok := obj[wrapper].([]any); ok {
			return arr
		}
	}

	if opts.IDProperty != "" && jsonutil.Truthy(obj[opts.IDProperty]) {
		return []any{obj}
	}

	for _, key := range CommonIDProperties {
		if jsonutil.Truthy(obj[key]) {
			return []any{obj}
		}
	}

	return []any{}
}

// Objects keeps the JSON objects of items, dropping scalars and nested arrays.
func Objects(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := jsonutil.Object(item); ok {
			out = append(out, obj)
		}
	}
	return out
}

// Records is ToArray followed by Objects.
func Records(data any, opts Options) []map[string]any {
	return Objects(ToArray(data, opts))
}
