package schema

import (
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// valueAt walks a decoded JSON document along an instance location.
// It returns nil when the location does not exist.
func valueAt(document any, location []string) any {
	current := document
	for _, segment := range location {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil
			}
			current = value
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			current = node[idx]
		default:
			return nil
		}
	}
	return current
}

type visit struct {
	schema *jsonschema.Schema
	path   string
}

// locateObject walks the compiled schema alongside the document looking for
// the object whose propertyNames schema lives at target and which holds property.
func locateObject(sch *jsonschema.Schema, value any, path []string, target, property string, seen map[visit]bool) ([]string, bool) {
	if sch == nil {
		return nil, false
	}
	key := visit{schema: sch, path: strings.Join(path, "\x00")}
	if seen[key] {
		return nil, false
	}
	seen[key] = true

	if obj, ok := value.(map[string]any); ok && sch.PropertyNames != nil && sch.PropertyNames.Location == target {
		if _, has := obj[property]; has {
			return path, true
		}
	}

	// subschemas applying to the same value
	same := []*jsonschema.Schema{sch.Ref, sch.RecursiveRef, sch.Not, sch.If, sch.Then, sch.Else}
	if sch.DynamicRef != nil {
		same = append(same, sch.DynamicRef.Ref)
	}
	same = append(same, sch.AllOf...)
	same = append(same, sch.AnyOf...)
	same = append(same, sch.OneOf...)
	for _, dep := range sch.DependentSchemas {
		same = append(same, dep)
	}
	for _, dep := range sch.Dependencies {
		if depSchema, ok := dep.(*jsonschema.Schema); ok {
			same = append(same, depSchema)
		}
	}
	for _, sub := range same {
		if found, ok := locateObject(sub, value, path, target, property, seen); ok {
			return found, true
		}
	}

	switch node := value.(type) {
	case map[string]any:
		for _, name := range sortedKeys(node) {
			childPath := appendPath(path, name)
			for _, sub := range propertySchemas(sch, name) {
				if found, ok := locateObject(sub, node[name], childPath, target, property, seen); ok {
					return found, true
				}
			}
		}
	case []any:
		for i, item := range node {
			childPath := appendPath(path, strconv.Itoa(i))
			for _, sub := range itemSchemas(sch, i) {
				if found, ok := locateObject(sub, item, childPath, target, property, seen); ok {
					return found, true
				}
			}
		}
	}

	return nil, false
}

func propertySchemas(sch *jsonschema.Schema, name string) []*jsonschema.Schema {
	var subs []*jsonschema.Schema
	if sub, ok := sch.Properties[name]; ok {
		subs = append(subs, sub)
	}
	for re, sub := range sch.PatternProperties {
		if re.MatchString(name) {
			subs = append(subs, sub)
		}
	}
	if additional, ok := sch.AdditionalProperties.(*jsonschema.Schema); ok {
		subs = append(subs, additional)
	}
	if sch.UnevaluatedProperties != nil {
		subs = append(subs, sch.UnevaluatedProperties)
	}
	return subs
}

func itemSchemas(sch *jsonschema.Schema, idx int) []*jsonschema.Schema {
	var subs []*jsonschema.Schema
	switch items := sch.Items.(type) {
	case *jsonschema.Schema:
		subs = append(subs, items)
	case []*jsonschema.Schema:
		if idx < len(items) {
			subs = append(subs, items[idx])
		}
	}
	if idx < len(sch.PrefixItems) {
		subs = append(subs, sch.PrefixItems[idx])
	}
	if additional, ok := sch.AdditionalItems.(*jsonschema.Schema); ok {
		subs = append(subs, additional)
	}
	for _, sub := range []*jsonschema.Schema{sch.Items2020, sch.Contains, sch.UnevaluatedItems} {
		if sub != nil {
			subs = append(subs, sub)
		}
	}
	return subs
}

// findObjectWithKey returns the location of the first object (keys in sorted
// order, depth first) that holds key.
func findObjectWithKey(value any, path []string, key string) ([]string, bool) {
	switch node := value.(type) {
	case map[string]any:
		if _, ok := node[key]; ok {
			return path, true
		}
		for _, name := range sortedKeys(node) {
			if found, ok := findObjectWithKey(node[name], appendPath(path, name), key); ok {
				return found, true
			}
		}
	case []any:
		for i, item := range node {
			if found, ok := findObjectWithKey(item, appendPath(path, strconv.Itoa(i)), key); ok {
				return found, true
			}
		}
	}
	return nil, false
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendPath(path []string, segment string) []string {
	next := make([]string, len(path), len(path)+1)
	copy(next, path)
	return append(next, segment)
}
