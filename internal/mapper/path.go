package mapper

import "strings"

// splitField splits a dot delimited field (".jobs.build.0") into segments.
// "" and "." address the document root.
func splitField(field string) []string {
	trimmed := strings.TrimPrefix(field, ".")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, ".")
}

// isIndex determines whether a segment looks like an array index
func isIndex(segment string) bool {
	if len(segment) == 0 {
		return false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
