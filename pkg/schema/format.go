package schema

import (
	"errors"
	"net/url"
	"strings"
	"unicode"

	"github.com/amio-io/json-validations-lib/pkg/validation"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

var errNotHTTPURL = errors.New("not a valid http(s) URL")

// IsValidHTTPURL reports whether s is an absolute http or https URL with a host
func IsValidHTTPURL(s string) bool {
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return false
	}

	parsedURL, err := url.Parse(s)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}

	if parsedURL.Opaque != "" || parsedURL.Hostname() == "" {
		return false
	}

	if port := parsedURL.Port(); port != "" {
		for _, r := range port {
			if r < '0' || r > '9' {
				return false
			}
		}
	} else if strings.HasSuffix(parsedURL.Host, ":") {
		return false
	}

	return true
}

// stringFormat registers a string predicate as an engine format.
// Non-string values are accepted, formats only constrain strings.
func stringFormat(name string, predicate func(string) bool) *jsonschema.Format {
	return &jsonschema.Format{
		Name: name,
		Validate: func(v any) error {
			s, ok := v.(string)
			if !ok {
				return nil
			}
			if !predicate(s) {
				if name == validation.FormatHTTPURL {
					return errNotHTTPURL
				}
				return errors.New("value does not match format " + name)
			}
			return nil
		},
	}
}
