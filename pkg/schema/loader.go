package schema

import "fmt"

// offlineLoader refuses to fetch schemas; every resource must be supplied
// in-process when the validator is built.
type offlineLoader struct{}

// Load implements jsonschema.URLLoader
func (offlineLoader) Load(url string) (any, error) {
	return nil, fmt.Errorf("%w: %s was not supplied", ErrSchemaNotFound, url)
}
