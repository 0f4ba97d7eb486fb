package validation

// Keyword identifies the schema constraint that failed.
type Keyword uint8

const (
	KeywordUnknown Keyword = iota
	KeywordType
	KeywordAdditionalProperties
	KeywordRequired
	KeywordConst
	KeywordEnum
	KeywordKeysNotEqual
	KeywordNotFound
	KeywordFormat
)

var keywordNames = map[Keyword]string{
	KeywordUnknown:              "unknown",
	KeywordType:                 "type",
	KeywordAdditionalProperties: "additionalProperties",
	KeywordRequired:             "required",
	KeywordConst:                "const",
	KeywordEnum:                 "enum",
	KeywordKeysNotEqual:         "keys_not_equal",
	KeywordNotFound:             "not_found",
	KeywordFormat:               "format",
}

// ParseKeyword maps a keyword tag to its Keyword, KeywordUnknown if the tag is not understood
func ParseKeyword(name string) Keyword {
	for k, n := range keywordNames {
		if k != KeywordUnknown && n == name {
			return k
		}
	}
	return KeywordUnknown
}

// String returns the keyword tag
func (k Keyword) String() string {
	if name, ok := keywordNames[k]; ok {
		return name
	}
	return keywordNames[KeywordUnknown]
}

// MarshalText encodes the keyword as its tag
func (k Keyword) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// FormatHTTPURL is the name of the http(s) URL string format
const FormatHTTPURL = "httpUrl"

// Params holds keyword specific details of a raw failure.
type Params struct {
	Type               string   // expected type name (type)
	AdditionalProperty string   // unexpected property name (additionalProperties)
	MissingProperty    string   // missing property name (required)
	AllowedValue       any      // expected value (const)
	AllowedValues      []string // allowed values (enum)
	OriginalKeys       []string // expected keys (keys_not_equal)
	NotFoundPropName   string   // entity name (not_found)
	Format             string   // format name (format)
}

// RawFailure is a single failure as reported by a validation engine, before normalization.
type RawFailure struct {
	Keyword    Keyword
	DataPath   string // dot delimited, "" or "." for the document root
	Data       any
	Params     Params
	SchemaPath string // slash delimited location in the schema, e.g. "#/propertyNames/enum"
	Message    string // engine message, used for keywords without a dedicated message
}
