package mapper

// Span describes a location in the validated source file.
type Span struct {
	StartLine  int // 1-based
	StartCol   int // 1-based
	EndLine    int
	EndCol     int
	Confidence float64 // 0.0 - 1.0
	Reason     string  // short reason why this span was chosen
}

// ErrorMeta carries what is known about the failure besides its field path.
type ErrorMeta struct {
	Kind     string // keyword tag: "type", "required", "additionalProperties", "enum", ...
	Property string // missing, unexpected or disallowed property name, if any
}
