package jsonvet

// Severity expresses how a decoding finding is treated.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// ParseOpt bundles decoding options for ParseJSON, ParseJSONReader and
// ParseYAML.
type ParseOpt struct {
	OnDuplicateKey Severity // Warn or Error (duplicate object keys).
	MaxDepth       int      // 0 disables the nesting limit.
	MaxBytes       int64    // 0 disables the size limit.
	// Warnings receives non-fatal findings such as duplicate keys under Warn.
	Warnings func(ValidationError)
}

// StrictParseOpt rejects duplicate keys.
func StrictParseOpt() ParseOpt { return ParseOpt{OnDuplicateKey: Error} }

func (o ParseOpt) enforced() bool {
	return o.OnDuplicateKey != Ignore || o.MaxDepth > 0 || o.MaxBytes > 0
}
