package domain

// Row is one line of the input dataset before any normalization
type Row struct {
	Identifier  string `validate:"required"`
	Description string
	GroupingKey string
}

// Record is a parsed input row. Parsed fields never change after cleaning;
// Result is attached once validation has run and is shared by every record
// with the same base code.
type Record struct {
	Original         string
	Description      string
	GroupingKey      string
	BaseCode         string
	VariantSuffix    string
	Vendor           string
	DecorationMethod string
	Result           *ValidationResult
}

// Exists reports whether the record's base code was found in the catalog
func (r *Record) Exists() bool {
	return r.Result != nil && r.Result.Exists
}

// ResultKind classifies how a validation ended
type ResultKind string

const (
	KindFound          ResultKind = "found"
	KindNotFound       ResultKind = "not_found"
	KindRateLimited    ResultKind = "rate_limited"
	KindTimeout        ResultKind = "timeout"
	KindHTTPError      ResultKind = "http_error"
	KindTransportError ResultKind = "transport_error"
)

// Status labels written to reports
const (
	StatusNotFound     = "Not Found"
	StatusError        = "Error"
	StatusTimeout      = "Timeout"
	StatusUnknown      = "Unknown"
	StatusDiscontinued = "Discontinued"
)

// ValidationResult is the uniform outcome of validating one base code.
// It is always fully built: a found product, a not-found answer, or a typed failure.
type ValidationResult struct {
	Code         string     `json:"code"`
	Kind         ResultKind `json:"kind"`
	Exists       bool       `json:"exists"`
	IsNew        bool       `json:"isNew"`
	IsBestSeller bool       `json:"isBestSeller"`
	Title        string     `json:"title"`
	Brand        string     `json:"brand"`
	Category     string     `json:"category"`
	Status       string     `json:"status"`
	Error        string     `json:"error,omitempty"`
}

// NotFoundResult builds the result for a code the catalog does not know
func NotFoundResult(code, note string) *ValidationResult {
	return &ValidationResult{
		Code:   code,
		Kind:   KindNotFound,
		Status: StatusNotFound,
		Error:  note,
	}
}

// FailureResult builds the result for a lookup that ended in an error
func FailureResult(code string, kind ResultKind, status, message string) *ValidationResult {
	return &ValidationResult{
		Code:   code,
		Kind:   kind,
		Status: status,
		Error:  message,
	}
}
