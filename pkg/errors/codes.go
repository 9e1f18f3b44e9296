package _errors

// Error codes surfaced by the lag-report HTTP API. The teacher's
// corresponding file built these on top of a multi-language
// ErrorMessage/ErrorRegistry translation system; this domain has a single
// operator-facing locale, so each code maps straight to one AppError.
const (
	CodeUnauthorized  = 1001
	CodeGroupNotFound = 1002
	CodeInternal      = 1003
)

// ErrUnauthorized is returned when a request's bearer token is missing,
// expired, or fails signature verification.
var ErrUnauthorized = &AppError{Code: CodeUnauthorized, Message: "unauthorized", Status: 401}

// ErrGroupNotFound is returned when no lag snapshot has been cached yet for
// the requested consumer group.
var ErrGroupNotFound = &AppError{Code: CodeGroupNotFound, Message: "no lag snapshot for group", Status: 404}

// ErrInternal wraps an unexpected failure (cache or export error) that the
// caller cannot act on beyond retrying.
var ErrInternal = &AppError{Code: CodeInternal, Message: "internal error", Status: 500}
