package errors

// Code is the coarse classification of a payment-processor failure.
type Code string

const (
	CodeBadRequest      Code = "BAD_REQUEST"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"
	CodeRateLimited     Code = "RATE_LIMITED"
	CodeServerError     Code = "SERVER_ERROR"
	CodeNetworkError    Code = "NETWORK_ERROR"
	CodeUnknownError    Code = "UNKNOWN_ERROR"
)

// GatewayError is the classified outcome of a failed processor call. Message
// is in Portuguese because the client surfaces it verbatim.
type GatewayError struct {
	Code              Code
	Message           string
	StatusCode        int
	RetryAfterSeconds int
}

func (e *GatewayError) Error() string {
	return e.Message
}

func New(code Code, message string) *GatewayError {
	return &GatewayError{Code: code, Message: message}
}
