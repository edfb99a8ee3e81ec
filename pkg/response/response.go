package response

// APIResponseCode classifies an API outcome independently of the HTTP
// status, which is 200 for every enveloped response.
type APIResponseCode int

const (
	APIResponseCodeOK         APIResponseCode = 0
	APIResponseCodeBadRequest APIResponseCode = 40000
	APIResponseCodeError      APIResponseCode = 50000
)

// APIResponse is the envelope returned by every enveloped endpoint.
// Construct instances with OKT / ErrorT.
type APIResponse[T any] struct {
	Code    APIResponseCode `json:"code"`
	Message string          `json:"message"`
	Data    T               `json:"data"`
}

// OKT returns a successful response carrying data.
func OKT[T any](data T) *APIResponse[T] {
	return &APIResponse[T]{Code: APIResponseCodeOK, Message: "ok", Data: data}
}

// ErrorT returns a failed response; message explains the failure and Data
// stays at its zero value.
func ErrorT[T any](code APIResponseCode, message string) *APIResponse[T] {
	return &APIResponse[T]{Code: code, Message: message}
}
