package model

// Response is the envelope returned by every endpoint of the service.
type Response struct {
	Data    any     `json:"data,omitempty"`
	Error   *string `json:"error,omitempty"`
	Message string  `json:"message"`
}

// Success wraps data in a successful envelope.
func Success(data any) Response {
	return Response{Data: data, Message: "Success"}
}

// Failure builds an error envelope carrying errMsg.
func Failure(errMsg string) Response {
	return Response{Error: &errMsg, Message: "Error"}
}
