// Package response defines the JSON envelope every endpoint answers with,
// so dashboard clients branch on one shape regardless of route.
package response

// Response wraps every payload. Status is "success" or "error", StatusCode
// mirrors the HTTP code, and exactly one of Data or Error is populated.
type Response struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success envelopes data for a 2xx answer.
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error envelopes a user-facing failure message.
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
