package serverutils

// BaseResponse is the envelope every handler returns. Error responses keep
// Data empty and fill Error/Details.
type BaseResponse[T any] struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    T                      `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ErrorResponse builds a failure envelope. The status code travels on the
// HTTP response itself (ctx.Status), not in the body.
func ErrorResponse(message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Error:   message,
	}
}

func ErrorResponseWithDetails(message string, details map[string]interface{}) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Error:   message,
		Details: details,
	}
}
