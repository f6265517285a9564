package models

// Result is the envelope returned by every service operation and every
// HTTP response. The payload always lives under "data".
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func OK[T any](message string, data T) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

func Fail[T any](message string) Result[T] {
	return Result[T]{Success: false, Message: message}
}
