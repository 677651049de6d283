// internal/model/error.go
package model

import "errors"

// アプリケーション固有のエラー
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrCorruptRecord  = errors.New("persisted record is corrupt")

	// 送信フロー (GitHub) のエラー分類
	ErrConfiguration      = errors.New("remote store configuration missing or invalid")
	ErrRemoteNotFound     = errors.New("remote repository or path not found")
	ErrRemoteUnauthorized = errors.New("remote credential invalid or insufficient")
	ErrRemote             = errors.New("remote store error")
)

// ErrorDetail is the body of an API error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError はクライアント向けメッセージと原因エラーをまとめます。
type AppError struct {
	Detail ErrorDetail
	Err    error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		Err:    err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Detail.Message + ": " + e.Err.Error()
	}
	return e.Detail.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// UserMessage returns the message meant for the end user.
// Errors that are not AppErrors fall back to fallback.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Detail.Message != "" {
		return appErr.Detail.Message
	}
	return fallback
}
