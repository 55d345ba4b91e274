package vectorstore

import "fmt"

type OperationErrorCode string

const (
	OperationErrorValidation      OperationErrorCode = "validation_failed"
	OperationErrorEmbedFailed     OperationErrorCode = "embed_failed"
	OperationErrorEncodeFailed    OperationErrorCode = "encode_failed"
	OperationErrorDecodeFailed    OperationErrorCode = "decode_failed"
	OperationErrorTransportFailed OperationErrorCode = "transport_failed"
	OperationErrorTimeout         OperationErrorCode = "timeout"
	OperationErrorQueryFailed     OperationErrorCode = "query_failed"
)

type OperationError struct {
	Code       OperationErrorCode
	Operation  string
	StatusCode int
	Message    string
	Cause      error
}

func (e *OperationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vector store %s failed (code=%s status=%d): %s: %v", e.Operation, e.Code, e.StatusCode, e.Message, e.Cause)
	}
	return fmt.Sprintf("vector store %s failed (code=%s status=%d): %s", e.Operation, e.Code, e.StatusCode, e.Message)
}

func (e *OperationError) Unwrap() error { return e.Cause }

func opErr(op string, code OperationErrorCode, msg string, cause error) error {
	return &OperationError{Code: code, Operation: op, Message: msg, Cause: cause}
}
