package hub

// Wire error codes reported to clients alongside a human-readable message.
const (
	CodeAuthFailed     = "AUTH_FAILED"
	CodeInvalidMessage = "INVALID_MESSAGE"
	CodeUnknownType    = "UNKNOWN_TYPE"
	CodeHandlerFailed  = "HANDLER_FAILED"
)

// WireError is a failure reported back to the connection that caused it. It
// never propagates to other connections and never terminates the hub.
type WireError struct {
	Code    string
	Message string
}

func (e *WireError) Error() string { return e.Message }

var (
	errMissingToken   = &WireError{Code: CodeAuthFailed, Message: "missing token"}
	errInvalidToken   = &WireError{Code: CodeAuthFailed, Message: "invalid or expired token"}
	errInvalidMessage = &WireError{Code: CodeInvalidMessage, Message: "invalid message format"}
	errUnknownType    = &WireError{Code: CodeUnknownType, Message: "unknown message type"}
)

// handlerError wraps an unexpected handler failure so only the sender sees it.
func handlerError(err error) *WireError {
	return &WireError{Code: CodeHandlerFailed, Message: err.Error()}
}
