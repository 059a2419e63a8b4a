package models

// NoticeLevel is the severity of a user-facing notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message shown to the user, the API counterpart of a toast.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
}

// SuccessNotice builds a success notice.
func SuccessNotice(message string) Notice {
	return Notice{Level: NoticeSuccess, Message: message}
}

// WarningNotice builds a warning notice.
func WarningNotice(code, message string) Notice {
	return Notice{Level: NoticeWarning, Code: code, Message: message}
}

// ErrorNotice builds an error notice.
func ErrorNotice(code, message string) Notice {
	return Notice{Level: NoticeError, Code: code, Message: message}
}
