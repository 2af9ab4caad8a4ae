package errors

// 通用错误
const (
	ErrInternalServer = "ERR_INTERNAL_SERVER"
	ErrInvalidParam   = "ERR_INVALID_PARAM"
)

// 认证相关错误码
const (
	ErrNotLoggedIn        = "ERR_NOT_LOGGED_IN"
	ErrAuthHeaderRequired = "ERR_AUTH_HEADER_REQUIRED"
	ErrAuthHeaderFormat   = "ERR_AUTH_HEADER_FORMAT"
	ErrTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrTokenRevoked       = "ERR_TOKEN_REVOKED"
	ErrInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrUserDisabled       = "ERR_USER_DISABLED"
)

// 用户相关错误码
const (
	ErrUserNotFound = "ERR_USER_NOT_FOUND"
	ErrEmailTaken   = "ERR_EMAIL_TAKEN"
)

// 链接相关错误码
const (
	ErrLinkNotFound = "ERR_LINK_NOT_FOUND"
	ErrAlreadyVoted = "ERR_ALREADY_VOTED"
)
