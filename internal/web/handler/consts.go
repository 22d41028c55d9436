package handler

const (
	// RootPath is the root path for route groups.
	RootPath = "/"

	// APIPath is the prefix for the JSON API.
	APIPath = "/api"

	// LocalsKeyUser is the fiber locals key carrying the authenticated user.
	LocalsKeyUser = "CurrentUser"

	// LocalsKeyScope is the fiber locals key carrying the resolved scope.
	LocalsKeyScope = "UserScope"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// MsgUnauthenticated is the error message for requests without a usable identity.
	MsgUnauthenticated = "unauthenticated"

	// MsgForbidden is the error message for requests outside the resolved scope.
	MsgForbidden = "access denied"

	// MsgNotFound is the error message for entity lookup misses.
	MsgNotFound = "not found"

	// MsgInternalError is the generic error message for unexpected failures.
	MsgInternalError = "internal server error"
)
