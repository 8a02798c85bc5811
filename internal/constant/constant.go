package constant

// Constant package provides constants used throughout the application.

// Keys stored on the gin context.
const (
	ClaimsKey    = "claims"
	RequestIDKey = "requestId"
)

// Cookie names and the magic-link query parameter.
const (
	TokenCookie     = "token"
	FlashCookie     = "flash"
	TokenQueryParam = "token"
)

// Routes.
const (
	RootPath    = "/"
	LoginPath   = "/login"
	LogoutPath  = "/logout"
	WebconfPath = "/webconf"
	StaticPath  = "/static"
	HealthPath  = "/health"
)
