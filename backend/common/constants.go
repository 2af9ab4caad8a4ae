package common

import "time"

var Version = "v0.0.0"

var StartTime = time.Now().Unix()

var DebugEnabled = false

// Role constants
const (
	RoleGuestUser  = 0
	RoleCommonUser = 1
	RoleAdminUser  = 10
	RoleRootUser   = 100
)

// Status constants
const (
	UserStatusEnabled  = 1
	UserStatusDisabled = 2
)

// Runtime configuration. Populated by LoadConfig, overridable by CLI flags.
var (
	Port       = 3000
	ConfigPath = ""

	SQLitePath = "linkboard.db"
	SQLDSN     = ""

	JWTSecret = ""

	RedisConnString = ""

	FeedCacheTTL = 30 * time.Second

	EnableGzip        = true
	GraphQLPlayground = true

	GlobalAPIRateLimitNum      = 300
	GlobalAPIRateLimitDuration = 3 * time.Minute
)

const (
	DefaultLang        = "en"
	AccessTokenTTL     = 7 * 24 * time.Hour
	JWTBlacklistPrefix = "jwt:blacklist:"
)
