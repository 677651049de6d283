// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "efi-checklist"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort     = ":8080"
	DefaultLogLevel       = "info"
	DefaultDatabaseURL    = "sqlite://efi_checklist.db"
	DefaultJWTSecretKey   = "dev-insecure-secret"
	DefaultAccessTokenTTL = 12 * time.Hour
	DefaultGitHubBranch   = "main"
	DefaultNotifierType   = "log"
	DefaultTimezone       = "America/Bogota"
)
