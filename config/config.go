// Package config exposes the environment-driven settings of the user hub.
// Values are read lazily so a .env file loaded at startup is picked up.
package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("UH_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("UH_DEBUG") == "true"
}

// GetPort returns the HTTP listen port (PORT, default 4000).
func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 4000
	}
	return port
}

// GetJWTSecret returns the HMAC signing key for access and refresh tokens.
func GetJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "dev-secret-change-me"
	}
	return secret
}

// GetCORSOrigin returns the allowed CORS origin. Defaults to "*"; set
// UH_CORS_ORIGIN to a concrete origin to enable credentialed requests.
func GetCORSOrigin() string {
	origin := os.Getenv("UH_CORS_ORIGIN")
	if origin == "" {
		return "*"
	}
	return origin
}

// GetAuditDSN returns the sqlite DSN for the audit trail. The default is an
// in-memory database so audit state shares the process lifetime, like the
// user store.
func GetAuditDSN() string {
	dsn := os.Getenv("UH_AUDIT_DB")
	if dsn == "" {
		return "file:userhub-audit?mode=memory&cache=shared"
	}
	return dsn
}

// GetDemoSeed returns how many demo users to seed at startup (UH_DEMO_SEED).
func GetDemoSeed() int {
	n, err := strconv.Atoi(os.Getenv("UH_DEMO_SEED"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// GetAdminEmail and GetAdminPassword configure the bootstrap admin account.
// Both must be set for an admin to be created at startup.
func GetAdminEmail() string {
	return os.Getenv("UH_ADMIN_EMAIL")
}

func GetAdminPassword() string {
	return os.Getenv("UH_ADMIN_PASSWORD")
}

// AdminPatchRequired reports whether PATCH /api/users/:id demands an admin
// bearer token (UH_ADMIN_PATCH). Off by default: the public client toggles
// users without logging in.
func AdminPatchRequired() bool {
	return os.Getenv("UH_ADMIN_PATCH") == "true"
}
