// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort          = "8080"
	DefaultDBPath        = "leaktracker.db"
	DefaultCacheBackend  = CacheBackendFile
	DefaultCachePath     = "tracker-cache.json"
	DefaultCacheTTL      = 60 * time.Minute
	DefaultHTTPTimeout   = 10 * time.Second
	DefaultFetchRate     = 2.0
	DefaultFetchBurst    = 2
	DefaultSheetsBaseURL = "https://docs.google.com"
	DefaultUserAgent     = "leaktracker/1.0"
	DefaultHistoryLimit  = 20
	DefaultSearchLimit   = 25
	DefaultRefreshJobs   = 2
	ShutdownTimeout      = 5 * time.Second
)

// Cache backends
const (
	CacheBackendFile   = "file"
	CacheBackendSQLite = "sqlite"
	CacheBackendBadger = "badger"
)

// Parser limits
const (
	HeaderScanRows      = 20
	MaxArtCandidates    = 6
	MinDescriptionLen   = 50
	MinNoteTextLen      = 10
	MinYear             = 1990
	MaxYearsAhead       = 5
	RecentWindow        = 30 * 24 * time.Hour
	RecentFallbackCount = 50
)

// MiscellaneousEra collects tracks that appear before any era row.
const MiscellaneousEra = "Miscellaneous"

// PillowcaseHost is the direct download endpoint for Pillowcase file ids.
const PillowcaseHost = "https://api.pillows.su/api/download/"

// File Permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)

// Fetch statuses recorded in history
const (
	FetchStatusOK     = "ok"
	FetchStatusCached = "cached"
	FetchStatusFailed = "failed"
)
