package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Age/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Age"
	AppID             = "com.github.tartampluch.go-age"
	CommandName       = "go-age"
	KeyringService    = "com.github.tartampluch.go-age"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs and exported calendars.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion   = "version"
	FlagDebug     = "debug"
	FlagConfig    = "config"
	FlagBirth     = "birth"
	FlagReference = "reference"
	FlagLive      = "live"
	FlagJSON      = "json"
	FlagName      = "name"
	FlagReminder  = "reminder"
	FlagOut       = "out"
	FlagVCard     = "vcard"
	FlagURL       = "url"
	FlagUser      = "user"
	FlagPort      = "port"
	FlagRefresh   = "refresh"

	FlagDescVersion   = "Show application version and exit"
	FlagDescDebug     = "Enable debug logging"
	FlagDescConfig    = "Settings file (.yaml, .yml or .toml) with expectancy and milestone catalog"
	FlagDescBirth     = "Birth date (YYYY-MM-DD)"
	FlagDescReference = "Reference date (YYYY-MM-DD), defaults to today"
	FlagDescLive      = "Recompute every second against the live clock"
	FlagDescJSON      = "Print insights as JSON"
	FlagDescName      = "Display name used in calendar events"
	FlagDescReminder  = "ISO-8601 alarm trigger for calendar events (e.g. -P1D)"
	FlagDescOut       = "Write the calendar to this file instead of stdout"
	FlagDescVCard     = "Local vCard file providing birth dates"
	FlagDescURL       = "CardDAV/WebDAV URL providing birth dates"
	FlagDescUser      = "HTTP Basic Auth username for --url"
	FlagDescPort      = "Port of the local calendar feed"
	FlagDescRefresh   = "How often the served calendar is regenerated"

	MsgVersionOutput = "%s version %s (%s/%s)\n"

	CmdUseInsights = "insights"
	CmdUseCalendar = "calendar"
	CmdUseContacts = "contacts"
	CmdUseServe    = "serve"
	CmdUseLogin    = "login"

	CmdShortRoot     = "Decode an age into calendrical insights"
	CmdShortInsights = "Show age insights for a birth date"
	CmdShortCalendar = "Export the next birthday and upcoming milestones as iCalendar"
	CmdShortContacts = "Show insights for every contact of a vCard address book"
	CmdShortServe    = "Serve the birthday and milestone calendar on localhost"
	CmdShortLogin    = "Store the CardDAV password in the system keyring"
)

// EnvPassword overrides the keyring lookup for the CardDAV password.
const EnvPassword = "GO_AGE_PASSWORD"

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultExpectancyYears = 80
	MaxExpectancyYears     = 200
	MaxMilestoneYears      = 1000 // Furthest a milestone target may lie from birth
	DefaultPort            = "18081"
	DefaultFeedRefresh     = 1 * time.Hour
	LiveTickInterval       = 1 * time.Second
	RosterConcurrency      = 8
	DefaultLeapYear        = 2000 // Leap year used to validate year-less --02-29 values
	UIDNamespace           = "go-age-v1"

	// MillisPerMeanYear is the mean Gregorian year (365.2425 days) in milliseconds.
	MillisPerMeanYear = 31_556_952_000

	// ProgressScale is the number of decimal places kept on the life progress percentage.
	ProgressScale = 4
)

// Milestone kinds. Years are calendar anniversaries, the others exact durations.
const (
	KindYears   = "years"
	KindDays    = "days"
	KindHours   = "hours"
	KindMinutes = "minutes"
	KindSeconds = "seconds"
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
)

// -----------------------------------------------------------------------------
// Phrasebook Message IDs
// -----------------------------------------------------------------------------

const (
	PKeyToday      = "countdown_today"
	PKeyLaterToday = "countdown_later_today"
	PKeyReached    = "countdown_reached"
	PKeyInDays     = "countdown_in_days" // Requires Count
	PKeyRemaining  = "progress_remaining" // Requires Remaining, Expectancy
	PKeySurpassed  = "progress_surpassed" // Requires Expectancy
	PhrasebookLang = "en"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Age//Insights//EN"
	ICalCalName   = "Age Milestones"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "goage"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropCategories  = "CATEGORIES"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	CategoryBirthday  = "BIRTHDAY"
	CategoryMilestone = "MILESTONE"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts
	DateFormatISO       = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"
	DateFormatDisplay   = "January 2, 2006"
	DateFormatShort     = "Jan 2, 2006"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	FormatUIDInput = "%s|%s|%s"
	FormatUID      = "%s@%s"

	// Event summaries
	FormatBirthdaySummary  = "%s turns %d"
	FormatMilestoneSummary = "%s: %s"
	FormatSelfName         = "You"

	// File Extensions
	ExtYAML = ".yaml"
	ExtYML  = ".yml"
	ExtTOML = ".toml"
	ExtICS  = ".ics"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteCalendar       = "/calendar.ics"
	RouteInsights       = "/insights"
	RouteMetrics        = "/metrics"
	QueryBirth          = "birth"
	QueryReference      = "reference"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidDate       = "invalid date"
	ErrReferenceBefore   = "reference precedes birth"
	ErrInvalidSettings   = "invalid settings"
	ErrSettingsRead      = "failed to read settings file"
	ErrSettingsFormat    = "unsupported settings file extension"
	ErrExpectancyRange   = "expectancy years must be between 1 and 200"
	ErrMilestoneLabel    = "milestone label is empty"
	ErrMilestoneDup      = "duplicate milestone label"
	ErrMilestoneKind     = "unknown milestone kind"
	ErrMilestoneValue    = "milestone value must be positive"
	ErrMilestoneRange    = "milestone target lies more than 1000 years after birth"
	ErrBirthRequired     = "a birth date or an address book is required"
	ErrLiveWithReference = "--live and --reference are mutually exclusive"
	ErrSourceConflict    = "--vcard and --url are mutually exclusive"
	ErrSourceMissing     = "--vcard or --url is required"
	ErrUserRequired      = "--user is required"
	ErrPasswordEmpty     = "password is empty"
	ErrKeyringStore      = "failed to store password in keyring"
	ErrFetcherMissing    = "internal error: network fetcher is not initialized"
	ErrServerStartup     = "server startup failed"
	ErrServerShutdown    = "server shutdown failed"
	ErrPortRequired      = "server port is required"
	ErrPortNumber        = "server port must be a number"
	ErrPortRange         = "server port must be between 1 and 65535"
	ErrInvalidURL        = "invalid URL structure"
	ErrProtocol          = "unsupported protocol scheme (http/https only)"
	ErrVCardParse        = "failed to parse vCard stream"
	ErrICalEncode        = "failed to encode iCalendar data"
	ErrWriteOutput       = "failed to write output"
	ErrLogFile           = "failed to open log file"
	ErrCacheDir          = "could not determine user cache dir"
	ErrCreateDir         = "could not create app cache dir"
	ErrAppFailed         = "application failed unexpectedly"
	ErrWriteResp         = "failed to write response body"
	ErrPhrasebookLoad    = "failed to load phrasebook"
	ErrReadPassword      = "failed to read password"
	ErrReminder          = "reminder must be an ISO-8601 duration such as -P1D or -PT2H"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackName       = "Unknown"
	FallbackToday      = "Today!"
	FallbackLaterToday = "Later today"
	FallbackReached    = "Reached"
	FallbackInDays     = "in %d days"
	FallbackInDay      = "in %d day"
	FallbackRemaining  = "About %s years remain on a %d-year horizon."
	FallbackSurpassed  = "You have surpassed the %d-year horizon."

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	// ClearScreen resets a terminal between live-mode frames.
	ClearScreen = "\033[H\033[2J"

	PromptPassword = "Password: "

	MsgAppStop        = "Application stopped gracefully"
	MsgAppStarting    = "Starting application"
	MsgCtxCancel      = "Context cancelled, shutting down"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgSkippedNoYear  = "Skipping birthday without a year"
	MsgSkippedUnborn  = "Skipping contact born after the reference date"
	MsgSourceLoaded   = "Address book loaded"
	MsgRosterBuilt    = "Roster computed"
	MsgFeedRendered   = "Calendar feed rendered"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgSettingsLoaded = "Settings loaded"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgPassStored     = "Password stored in keyring"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgBdayToday      = "Birthday found today"
	MsgInsightsFailed = "Insights unavailable"
	MsgCalendarWrite  = "Calendar written"
	MsgFeedRefresh    = "Calendar feed refresh failed"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyPort      = "port"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"
	LogKeyEvents    = "events"
	LogKeyExpect    = "expectancy_years"
	LogKeyPath      = "path"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "build_date"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain    = "main"
	CompConfig  = "config"
	CompEngine  = "engine"
	CompSource  = "source"
	CompFetcher = "fetcher"
	CompRoster  = "roster"
	CompFeed    = "feed"
	CompServer  = "server"
	CompWorker  = "worker"
	CompCLI     = "cli"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricsNamespace = "go_age"
)

// -----------------------------------------------------------------------------
// Terminal Rendering
// -----------------------------------------------------------------------------

const (
	RenderTitle          = "Age insights for %s"
	RenderReference      = "as of %s"
	RenderAge            = "Age"
	RenderAgeValue       = "%d years, %d months, %d days"
	RenderWeeksValue     = "%d weeks"
	RenderTotals         = "Totals"
	RenderMonths         = "Months"
	RenderDays           = "Days"
	RenderHours          = "Hours"
	RenderMinutes        = "Minutes"
	RenderSeconds        = "Seconds"
	RenderNextBirthday   = "Next birthday"
	RenderTurns          = "turns %d"
	RenderLifeProgress   = "Life progress"
	RenderProgressValue  = "%.1f%% of %d years"
	RenderMilestones     = "Milestones"
	RenderRosterEmpty    = "No contacts with a usable birth date."
	RenderSeparator      = " · "
	RenderMarkReached    = "✓"
	RenderMarkPending    = "·"
	RenderLabelWidth     = 15
	RenderMilestoneWidth = 26
	RenderProgressBar    = 30
	RenderBarFull        = "█"
	RenderBarEmpty       = "░"
)
