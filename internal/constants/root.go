package constants

import "time"

const (
	AppName            = "sixtysix"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/sixtysix/sixtysix.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Streak constants
	GoalDays = 66

	// Review prompt constants
	ReviewMaxPromptsPerYear = 3
	ReviewEpochDays         = 365
	ReviewCooldownDays      = 30
	ReviewPromptDelay       = 2 * time.Second

	// Persisted review counter keys
	ReviewPromptCountKey      = "reviewPromptCount"
	LastReviewPromptDateKey   = "lastReviewPromptDate"
	ReviewPromptEpochStartKey = "reviewPromptEpochStart"

	// Preference keys
	NotificationPermissionKey = "notificationPermissionGranted"
	PrefsDirName              = "prefs"

	// Notification schedule constants
	MorningMotivationHour   = 8
	MorningMotivationMinute = 0
	EmergencyReminderHour   = 21
	EmergencyReminderMinute = 0

	// Notification identifier scheme. These strings are persisted by every
	// notification store and must not change.
	ReminderIDPrefix   = "reminder-"
	MotivationIDPrefix = "motivation-"
	EmergencyIDPrefix  = "emergency-"
	EmergencySummaryID = "emergency-daily-summary"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "sixtysix-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifyQueueSize        = 64
	NotifyOnceGracePeriod  = 10 * time.Minute
	NotifierLockfileName   = "sixtysix-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.sixtysix"
	DefaultRedisKey        = "sixtysix:notifications"
	DefaultAMQPQueue       = "sixtysix.notifications"

	// Environment variables
	EnvDBConnection = "SIXTYSIX_DB_CONNECTION"
	EnvRedisURL     = "SIXTYSIX_REDIS_URL"
	EnvAMQPURL      = "SIXTYSIX_AMQP_URL"
	EnvTimezone     = "SIXTYSIX_TIMEZONE"
)
