package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"

	"github.com/julianstephens/sixtysix/internal/cli"
	"github.com/julianstephens/sixtysix/internal/cli/backups"
	"github.com/julianstephens/sixtysix/internal/cli/habits"
	"github.com/julianstephens/sixtysix/internal/cli/system"
	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/errors"
	"github.com/julianstephens/sixtysix/internal/keyring"
	"github.com/julianstephens/sixtysix/internal/logger"
	"github.com/julianstephens/sixtysix/internal/notify"
	"github.com/julianstephens/sixtysix/internal/prefs"
	"github.com/julianstephens/sixtysix/internal/review"
	"github.com/julianstephens/sixtysix/internal/storage"
	"github.com/julianstephens/sixtysix/internal/storage/postgres"
	"github.com/julianstephens/sixtysix/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database path (.db or .json) or PostgreSQL connection string. Keep PostgreSQL passwords in the OS keyring or SIXTYSIX_DB_CONNECTION." env:"SIXTYSIX_CONFIG" default:"${config_path}"`
	Debug    bool   `help:"Log debug output to stderr."`
	LogLevel string `help:"Log file level (debug, info, warn, error)." enum:",debug,info,warn,error" default:"" env:"SIXTYSIX_LOG_LEVEL"`
	LogJSON  bool   `name:"log-json" help:"Write the log file as JSON lines." env:"SIXTYSIX_LOG_JSON"`
	Timezone string `help:"IANA timezone used for calendar days. Defaults to the system zone." env:"SIXTYSIX_TIMEZONE"`

	NotifyBackend string `help:"Where notification intents are registered." enum:"local,redis,amqp" default:"local" env:"SIXTYSIX_NOTIFY_BACKEND"`
	RedisURL      string `help:"Redis URL for the redis backend." env:"SIXTYSIX_REDIS_URL"`
	AMQPURL       string `name:"amqp-url" help:"Broker URL for the amqp backend." env:"SIXTYSIX_AMQP_URL"`
	AMQPQueue     string `name:"amqp-queue" help:"Command queue for the amqp backend." default:"${amqp_queue}"`

	Init          system.InitCmd          `cmd:"" help:"Initialize sixtysix storage."`
	Tui           system.TuiCmd           `cmd:"" help:"Launch the interactive habit board." default:"1"`
	Habit         habits.HabitCmd         `cmd:"" help:"Manage habits and check-ins."`
	Checkin       habits.HabitCheckinCmd  `cmd:"" help:"Check in a habit for today."`
	Sync          system.SyncCmd          `cmd:"" help:"Validate streaks and reconcile notifications."`
	Notifications system.NotificationsCmd `cmd:"" help:"Inspect registered notifications."`
	Permission    system.PermissionCmd    `cmd:"" help:"Manage notification permission."`
	Review        system.ReviewCmd        `cmd:"" help:"Inspect or reset review prompt counters."`
	Backup        backups.BackupCmd       `cmd:"" help:"Manage database backups."`
	Keyring       system.KeyringCmd       `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Inspect       system.DebugCmd         `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Notify        system.NotifyCmd        `cmd:"" hidden:"" help:"Deliver due notifications (run every minute)."`
	Relay         system.RelayCmd         `cmd:"" hidden:"" help:"Apply amqp notification commands to the local database."`
}

func main() {
	loadDotEnv()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("66 days to a habit: streak tracking with reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
			"amqp_queue":  constants.DefaultAMQPQueue,
		},
	)

	config, err := homedir.Expand(CLI.Config)
	if err != nil {
		errors.Fatalf("invalid config path: %v", err)
	}
	dir := configDir(config)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: dir, Level: CLI.LogLevel, JSON: CLI.LogJSON}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer logger.Close()

	loc, err := utils.LoadLocation(CLI.Timezone)
	if err != nil {
		errors.Fatal(err)
	}

	store, err := storage.NewProvider(config, storage.Credentials{
		Env:     os.Getenv(constants.EnvDBConnection),
		Keyring: keyring.GetConnectionString,
	})
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	// init creates the storage itself.
	if ctx.Command() != "init" {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	p := prefs.Open(filepath.Join(dir, "prefs"))

	backend, pending, closeBackend, err := notificationBackend(store)
	if err != nil {
		errors.Fatal(err)
	}
	defer closeBackend()

	queue := notify.NewQueue(notify.Permissioned{Store: backend, Granted: p.NotificationsGranted}, constants.NotifyQueueSize)
	defer queue.Close()

	appCtx := cli.NewContext(store, p, cli.Options{
		Location:      loc,
		Notifications: queue,
		Pending:       pending,
		Flush:         queue.Close,
		Presenter: review.PresenterFunc(func(_ context.Context, streak int) error {
			fmt.Printf("\n%d days in a row! If sixtysix is helping, a review helps others find it.\n", streak)
			return nil
		}),
	})

	err = ctx.Run(appCtx)
	appCtx.Gate.Wait()
	queue.Close()
	if err != nil {
		errors.Fatal(err)
	}
}

// notificationBackend returns the store intents are written to and the lister
// used to read them back.
func notificationBackend(store storage.Provider) (notify.Store, notify.Lister, func(), error) {
	switch CLI.NotifyBackend {
	case "redis":
		url := CLI.RedisURL
		if url == "" {
			return nil, nil, nil, fmt.Errorf("--redis-url or %s is required for the redis backend", constants.EnvRedisURL)
		}
		r, err := notify.NewRedisStore(context.Background(), url, constants.DefaultRedisKey)
		if err != nil {
			return nil, nil, nil, err
		}
		return r, r, func() { _ = r.Close() }, nil
	case "amqp":
		url := CLI.AMQPURL
		if url == "" {
			return nil, nil, nil, fmt.Errorf("--amqp-url or %s is required for the amqp backend", constants.EnvAMQPURL)
		}
		a, err := notify.DialAMQP(url, CLI.AMQPQueue)
		if err != nil {
			return nil, nil, nil, err
		}
		// Intents are applied by the relay, so the local copy is what it sees.
		return a, store, func() { _ = a.Close() }, nil
	default:
		return store, store, func() {}, nil
	}
}

// configDir is where logs and preferences live: next to a file database, or
// the default config directory for PostgreSQL.
func configDir(config string) string {
	if postgres.IsConnString(config) {
		def, err := homedir.Expand(constants.DefaultConfigPath)
		if err != nil {
			return "."
		}
		return filepath.Dir(def)
	}
	return filepath.Dir(config)
}

// loadDotEnv reads .env from the working directory, then the default config
// directory. Variables already set win.
func loadDotEnv() {
	paths := []string{".env"}
	if def, err := homedir.Expand(constants.DefaultConfigPath); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(def), ".env"))
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}
