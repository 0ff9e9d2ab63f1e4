package config

import (
	"flag"
	"os"
	"time"

	"github.com/vitrinex/vitrinex/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-s string   store driver: sqlite, postgres, redis or memory
//	-d string   SQLite database path
//	-p string   PostgreSQL DSN
//	-r string   Redis address
//	-u string   OAuth redirect URL
//	-l string   callback listener address ("" disables it)
//	-v string   log level
//	-t int      HTTP timeout in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so -c/-config do not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-d", "-p", "-r", "-u", "-l", "-v", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreDriver, "s", cfg.StoreDriver, "store driver (sqlite|postgres|redis|memory)")
	fs.StringVar(&cfg.SQLitePath, "d", cfg.SQLitePath, "sqlite database path")
	fs.StringVar(&cfg.PostgresDSN, "p", cfg.PostgresDSN, "postgres dsn")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.RedirectURL, "u", cfg.RedirectURL, "oauth redirect url")
	fs.StringVar(&cfg.CallbackAddr, "l", cfg.CallbackAddr, "oauth callback listen address")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level (debug|info|warn|error)")
	timeout := fs.Int("t", int(cfg.HTTPTimeout.Seconds()), "http timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.HTTPTimeout = time.Duration(*timeout) * time.Second
}
