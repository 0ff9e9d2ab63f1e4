// Package config loads runtime configuration for the VitrineX CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml/.yml are read as YAML, everything else as JSON.
//  3. Command-line flags (see parseFlags).
//  4. Environment secrets (see parseEnv): OAuth client ids and secrets,
//     S3 credentials, the Redis password and the Postgres DSN.
//
// # File schema
//
// Durations use timex.Duration, so "15s" and integer nanoseconds both work:
//
//	{
//	  "store_driver": "sqlite",
//	  "sqlite_path": "vitrinex.db",
//	  "redirect_url": "http://127.0.0.1:8787/oauth/callback",
//	  "callback_addr": "127.0.0.1:8787",
//	  "http_timeout": "15s",
//	  "s3_bucket": "vitrinex",
//	  "s3_base_endpoint": "http://127.0.0.1:9000"
//	}
package config
