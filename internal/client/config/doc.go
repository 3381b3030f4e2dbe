// Package config loads runtime configuration for the bucket-list CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c or -config, or the
//     BUCKETLIST_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-d string   session database path
//	-l string   log file (empty disables logging)
//	-t int      request timeout in seconds (0 means none)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "10s" or integer nanoseconds. Absent keys keep earlier values:
//
//	{
//	  "api_base_url": "https://bucketlist.example/api/",
//	  "session_db_path": "/home/ana/.bucketlist.db",
//	  "log_file": "/tmp/bucketlist.log",
//	  "log_level": "debug",
//	  "request_timeout": "10s"
//	}
package config
