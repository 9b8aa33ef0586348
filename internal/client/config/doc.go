// Package config loads runtime configuration for the surveyctl CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-s string   base URL of the survey API
//	-d string   path of the local session database
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://localhost:3001",
//	  "session_db_path": "surveyctl.db",
//	  "request_timeout": "10s"
//	}
//
// Arguments that are not configuration flags are returned by LoadConfig as
// the command line to execute.
package config
