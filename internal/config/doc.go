// Package config loads Navigator's TOML configuration.
//
// # Resolution
//
//  1. If a path is explicitly provided (--config), use it
//  2. Otherwise, use ~/.config/navigator/config.toml
//  3. If the file doesn't exist, every key takes its default
//  4. Keys that are present but blank also take their default
//
// # Keys
//
//	backend      = "rest"                    # rest, sqlite, postgres or memory
//	api_url      = "http://127.0.0.1:54321"  # PostgREST-compatible endpoint (rest)
//	api_key      = ""                        # anon key; NAVIGATOR_API_KEY overrides
//	database_url = "~/.local/share/navigator/navigator.db"  # sqlite path or postgres DSN
//	user_id      = ""                        # local backends; defaults to "local"
//	log_dir      = "~/.local/share/navigator/logs"
//	log_level    = "info"
//	session_poll = "5s"
//
// Paths starting with ~ are expanded against the user's home directory. A
// postgres DSN is passed through untouched and is required when backend is
// postgres.
//
// # Identity
//
// With the rest backend the signed-in user comes from the session stored by
// "navigator login". The local backends have no identity provider, so every
// row belongs to user_id.
package config
