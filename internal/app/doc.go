// Package app provides the orchestration layer for Navigator.
//
// # Overview
//
// This package wires together configuration, logging, the record store, the
// signed-in identity and the UI. It is the composition root for both the TUI
// and the command line: Bootstrap builds an Env that every entry point shares.
//
// # Startup
//
//  1. Load ~/.config/navigator/config.toml (environment overrides applied)
//  2. Open the zap logger (log file for the TUI, stderr for CLI commands)
//  3. Open the store for the configured backend
//  4. Resolve the identity: keyring session for the hosted backend, the
//     configured user for local ones
//  5. Build the career.Workspace for that user
//
// # Backends
//
//   - rest: the hosted database over HTTP, authenticated with the session token
//   - sqlite: a local file, migrated automatically on startup
//   - postgres: a server; run "navigator migrate" once
//   - memory: throwaway in-process storage
//
// # Session Watching
//
// With the hosted backend the signed-in user can change while the TUI runs
// (login or logout from another terminal). SessionWatcher polls the keyring
// and, when the user id changes, re-owns the workspace and notifies the UI,
// which clears its filters and reloads. Poll failures back off exponentially
// up to 30 seconds.
//
// # Error Handling
//
// Fatal errors (returned from Bootstrap or Run):
//   - invalid configuration or unknown backend
//   - store initialization or local migration failure
//
// Recoverable errors (logged, shown in the UI):
//   - load and write failures of individual collections
//   - session poll failures
package app
