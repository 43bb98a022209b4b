// Package cli provides the interactive butcherdesk command-line client.
//
// It wires configuration, the credential store, the authenticated API client
// and an interactive REPL. A background watcher polls the backend and shows
// online/offline in the prompt. When a token refresh is rejected the session
// ends and the user is asked to sign in again.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
