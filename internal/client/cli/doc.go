// Package cli provides the interactive VitrineX command-line client.
//
// It wires configuration, the key/value store, the encrypted store, the
// social session manager and backups behind a small REPL. When a callback
// address is configured, a loopback listener receives OAuth redirects in
// the background while the REPL runs.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command list.
package cli
