// Package driving provides interfaces exposed to external actors
// (primary/inbound ports). The CLI and TUI surfaces drive the core
// exclusively through these interfaces.
package driving
