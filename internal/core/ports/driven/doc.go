// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): text extraction, embedding, generation and
// vector storage. The core services depend only on these interfaces.
package driven
