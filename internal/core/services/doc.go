// Package services implements the core application logic: document
// processing, retrieval, answer synthesis and the assistant facade that
// orchestrates them. Services depend only on the driven ports, never on
// concrete adapters.
package services
