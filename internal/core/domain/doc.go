// Package domain defines the core business entities for askdocs.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Document: An ingested source file with its extracted text
//   - Chunk: An embeddable unit of a document
//   - RetrievalResult: A scored chunk returned for a question
//   - Settings: The full configuration surface
//   - ChatHistory: The per-session question/answer record
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
package domain
