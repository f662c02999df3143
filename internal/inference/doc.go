// Package inference provides the typed HTTP client for the external
// text-extraction and embedding service.
//
// The client owns connection and timeout handling for a single logical call;
// it performs no internal retries for ExtractText/GenerateEmbedding. Retry
// policy belongs to the pipeline, which may invoke the client multiple times.
// The client is stateless per call and safe for concurrent use.
//
// Wire contract:
//
//	GET  /health            -> 200 when ready
//	POST /extract  (multipart file + filename) -> {"text": "..."}
//	POST /embed    {"text": "..."}             -> {"embedding": [ ... ]}
//
// Non-2xx responses and malformed bodies are protocol errors, surfaced as
// ErrExtraction/ErrEmbedding. A response vector whose length differs from
// the configured embedding dimension is a DimensionMismatchError: a fatal
// integration error, never silently truncated.
package inference
