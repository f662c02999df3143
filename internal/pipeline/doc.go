// Package pipeline implements material processing: download the uploaded
// file, extract its text, generate an embedding and persist the result.
//
// A run moves a material from pending (or failed) through processing into
// completed or failed. Exactly one run per material id is in flight at any
// time: concurrent in-process callers collapse onto the same run via
// singleflight, and cross-process races are settled by a conditional
// UPDATE claim in the store.
//
// Each external phase retries transient failures with exponential backoff
// under its own attempt budget. Integration errors that retrying cannot
// fix, such as an embedding with the wrong dimension, fail the run
// immediately.
package pipeline
