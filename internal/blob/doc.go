// Package blob provides the MinIO-backed object store that holds uploaded
// course material files.
//
// The pipeline only ever reads from it: a material row carries a storage
// locator and the processor downloads the raw bytes before handing them to
// the inference service. Upload and delete operations exist for the ingest
// path and for cleanup jobs.
package blob
