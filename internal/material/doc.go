// Package material defines the Material record tracked through the
// processing pipeline and its PostgreSQL-backed repository.
//
// The repository is the persistence collaborator consumed by the pipeline:
// individual calls are atomic, but no cross-call transactions are assumed.
// Status mutation goes through ClaimForProcessing and the Update* methods so
// that the state-machine invariants hold:
//
//	status ∈ {pending, processing, completed, failed}
//	status = completed  <=>  extracted text and embedding both present
//	status = failed     <=>  error message present
package material
