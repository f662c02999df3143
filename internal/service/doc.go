// Package service assembles the materials service out of its components
// and gates access behind explicit initialization.
//
// Construction wires dependencies; Initialize performs the startup health
// probe against the inference service. The probe is advisory: an
// unreachable inference service logs a warning and the service starts
// anyway, because the processing path retries per call and the service may
// come up before its dependencies. Accessors return ErrNotInitialized
// until Initialize has run, so misordered startup fails loudly instead of
// dereferencing half-built state.
package service
