// Package app wires the verifier together: configuration, logger, plan
// loading and the run lifecycle.
package app
