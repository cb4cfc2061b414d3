// Package rules implements the five validation passes that run over an
// extracted unit and its graph: parameters, connections, cycles,
// imports, and gold-standard patterns.
//
// Passes are side-effect-free and read-only over their Input, so they
// can run in any order; Run executes them sequentially and isolates
// panics, converting a broken pass into a single internal-fault
// diagnostic instead of taking the whole validation down.
package rules
