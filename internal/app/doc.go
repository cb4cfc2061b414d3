// Package app assembles a runnable validator instance: settings file,
// logger, signature registry (builtins plus manifests), and the
// validation service. The CLI owns flags and rendering; this package
// owns wiring.
package app
