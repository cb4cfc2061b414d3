// Package cli defines the loomlint command tree. It owns flag parsing,
// result rendering, and process-level concerns like exit codes; all
// validation work is delegated to the app-wired validator service.
package cli
