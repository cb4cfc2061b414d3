// Package validator is the facade over the analysis pipeline: parse,
// extract, graph, rule passes, response assembly. Every operation is a
// pure function of (input, registry, config), so one Service may serve
// any number of goroutines.
package validator
