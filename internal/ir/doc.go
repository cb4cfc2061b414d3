// Package ir extracts a flat intermediate representation from a parsed
// workflow source file. The extractor recognizes the SDK call shapes
// (add_node, add_connection, cycle builders, node class definitions,
// imports) and records them as plain values for the rule passes to
// inspect. Extraction is permissive: constructs it does not recognize
// are skipped, and malformed-but-recognized shapes are recorded with
// enough detail for a rule to flag them.
package ir
