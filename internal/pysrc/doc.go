// Package pysrc lexes and parses the Python subset used to define
// workflows. The grammar is deliberately small: it covers the statement
// and expression forms that occur in workflow definitions (imports, class
// and function definitions, assignments, calls, literals, the usual
// control flow) and nothing more. Anything outside the subset surfaces as
// a SyntaxError, which callers report as a fatal syntax diagnostic.
//
// The lexer follows the layout rules of the analyzed language: it emits
// NEWLINE at the end of each logical line and INDENT/DEDENT tokens as the
// indentation level changes, suppressing both inside bracketed
// expressions.
package pysrc
