package suggest

import "github.com/loomwork/loomlint/internal/diag"

// template is one catalog entry. ErrorCode is filled in at lookup from
// the map key, so the table never repeats it.
type template struct {
	description string
	fix         string
	codeExample string
	explanation string
}

// templates is the remediation catalog, one entry per cataloged
// diagnostic code. It is never mutated after init.
var templates = map[string]template{
	diag.CodeSyntaxError: {
		description: "The workflow source could not be parsed.",
		fix:         "Fix the syntax error at the reported line; validation resumes once the file parses.",
		codeExample: "builder = WorkflowBuilder()\nbuilder.add_node(\"LLMAgent\", \"agent\", {\"model\": \"gpt-4\", \"prompt\": \"Summarize: {text}\"})",
		explanation: "Every check runs on the parsed syntax tree, so nothing else can be validated until the file parses.",
	},

	diag.CodeNoParameterMethod: {
		description: "A custom node class declares no get_parameters method.",
		fix:         "Add a get_parameters method returning a NodeParameter for every keyword the node reads.",
		codeExample: "class Summarizer(Node):\n    def get_parameters(self):\n        return [NodeParameter(name=\"text\", type=\"string\", required=True)]",
		explanation: "The runtime validates node config against the declared parameters; a node without declarations accepts anything and fails deep inside run().",
	},
	diag.CodeUndeclaredParameter: {
		description: "run() reads a keyword that get_parameters never declares.",
		fix:         "Declare the keyword as a NodeParameter, or drop the read if it is left over.",
		codeExample: "def get_parameters(self):\n    return [NodeParameter(name=\"max_words\", type=\"number\", required=False, default=100)]",
		explanation: "Undeclared keywords bypass config validation: kwargs.get() quietly returns None and indexing raises KeyError at execution time.",
	},
	diag.CodeUntypedParameter: {
		description: "A declared parameter carries no type.",
		fix:         "Add a type= to the NodeParameter declaration.",
		codeExample: "NodeParameter(name=\"mode\", type=\"string\", required=True)",
		explanation: "Untyped parameters skip config type checking, so a wrong-typed value only surfaces when the node runs.",
	},
	diag.CodeMissingRequiredParameter: {
		description: "A node's config omits a parameter its class requires.",
		fix:         "Add the missing key to the config mapping passed to add_node.",
		codeExample: "builder.add_node(\"LLMAgent\", \"agent\", {\"model\": \"gpt-4\", \"prompt\": \"Summarize: {text}\"})",
		explanation: "The runtime refuses to instantiate a node whose required parameters are absent, so the workflow fails before the first step.",
	},

	diag.CodeBadConnectionArity: {
		description: "add_connection was called with the wrong number of arguments.",
		fix:         "Pass all four arguments: source node, output field, target node, input field.",
		codeExample: "builder.add_connection(\"reader\", \"text\", \"summarizer\", \"input\")",
		explanation: "A malformed call raises TypeError when the builder assembles the workflow; the edge it meant to create never exists.",
	},
	diag.CodeDeprecatedConnection: {
		description: "add_connection was called in the deprecated two-argument form.",
		fix:         "Name the output and input fields explicitly.",
		codeExample: "builder.add_connection(\"reader\", \"text\", \"summarizer\", \"input\")",
		explanation: "The two-argument form relies on implicit field wiring the runtime no longer resolves; data stops flowing across the edge.",
	},
	diag.CodeUnknownSourceNode: {
		description: "A connection reads from a node id that is never declared.",
		fix:         "Declare the node with add_node before connecting it, or fix the misspelled id.",
		codeExample: "builder.add_node(\"HTTPRequest\", \"fetcher\")\nbuilder.add_connection(\"fetcher\", \"response\", \"parser\", \"input\")",
		explanation: "An edge from a ghost node never fires, so every downstream node waits on input that cannot arrive.",
	},
	diag.CodeUnknownTargetNode: {
		description: "A connection delivers to a node id that is never declared.",
		fix:         "Declare the node with add_node before connecting it, or fix the misspelled id.",
		codeExample: "builder.add_node(\"Logger\", \"audit\")\nbuilder.add_connection(\"agent\", \"result\", \"audit\", \"message\")",
		explanation: "The builder rejects edges into undeclared nodes when the workflow is assembled.",
	},
	diag.CodeCircularDependency: {
		description: "Connections form a loop without a cycle declaration.",
		fix:         "Break the loop, or declare it deliberately with create_cycle and a termination bound.",
		codeExample: "cycle = builder.create_cycle(\"refine\")\ncycle.connect(\"critic\", \"writer\", mapping={\"notes\": \"notes\"})\ncycle.max_iterations(5)",
		explanation: "The scheduler orders nodes topologically; an undeclared cycle has no valid order and the workflow deadlocks.",
	},
	diag.CodeSuspiciousOutput: {
		description: "A connection names an output field outside the common vocabulary.",
		fix:         "Use the field name the source node actually emits.",
		codeExample: "builder.add_connection(\"agent\", \"result\", \"audit\", \"text\")",
		explanation: "Field names are not checked at build time; a misspelled output wires to nothing and the target receives an empty input.",
	},
	diag.CodeSuspiciousInput: {
		description: "A connection names an input field outside the common vocabulary.",
		fix:         "Use the input field name the target node declares.",
		codeExample: "builder.add_connection(\"agent\", \"result\", \"audit\", \"text\")",
		explanation: "A misspelled input delivers the value under a key the target never reads.",
	},

	diag.CodeLegacyCycleFlag: {
		description: "A connection uses the legacy cycle=True flag.",
		fix:         "Declare the loop with create_cycle instead of tagging a plain connection.",
		codeExample: "cycle = builder.create_cycle(\"refine\")\ncycle.connect(\"critic\", \"writer\", mapping={\"notes\": \"notes\"})\ncycle.max_iterations(5)",
		explanation: "The flag predates cycle definitions and skips every termination and mapping check a declared cycle gets.",
	},
	diag.CodeUnboundedCycle: {
		description: "A cycle declares neither max_iterations nor converge_when.",
		fix:         "Set max_iterations, converge_when, or both.",
		codeExample: "cycle.max_iterations(10)\ncycle.converge_when(\"quality_score >= 0.8\")",
		explanation: "Without a bound the cycle can loop forever; the runtime requires at least one termination condition.",
	},
	diag.CodeBadConvergence: {
		description: "A converge_when expression does not parse under the convergence grammar.",
		fix:         "Use comparisons joined with and/or/not, over field names, numbers and strings.",
		codeExample: "cycle.converge_when(\"quality_score >= 0.8 and not needs_revision\")",
		explanation: "The runtime evaluates convergence with a small boolean grammar; anything outside it raises when the cycle first completes an iteration.",
	},
	diag.CodeEmptyCycle: {
		description: "A cycle declares no edges.",
		fix:         "Connect the nodes that participate in the loop, or delete the cycle.",
		codeExample: "cycle.connect(\"critic\", \"writer\", mapping={\"notes\": \"notes\"})",
		explanation: "A cycle with no edges iterates over nothing; it is dead configuration that confuses later readers.",
	},
	diag.CodeBadCycleMapping: {
		description: "A cycle edge mapping is not a field-to-field dict literal.",
		fix:         "Map output fields to input fields with string keys and string values.",
		codeExample: "cycle.connect(\"critic\", \"writer\", mapping={\"notes\": \"revision_notes\"})",
		explanation: "The runtime copies fields between iterations by name; a non-literal mapping cannot be verified and usually signals a typo.",
	},
	diag.CodeHighIterationLimit: {
		description: "max_iterations is far above the recommended ceiling.",
		fix:         "Lower the limit, or pair it with converge_when so typical runs exit early.",
		codeExample: "cycle.max_iterations(50)\ncycle.converge_when(\"quality_score >= 0.8\")",
		explanation: "Each iteration costs real model and tool calls; a runaway limit turns a stuck loop into a very expensive one.",
	},
	diag.CodeBadCycleTimeout: {
		description: "A cycle timeout is zero, negative or not a number.",
		fix:         "Pass the timeout as a positive number of seconds.",
		codeExample: "cycle.timeout(120)",
		explanation: "The runtime treats a non-positive timeout as expired immediately, so the cycle aborts on its first iteration.",
	},
	diag.CodeUnknownCycleNode: {
		description: "A cycle edge references a node id that is never declared.",
		fix:         "Declare the node with add_node, or fix the misspelled id in connect().",
		codeExample: "builder.add_node(\"LLMAgent\", \"critic\", {\"model\": \"gpt-4\", \"prompt\": \"Critique: {draft}\"})\ncycle.connect(\"critic\", \"writer\")",
		explanation: "Cycle edges bind by node id at build time; an unknown id fails workflow assembly.",
	},

	diag.CodeMissingImport: {
		description: "An SDK name is used without being imported.",
		fix:         "Import the symbol from its canonical module.",
		codeExample: "from loom.workflow import WorkflowBuilder",
		explanation: "The module raises NameError the moment it loads, before any workflow is built.",
	},
	diag.CodeUnusedImport: {
		description: "An imported name is never referenced.",
		fix:         "Delete the import.",
		codeExample: "from loom.workflow import WorkflowBuilder  # import only what the file uses",
		explanation: "Stale imports hide real dependencies and slow module load for nothing.",
	},
	diag.CodeWrongImportPath: {
		description: "An SDK symbol is imported from a non-canonical module.",
		fix:         "Import the symbol from the module that owns it.",
		codeExample: "from loom.nodes.base import Node, NodeParameter",
		explanation: "Non-canonical paths are re-exports that the SDK does not keep stable; upgrades break them first.",
	},
	diag.CodeRelativeImport: {
		description: "An SDK symbol arrives through a relative import.",
		fix:         "Use the absolute form.",
		codeExample: "from loom.nodes.base import Node",
		explanation: "Relative imports break when the file moves or is run as a script; the absolute form works everywhere.",
	},
	diag.CodeImportOrder: {
		description: "A standard-library import appears after third-party imports.",
		fix:         "Group standard-library imports first, then third-party, then SDK imports.",
		codeExample: "import json\nimport os\n\nfrom loom.workflow import WorkflowBuilder",
		explanation: "Grouped imports keep diffs small and make missing dependencies obvious at a glance.",
	},
	diag.CodeHeavyImport: {
		description: "A heavy module is imported at top level but never used.",
		fix:         "Delete the import, or move it inside the run() that needs it.",
		codeExample: "def run(self, **kwargs):\n    import pandas\n    frame = pandas.DataFrame(kwargs[\"rows\"])",
		explanation: "Heavy modules add seconds of import time to every workflow start, even runs that never touch them.",
	},

	diag.CodeInvertedExecution: {
		description: "The runtime is passed to the workflow instead of the workflow to the runtime.",
		fix:         "Build the workflow, then hand it to the runtime's execute.",
		codeExample: "workflow = builder.build()\nruntime = LocalRuntime()\nresult = runtime.execute(workflow)",
		explanation: "Workflows do not know how to drive runtimes; the inverted call raises AttributeError after the graph is already assembled.",
	},

	diag.CodeInternalFault: {
		description: "A validator pass failed internally.",
		fix:         "Re-run with debug logging and report the workflow file that triggered it.",
		codeExample: "loomlint validate --log-level debug workflow.py",
		explanation: "Findings from the failed pass are missing from this result; the other passes still ran.",
	},
}
