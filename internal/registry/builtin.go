package registry

import "github.com/zclconf/go-cty/cty"

// Builtins returns a registry pre-populated with the SDK's builtin
// node classes. Manifests loaded afterwards may override any entry.
func Builtins() *Registry {
	r := New()
	for _, sig := range builtinSignatures {
		r.Add(sig)
	}
	return r
}

var builtinSignatures = []Signature{
	{
		Class:       "LLMAgent",
		Description: "Calls a language model with a prompt template.",
		Params: []ParamSpec{
			{Name: "model", Type: cty.String, Required: true},
			{Name: "prompt", Type: cty.String, Required: true},
			{Name: "temperature", Type: cty.Number, Default: cty.NumberFloatVal(0.7)},
			{Name: "max_tokens", Type: cty.Number},
			{Name: "system_prompt", Type: cty.String},
		},
	},
	{
		Class:       "HTTPRequest",
		Description: "Performs an HTTP request and exposes the response body.",
		Params: []ParamSpec{
			{Name: "url", Type: cty.String, Required: true},
			{Name: "method", Type: cty.String, Default: cty.StringVal("GET")},
			{Name: "headers", Type: cty.Map(cty.String)},
			{Name: "timeout_seconds", Type: cty.Number, Default: cty.NumberIntVal(30)},
		},
	},
	{
		Class:       "PromptTemplate",
		Description: "Renders a template against incoming fields.",
		Params: []ParamSpec{
			{Name: "template", Type: cty.String, Required: true},
			{Name: "strict", Type: cty.Bool, Default: cty.False},
		},
	},
	{
		Class:       "PythonFunction",
		Description: "Runs an inline Python callable.",
		Params: []ParamSpec{
			{Name: "function", Type: cty.String, Required: true},
			{Name: "args", Type: cty.List(cty.String)},
		},
	},
	{
		Class:       "TextSplitter",
		Description: "Splits text into chunks for downstream nodes.",
		Params: []ParamSpec{
			{Name: "chunk_size", Type: cty.Number, Default: cty.NumberIntVal(1000)},
			{Name: "overlap", Type: cty.Number, Default: cty.NumberIntVal(0)},
			{Name: "separator", Type: cty.String},
		},
	},
	{
		Class:       "JSONExtractor",
		Description: "Parses JSON out of a text field.",
		Params: []ParamSpec{
			{Name: "path", Type: cty.String},
			{Name: "strict", Type: cty.Bool, Default: cty.False},
		},
	},
	{
		Class:       "VectorSearch",
		Description: "Looks up similar documents in a vector collection.",
		Params: []ParamSpec{
			{Name: "collection", Type: cty.String, Required: true},
			{Name: "top_k", Type: cty.Number, Default: cty.NumberIntVal(5)},
			{Name: "filters", Type: cty.Map(cty.String)},
		},
	},
	{
		Class:       "Logger",
		Description: "Writes incoming fields to the run log.",
		Params: []ParamSpec{
			{Name: "level", Type: cty.String, Default: cty.StringVal("info")},
			{Name: "message", Type: cty.String},
		},
	},
}
