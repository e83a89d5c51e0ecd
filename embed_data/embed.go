package embed_data

import _ "embed"

//go:embed prompts/explain_file.tmpl
var ExplainFilePrompt []byte

//go:embed prompts/summarize_file.tmpl
var SummarizeFilePrompt []byte

//go:embed prompts/synthesize_project.tmpl
var SynthesizeProjectPrompt []byte

//go:embed models_details.json
var ModelDetails []byte
