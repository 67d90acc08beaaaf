package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func intProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name: "score_document",
		Description: "Score a resume or cover letter against a job description for ATS compatibility. " +
			"Returns the overall score, per-factor breakdown, matched and missing keywords, keyword density and suggestions.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"document_name":   stringProp("Name used to track this document in the history (defaults to the file name)"),
				"document_text":   stringProp("Plain text of the document. Provide this or document_path."),
				"document_path":   stringProp("Path to a .txt, .md, .pdf or .docx file. Provide this or document_text."),
				"job_description": stringProp("Plain text of the job description. Provide this or job_path."),
				"job_path":        stringProp("Path to a file holding the job description"),
				"job_label":       stringProp("Short label for the job, e.g. 'Acme - Backend Engineer'"),
				"document_type": map[string]any{
					"type":        "string",
					"enum":        []string{"resume", "coverLetter"},
					"description": "Which rule set to apply (default: resume)",
				},
				"save": map[string]any{
					"type":        "boolean",
					"description": "Store the result in the score history (default: from config)",
				},
			},
		},
	},
	{
		Name:        "list_scores",
		Description: "List stored score runs, newest first, with optional filters.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"document_type": map[string]any{
					"type":        "string",
					"enum":        []string{"resume", "coverLetter", "all"},
					"description": "Filter by document type. Use 'all' or omit for no filter.",
				},
				"document":   stringProp("Filter by document name (case-insensitive partial match)"),
				"since_days": intProp("Only show runs from the last N days"),
				"limit":      intProp("Maximum number of results to return (default: 20)"),
			},
		},
	},
	{
		Name:        "get_score",
		Description: "Get the full result of one stored score run.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": stringProp("Score run ID"),
			},
			"required": []string{"id"},
		},
	},
	{
		Name:        "search_scores",
		Description: "Search score runs by document name, job label or keyword.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": stringProp("Search query text"),
			},
			"required": []string{"query"},
		},
	},
	{
		Name:        "get_stats",
		Description: "Get aggregate statistics over the score history: run counts and average, best and worst scores.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"since_days": intProp("Calculate stats for the last N days only"),
			},
		},
	},
	{
		Name:        "get_trend",
		Description: "Show how one document's score changed across its stored runs.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"document": stringProp("Exact document name as stored in the history"),
			},
			"required": []string{"document"},
		},
	},
}
