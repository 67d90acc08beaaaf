package mcp

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Resource URIs
const (
	uriSummary = "atscheck://summary"
	uriRecent  = "atscheck://recent"
	uriWeights = "atscheck://weights"
)

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         uriSummary,
		Name:        "Score Summary",
		Description: "Score history overview with run counts and averages by document type",
		MimeType:    "text/plain",
	},
	{
		URI:         uriRecent,
		Name:        "Recent Scores",
		Description: "Last 10 score runs",
		MimeType:    "text/plain",
	},
	{
		URI:         uriWeights,
		Name:        "Scoring Weights",
		Description: "Factor weights used for resumes and cover letters",
		MimeType:    "text/plain",
	},
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}
