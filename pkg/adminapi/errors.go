package adminapi

import "fmt"

// maxSnippetBytes caps how much of an error response body is kept on a
// StatusError. Admin API error bodies are short JSON documents; anything
// longer is truncated.
const maxSnippetBytes = 512

// StatusError reports a response with status >= 400. The numeric status code
// always appears in the message so callers matching on text still see it.
type StatusError struct {
	Status  int
	Snippet string
}

func (e *StatusError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("admin api: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("admin api: unexpected status %d: %s", e.Status, e.Snippet)
}

func bodySnippet(body []byte) string {
	if len(body) <= maxSnippetBytes {
		return string(body)
	}
	return string(body[:maxSnippetBytes]) + "..."
}
