package ehparse

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as a comment body, into Markdown.
	Convert(html string) (string, error)
}
