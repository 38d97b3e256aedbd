package ragchat

// ReferenceDocument is a retrieved source document attached to an
// assistant message.
type ReferenceDocument struct {
	Source          *string
	Content         string
	Metadata        map[string]any
	SimilarityScore *float64
}
