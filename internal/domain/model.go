package domain

// AIModel describes one model from the provider catalog.
type AIModel struct {
	ID            string
	Name          string
	Description   string
	ContextLength int
}
