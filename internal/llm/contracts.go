package llm

import "context"

// ExtractionRecord is one field recovered from the document.
type ExtractionRecord struct {
	Key      string `json:"key"`      // verbose, disambiguating label
	Value    string `json:"value"`    // normalized atomic datum
	Comments string `json:"comments"` // verbatim supporting excerpt
}

// ExtractionResult is the model's dataset. A nil Entries means the collection was
// absent; a present but empty collection is a non-nil empty slice.
type ExtractionResult struct {
	Entries []ExtractionRecord `json:"entries"`
}

// Structurer is Stage 2: prompt -> structured records.
// Errors are always *common.StructuringError.
type Structurer interface {
	Structure(ctx context.Context, prompt string) (ExtractionResult, []byte /*rawJSON*/, error)
}
