package embedding

import "context"

// Task types passed to providers that distinguish indexing from querying.
// The sync worker embeds documents; the chat path embeds questions. Both must
// run against the same model or similarity scores are meaningless.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

type Provider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
