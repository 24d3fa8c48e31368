package embedding

import "borrowed-brain-be/internal/config"

func NewProvider(cfg *config.Config) Provider {
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		return NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	default:
		return NewGeminiProvider(cfg.Keys.GoogleGemini)
	}
}
