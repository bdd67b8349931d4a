package mock

import "github.com/pressline/newsanalyst/ai"

// MockProvider is a test double for ai.Provider bundling mock services.
type MockProvider struct {
	MockEmbedder  *MockEmbedder
	MockGenerator *MockGenerator
}

// NewMockProvider creates a provider with fresh mock services.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		MockEmbedder:  NewMockEmbedder(),
		MockGenerator: NewMockGenerator(),
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.MockEmbedder
}

// Generator returns the mock generator.
func (p *MockProvider) Generator() ai.Generator {
	return p.MockGenerator
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}
