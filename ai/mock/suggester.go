package mock

import "context"

// MockSuggester is a test double for ai.Suggester.
// It allows custom behavior injection via function fields.
type MockSuggester struct {
	// SuggestReferencesFunc is called by SuggestReferences if set.
	// If nil, returns no suggestions.
	SuggestReferencesFunc func(ctx context.Context, query string) ([]string, error)

	callCount int
}

// NewMockSuggester creates a mock suggester that suggests nothing by default.
// Note: Returns concrete type to allow test assertions.
func NewMockSuggester() *MockSuggester {
	return &MockSuggester{}
}

// SuggestReferences returns the injected suggestions, or none.
func (m *MockSuggester) SuggestReferences(ctx context.Context, query string) ([]string, error) {
	m.callCount++

	if m.SuggestReferencesFunc != nil {
		return m.SuggestReferencesFunc(ctx, query)
	}
	return []string{}, nil
}

// CallCount returns the number of times SuggestReferences was called.
func (m *MockSuggester) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockSuggester) Reset() {
	m.callCount = 0
	m.SuggestReferencesFunc = nil
}

// MockCompleter is a test double for ai.Completer.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns an empty JSON object.
	CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	callCount int
}

// NewMockCompleter creates a mock completer.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns the injected completion, or an empty JSON object.
func (m *MockCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.callCount++

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, userPrompt)
	}
	return "{}", nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
}
