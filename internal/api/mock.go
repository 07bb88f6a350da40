package api

import (
	"context"
	"sync"

	"github.com/tallyups/tally/internal/model"
)

// MockService is a test double for the Service interface. Behavior is
// customized per call by assigning the corresponding function field; calls
// are recorded for assertions.
type MockService struct {
	GetTransactionsFn  func(ctx context.Context) ([]model.Transaction, error)
	UpdateRowFn        func(ctx context.Context, id int, patch map[string]string) error
	AIMatchFn          func(ctx context.Context, id int) (MatchResult, error)
	GenerateNoteFn     func(ctx context.Context, id int) (string, error)
	CategorizeFn       func(ctx context.Context, id int) (string, error)
	GetBusinessTypesFn func(ctx context.Context) ([]model.BusinessType, error)

	mu      sync.Mutex
	Patches []RecordedPatch
}

// RecordedPatch captures one UpdateRow call.
type RecordedPatch struct {
	Patch map[string]string
	ID    int
}

// GetTransactions implements Service.
func (m *MockService) GetTransactions(ctx context.Context) ([]model.Transaction, error) {
	if m.GetTransactionsFn != nil {
		return m.GetTransactionsFn(ctx)
	}
	return nil, nil
}

// UpdateRow implements Service, recording every patch.
func (m *MockService) UpdateRow(ctx context.Context, id int, patch map[string]string) error {
	m.mu.Lock()
	m.Patches = append(m.Patches, RecordedPatch{ID: id, Patch: patch})
	m.mu.Unlock()

	if m.UpdateRowFn != nil {
		return m.UpdateRowFn(ctx, id, patch)
	}
	return nil
}

// AIMatch implements Service.
func (m *MockService) AIMatch(ctx context.Context, id int) (MatchResult, error) {
	if m.AIMatchFn != nil {
		return m.AIMatchFn(ctx, id)
	}
	return MatchResult{}, nil
}

// GenerateNote implements Service.
func (m *MockService) GenerateNote(ctx context.Context, id int) (string, error) {
	if m.GenerateNoteFn != nil {
		return m.GenerateNoteFn(ctx, id)
	}
	return "", nil
}

// Categorize implements Service.
func (m *MockService) Categorize(ctx context.Context, id int) (string, error) {
	if m.CategorizeFn != nil {
		return m.CategorizeFn(ctx, id)
	}
	return "", nil
}

// GetBusinessTypes implements Service.
func (m *MockService) GetBusinessTypes(ctx context.Context) ([]model.BusinessType, error) {
	if m.GetBusinessTypesFn != nil {
		return m.GetBusinessTypesFn(ctx)
	}
	return nil, nil
}

// RecordedPatches returns a copy of the captured UpdateRow calls.
func (m *MockService) RecordedPatches() []RecordedPatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedPatch, len(m.Patches))
	copy(out, m.Patches)
	return out
}

// Ensure MockService implements the Service interface.
var _ Service = (*MockService)(nil)
