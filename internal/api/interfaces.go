package api

import (
	"context"

	"github.com/tallyups/tally/internal/model"
)

// Service is the surface of the TallyUps server the review interface
// consumes. The TUI depends on this interface so tests can substitute a mock.
type Service interface {
	GetTransactions(ctx context.Context) ([]model.Transaction, error)
	UpdateRow(ctx context.Context, id int, patch map[string]string) error
	AIMatch(ctx context.Context, id int) (MatchResult, error)
	GenerateNote(ctx context.Context, id int) (string, error)
	Categorize(ctx context.Context, id int) (string, error)
	GetBusinessTypes(ctx context.Context) ([]model.BusinessType, error)
}

// LinkService is the bank-link lifecycle surface used by the link command.
type LinkService interface {
	GetLinkStatus(ctx context.Context) (LinkStatus, error)
	CreateLinkToken(ctx context.Context) (string, error)
	ExchangeLinkToken(ctx context.Context, publicToken string) error
	RemoveLink(ctx context.Context) error
}
