package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campus-portal/campus-api/internal/identity"
	"github.com/campus-portal/campus-api/internal/repository"
)

// AccountService hydrates request principals from stored accounts.
type AccountService interface {
	Resolve(ctx context.Context, email string, role identity.Role) (identity.Principal, error)
}

type accountService struct {
	accounts repository.AccountRepository
	logger   zerolog.Logger
}

// NewAccountService constructs the account service.
func NewAccountService(accounts repository.AccountRepository, logger zerolog.Logger) AccountService {
	return &accountService{
		accounts: accounts,
		logger:   logger.With().Str("component", "account_service").Logger(),
	}
}

// Resolve provisions the account on first sight and returns the principal
// with its leader approval state. An empty role means none was claimed and
// the stored role applies.
func (s *accountService) Resolve(ctx context.Context, email string, role identity.Role) (identity.Principal, error) {
	email = identity.NormalizeIdentity(email)
	if email == "" {
		return identity.Principal{}, nil
	}

	account, err := s.accounts.Resolve(ctx, email, string(role))
	if err != nil {
		s.logger.Error().Err(err).Str("email", maskEmail(email)).Msg("failed to resolve account")
		return identity.Principal{}, err
	}

	return identity.Principal{
		Identity:       account.Email,
		Role:           identity.Role(account.Role),
		LeaderApproved: account.LeaderApproved,
	}, nil
}
