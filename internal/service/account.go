package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/config"
	apperrors "github.com/Crypto-Scavenger/Ing-Fast/internal/errors"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/model"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/repository"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/util"
)

type RegisterAccountResult struct {
	AccountID string `json:"accountId"`
	// APIToken is returned exactly once; only its hash is stored.
	APIToken string `json:"apiToken"`
}

type AccountService struct {
	accountRepo repository.AccountRepository
}

func NewAccountService(accountRepo repository.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// Register creates an account and returns its API token.
func (s *AccountService) Register(ctx context.Context, displayName *string) (*RegisterAccountResult, error) {
	token, err := util.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	account, err := s.accountRepo.Create(ctx, model.CreateAccountParams{
		DisplayName:     displayName,
		APITokenHash:    util.HashToken(token),
		RateLimitPerMin: config.DefaultRateLimitPerMin,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().Str("accountId", account.ID).Msg("account registered")

	return &RegisterAccountResult{
		AccountID: account.ID,
		APIToken:  token,
	}, nil
}

// RotateToken replaces the account's API token, invalidating the old one.
func (s *AccountService) RotateToken(ctx context.Context, accountID string) (*RegisterAccountResult, error) {
	token, err := util.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	if err := s.accountRepo.UpdateTokenHash(ctx, accountID, util.HashToken(token)); err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().Str("accountId", accountID).Msg("api token rotated")

	return &RegisterAccountResult{
		AccountID: accountID,
		APIToken:  token,
	}, nil
}
