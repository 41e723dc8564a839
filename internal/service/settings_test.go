package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/Crypto-Scavenger/Ing-Fast/internal/errors"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/model"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/repository"
)

// Mock setting repository
type mockSettingRepo struct {
	mock.Mock
}

func (m *mockSettingRepo) Find(ctx context.Context, key string) (*model.Setting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Setting), args.Error(1)
}

func (m *mockSettingRepo) All(ctx context.Context) ([]model.Setting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Setting), args.Error(1)
}

func (m *mockSettingRepo) Upsert(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockSettingRepo) UpsertIfAbsent(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockSettingRepo) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSettingRepo) WithTx(tx *sqlx.Tx) repository.SettingRepository {
	return m
}

func TestSettingsService_EnsureDefaults(t *testing.T) {
	t.Run("seeds every default without overwriting", func(t *testing.T) {
		repo := new(mockSettingRepo)
		svc := NewSettingsService(repo, nil)

		ctx := context.Background()
		repo.On("UpsertIfAbsent", ctx, SettingEnableNotifications, "1").Return(nil)
		repo.On("UpsertIfAbsent", ctx, SettingMilestoneEmail, "0").Return(nil)
		repo.On("UpsertIfAbsent", ctx, SettingDeleteDataOnUninstall, "0").Return(nil)

		err := svc.EnsureDefaults(ctx)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestSettingsService_All(t *testing.T) {
	t.Run("maps rows to a settings map", func(t *testing.T) {
		repo := new(mockSettingRepo)
		svc := NewSettingsService(repo, nil)

		ctx := context.Background()
		repo.On("All", ctx).Return([]model.Setting{
			{Key: SettingEnableNotifications, Value: "1"},
			{Key: SettingMilestoneEmail, Value: "0"},
		}, nil)

		settings, err := svc.All(ctx)

		assert.NoError(t, err)
		assert.Equal(t, map[string]string{
			SettingEnableNotifications: "1",
			SettingMilestoneEmail:      "0",
		}, settings)
	})
}

func TestSettingsService_Save(t *testing.T) {
	t.Run("persists a known key", func(t *testing.T) {
		repo := new(mockSettingRepo)
		svc := NewSettingsService(repo, nil)

		ctx := context.Background()
		repo.On("Upsert", ctx, SettingMilestoneEmail, "1").Return(nil)

		err := svc.Save(ctx, SettingMilestoneEmail, "1")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		repo := new(mockSettingRepo)
		svc := NewSettingsService(repo, nil)

		err := svc.Save(context.Background(), "mystery_flag", "1")

		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects values other than 0 or 1", func(t *testing.T) {
		repo := new(mockSettingRepo)
		svc := NewSettingsService(repo, nil)

		for _, value := range []string{"", "yes", "2", "true"} {
			err := svc.Save(context.Background(), SettingEnableNotifications, value)
			assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
		}
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})
}
