package service

import (
	"context"
	"encoding/json"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	apperrors "github.com/Crypto-Scavenger/Ing-Fast/internal/errors"
	redisclient "github.com/Crypto-Scavenger/Ing-Fast/internal/redis"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/repository"
)

// Setting keys. The store rejects anything else.
const (
	SettingEnableNotifications   = "enable_notifications"
	SettingMilestoneEmail        = "milestone_email"
	SettingDeleteDataOnUninstall = "delete_data_on_uninstall"
)

var defaultSettings = map[string]string{
	SettingEnableNotifications:   "1",
	SettingMilestoneEmail:        "0",
	SettingDeleteDataOnUninstall: "0",
}

// SettingsService is the durable keyed settings store, read through a Redis
// cache. Writes invalidate the cache explicitly.
type SettingsService struct {
	settingRepo repository.SettingRepository
	cache       *redisclient.Client
}

func NewSettingsService(settingRepo repository.SettingRepository, cache *redisclient.Client) *SettingsService {
	return &SettingsService{
		settingRepo: settingRepo,
		cache:       cache,
	}
}

// EnsureDefaults seeds any missing settings. Existing values are untouched.
func (s *SettingsService) EnsureDefaults(ctx context.Context) error {
	for key, value := range defaultSettings {
		if err := s.settingRepo.UpsertIfAbsent(ctx, key, value); err != nil {
			return apperrors.Database(err)
		}
	}
	return nil
}

// All returns the settings map.
func (s *SettingsService) All(ctx context.Context) (map[string]string, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	rows, err := s.settingRepo.All(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}

	s.toCache(ctx, settings)
	return settings, nil
}

// Save writes one setting and invalidates the cache.
func (s *SettingsService) Save(ctx context.Context, key, value string) error {
	if _, ok := defaultSettings[key]; !ok {
		return apperrors.InvalidInput("setting", "unknown key "+key)
	}
	if value != "0" && value != "1" {
		return apperrors.InvalidInput(key, "value must be 0 or 1")
	}

	if err := s.settingRepo.Upsert(ctx, key, value); err != nil {
		return apperrors.Database(err)
	}

	s.invalidate(ctx)
	log.Info().Str("key", key).Str("value", value).Msg("setting saved")
	return nil
}

func (s *SettingsService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, redisclient.SettingsKey).Err(); err != nil {
		log.Warn().Err(err).Msg("invalidate settings cache")
	}
}

func (s *SettingsService) fromCache(ctx context.Context) map[string]string {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, redisclient.SettingsKey).Result()
	if err != nil {
		if err != goredis.Nil {
			log.Warn().Err(err).Msg("read settings cache")
		}
		return nil
	}
	var settings map[string]string
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return nil
	}
	return settings
}

func (s *SettingsService) toCache(ctx context.Context, settings map[string]string) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, redisclient.SettingsKey, data, 0).Err(); err != nil {
		log.Warn().Err(err).Msg("write settings cache")
	}
}
