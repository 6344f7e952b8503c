package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"visaconsult/internal/adapters/persistence/models"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/core/domain"
	"visaconsult/internal/pkg/pagination"
)

// Settings errors
var (
	ErrInvalidSettingCategory = errors.New("invalid settings category")
	ErrEmptySettingKey        = errors.New("setting key must not be empty")
)

// Settings is the grouped {category: {key: value}} view of all settings
type Settings map[domain.SettingCategory]map[string]string

// SettingsService reads and writes runtime settings and serves the audit log
type SettingsService struct {
	store *repositories.Store
	now   func() time.Time
}

// NewSettingsService creates a new settings service
func NewSettingsService(store *repositories.Store) *SettingsService {
	return &SettingsService{store: store, now: time.Now}
}

// GetAll returns every setting grouped by category
func (s *SettingsService) GetAll(ctx context.Context) (Settings, error) {
	rows, err := s.store.Settings.List(ctx)
	if err != nil {
		return nil, err
	}

	grouped := Settings{}
	for _, row := range rows {
		if grouped[row.Category] == nil {
			grouped[row.Category] = map[string]string{}
		}
		grouped[row.Category][row.Key] = row.Value
	}
	return grouped, nil
}

// Update upserts every (category, key) pair in one transaction and
// returns how many were written. An unknown category rejects the whole
// update.
func (s *SettingsService) Update(ctx context.Context, input Settings, actor domain.Actor) (int, error) {
	categories := make([]string, 0, len(input))
	for category, values := range input {
		if !category.Valid() {
			return 0, fmt.Errorf("%w: %s", ErrInvalidSettingCategory, category)
		}
		for key := range values {
			if strings.TrimSpace(key) == "" {
				return 0, ErrEmptySettingKey
			}
		}
		categories = append(categories, string(category))
	}
	sort.Strings(categories)

	updated := 0
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		keys := []string{}
		for _, c := range categories {
			category := domain.SettingCategory(c)
			names := make([]string, 0, len(input[category]))
			for key := range input[category] {
				names = append(names, key)
			}
			sort.Strings(names)

			for _, key := range names {
				setting := &models.Setting{Category: category, Key: strings.TrimSpace(key), Value: input[category][key]}
				if err := tx.Settings.Upsert(ctx, setting); err != nil {
					return fmt.Errorf("upsert %s.%s: %w", category, key, err)
				}
				keys = append(keys, c+"."+setting.Key)
				updated++
			}
		}

		return recordAdminLog(ctx, tx, actor, models.ActionSettingsUpdate, Details{
			"keys":  keys,
			"count": updated,
		}, s.now().UTC())
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// Bool reads a boolean setting, falling back to def when missing or unparsable
func (s *SettingsService) Bool(ctx context.Context, category domain.SettingCategory, key string, def bool) bool {
	setting, err := s.store.Settings.Get(ctx, category, key)
	if err != nil {
		return def
	}
	v, err := strconv.ParseBool(strings.TrimSpace(setting.Value))
	if err != nil {
		return def
	}
	return v
}

// String reads a setting, falling back to def when missing
func (s *SettingsService) String(ctx context.Context, category domain.SettingCategory, key, def string) string {
	setting, err := s.store.Settings.Get(ctx, category, key)
	if err != nil || setting.Value == "" {
		return def
	}
	return setting.Value
}

// ListAdminLogsInput filters the audit log
type ListAdminLogsInput struct {
	UserID *uint
	Action string
}

// ListAdminLogs pages through the audit log, newest first
func (s *SettingsService) ListAdminLogs(ctx context.Context, input *ListAdminLogsInput, params *pagination.Params) (*pagination.Response[*models.AdminLog], error) {
	logs, total, err := s.store.AdminLogs.List(ctx, repositories.AdminLogFilter{
		UserID: input.UserID,
		Action: input.Action,
	}, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(logs, params, total), nil
}
