package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/collegefest/champboard/internal/errors"
	"github.com/collegefest/champboard/internal/logger"
	"github.com/collegefest/champboard/internal/repository"
)

// Setting keys
const (
	SettingSiteTitle   = "site_title"
	SettingRulebookURL = "rulebook_url"
	SettingBaseURL     = "base_url"
)

// DefaultSiteTitle is shown until an admin sets one
const DefaultSiteTitle = "Inter-Department Championship"

// SettingsService handles settings-related business logic
type SettingsService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo}
}

// GetSiteTitle returns the configured title or the default
func (s *SettingsService) GetSiteTitle(ctx context.Context) (string, error) {
	return s.get(ctx, SettingSiteTitle, DefaultSiteTitle)
}

// GetRulebookURL returns the rulebook link shown on the sports page
func (s *SettingsService) GetRulebookURL(ctx context.Context) (string, error) {
	return s.get(ctx, SettingRulebookURL, "")
}

// GetBaseURL returns the application base URL
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	return s.get(ctx, SettingBaseURL, "") // No default - setting not yet configured
}

// SetBaseURL saves the application base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, u string) error {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if err := validateURL("base_url", u); err != nil {
		return err
	}
	return translate(s.repo.SetSetting(ctx, SettingBaseURL, u), "setting")
}

// AllSettings returns every known setting, defaults filled in
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]string, error) {
	stored, err := s.repo.AllSettings(ctx)
	if err != nil {
		return nil, translate(err, "settings")
	}
	settings := map[string]string{
		SettingSiteTitle:   DefaultSiteTitle,
		SettingRulebookURL: "",
		SettingBaseURL:     "",
	}
	for k := range settings {
		if v, ok := stored[k]; ok {
			settings[k] = v
		}
	}
	return settings, nil
}

// Settings represents application settings for update operations.
// Nil fields are left unchanged; an empty string clears a URL.
type Settings struct {
	SiteTitle   *string `json:"site_title,omitempty"`
	RulebookURL *string `json:"rulebook_url,omitempty"`
	BaseURL     *string `json:"base_url,omitempty"`
}

// UpdateSettings validates every provided field before writing any
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.SiteTitle == nil && settings.RulebookURL == nil && settings.BaseURL == nil {
		return ErrNoFieldsToUpdate
	}

	updates := make(map[string]string)
	if settings.SiteTitle != nil {
		title := strings.TrimSpace(*settings.SiteTitle)
		if title == "" {
			return errors.Validation("site_title must not be empty")
		}
		updates[SettingSiteTitle] = title
	}
	if settings.RulebookURL != nil {
		u := strings.TrimSpace(*settings.RulebookURL)
		if err := validateURL("rulebook_url", u); err != nil {
			return err
		}
		updates[SettingRulebookURL] = u
	}
	if settings.BaseURL != nil {
		u := strings.TrimRight(strings.TrimSpace(*settings.BaseURL), "/")
		if err := validateURL("base_url", u); err != nil {
			return err
		}
		updates[SettingBaseURL] = u
	}

	for k, v := range updates {
		if err := s.repo.SetSetting(ctx, k, v); err != nil {
			return translate(err, "setting")
		}
	}
	s.log.Info("Settings updated", "count", len(updates))
	return nil
}

func (s *SettingsService) get(ctx context.Context, key, fallback string) (string, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		if err == repository.ErrNotFound {
			return fallback, nil
		}
		return "", translate(err, "setting") // Propagate database errors
	}
	return value, nil
}

// validateURL accepts "" or an absolute http(s) URL
func validateURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Validationf("%s must be an absolute http(s) URL", field)
	}
	return nil
}
