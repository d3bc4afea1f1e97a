package services_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/collegefest/champboard/internal/errors"
	"github.com/collegefest/champboard/internal/repository/mock"
	"github.com/collegefest/champboard/internal/services"
	"github.com/collegefest/champboard/internal/testutil"
)

func TestSettingsService_Defaults(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(quietLogger(), repo)
	ctx := context.Background()

	title, err := svc.GetSiteTitle(ctx)
	if err != nil {
		t.Fatalf("GetSiteTitle failed: %v", err)
	}
	if title != services.DefaultSiteTitle {
		t.Errorf("expected default title, got %q", title)
	}

	baseURL, err := svc.GetBaseURL(ctx)
	if err != nil {
		t.Fatalf("GetBaseURL failed: %v", err)
	}
	if baseURL != "" {
		t.Errorf("expected empty base url, got %q", baseURL)
	}

	all, err := svc.AllSettings(ctx)
	if err != nil {
		t.Fatalf("AllSettings failed: %v", err)
	}
	if len(all) != 3 || all[services.SettingSiteTitle] != services.DefaultSiteTitle {
		t.Errorf("unexpected settings: %v", all)
	}
}

func TestSettingsService_UpdateSettings(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(quietLogger(), repo)
	ctx := context.Background()

	err := svc.UpdateSettings(ctx, services.Settings{
		SiteTitle:   ptr(" Utsav 2025 "),
		RulebookURL: ptr("https://example.org/rules.pdf"),
		BaseURL:     ptr("http://192.168.1.10:8081/"),
	})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	all, err := svc.AllSettings(ctx)
	if err != nil {
		t.Fatalf("AllSettings failed: %v", err)
	}
	if all[services.SettingSiteTitle] != "Utsav 2025" {
		t.Errorf("expected trimmed title, got %q", all[services.SettingSiteTitle])
	}
	if all[services.SettingBaseURL] != "http://192.168.1.10:8081" {
		t.Errorf("expected trailing slash removed, got %q", all[services.SettingBaseURL])
	}

	rulebook, err := svc.GetRulebookURL(ctx)
	if err != nil {
		t.Fatalf("GetRulebookURL failed: %v", err)
	}
	if rulebook != "https://example.org/rules.pdf" {
		t.Errorf("unexpected rulebook url %q", rulebook)
	}
}

func TestSettingsService_UpdateSettings_Validation(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(quietLogger(), repo)
	ctx := context.Background()

	if err := svc.UpdateSettings(ctx, services.Settings{}); err != services.ErrNoFieldsToUpdate {
		t.Errorf("expected ErrNoFieldsToUpdate, got %v", err)
	}

	tests := []struct {
		name     string
		settings services.Settings
	}{
		{"blank title", services.Settings{SiteTitle: ptr("  ")}},
		{"relative rulebook", services.Settings{RulebookURL: ptr("/rules.pdf")}},
		{"ftp base url", services.Settings{BaseURL: ptr("ftp://example.org")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectKind(t, svc.UpdateSettings(ctx, tt.settings), errors.ErrValidation)
		})
	}

	// nothing is written when any field is invalid
	err := svc.UpdateSettings(ctx, services.Settings{SiteTitle: ptr("Fest"), BaseURL: ptr("nope")})
	expectKind(t, err, errors.ErrValidation)
	title, err := svc.GetSiteTitle(ctx)
	if err != nil {
		t.Fatalf("GetSiteTitle failed: %v", err)
	}
	if title != services.DefaultSiteTitle {
		t.Errorf("expected title untouched, got %q", title)
	}
}

func TestSettingsService_SetBaseURL(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewSettingsService(quietLogger(), repo)
	ctx := context.Background()

	if err := svc.SetBaseURL(ctx, "https://fest.example.edu/"); err != nil {
		t.Fatalf("SetBaseURL failed: %v", err)
	}
	got, err := svc.GetBaseURL(ctx)
	if err != nil {
		t.Fatalf("GetBaseURL failed: %v", err)
	}
	if got != "https://fest.example.edu" {
		t.Errorf("unexpected base url %q", got)
	}
	expectKind(t, svc.SetBaseURL(ctx, "fest.example.edu"), errors.ErrValidation)
}

func TestSettingsService_DatabaseError(t *testing.T) {
	mockRepo := mock.NewRepository(testutil.NewTestRepository(t))
	mockRepo.GetSettingError = stderrors.New("database is locked")
	svc := services.NewSettingsService(quietLogger(), mockRepo)

	_, err := svc.GetSiteTitle(context.Background())
	expectKind(t, err, errors.ErrInternal)
}
