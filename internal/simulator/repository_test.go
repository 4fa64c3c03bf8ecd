package simulator

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/padsync/padsync/internal/gamepad"
	"github.com/padsync/padsync/internal/infrastructure/database"
	_ "github.com/padsync/padsync/migrations"
)

// openTestRepo creates a migrated temporary database.
func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "sim.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return NewSQLiteRepository(db.DB)
}

func TestProfileCRUD(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	profile := gamepad.Profile{
		ID:   "prof-1",
		Name: "Racing",
		Assignments: []gamepad.SlotAssignment{
			{DeviceID: "sim-01", Slot: 0, Enabled: true},
			{DeviceID: "sim-02", Slot: 1, Enabled: false},
		},
		RoutingMode: gamepad.RoutingForce,
	}
	if err := repo.CreateProfile(ctx, &profile); err != nil {
		t.Fatalf("CreateProfile() error = %v", err)
	}

	got, err := repo.GetProfile(ctx, "prof-1")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.Name != "Racing" || got.RoutingMode != gamepad.RoutingForce {
		t.Errorf("GetProfile() = %+v", got)
	}
	if len(got.Assignments) != 2 || got.Assignments[1].DeviceID != "sim-02" || got.Assignments[1].Enabled {
		t.Errorf("assignments did not round-trip: %+v", got.Assignments)
	}

	profiles, err := repo.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("ListProfiles() returned %d profiles, want 1", len(profiles))
	}

	if err := repo.DeleteProfile(ctx, "prof-1"); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}
	if _, err := repo.GetProfile(ctx, "prof-1"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("GetProfile() after delete error = %v, want ErrProfileNotFound", err)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	repo := openTestRepo(t)

	if _, err := repo.GetProfile(context.Background(), "missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("GetProfile() error = %v, want ErrProfileNotFound", err)
	}
}

func TestDeleteProfileCascadesRules(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	profile := gamepad.Profile{ID: "prof-1", Name: "FPS", RoutingMode: gamepad.RoutingMinimal}
	if err := repo.CreateProfile(ctx, &profile); err != nil {
		t.Fatalf("CreateProfile() error = %v", err)
	}
	rule := gamepad.GameRule{ID: "rule-1", ExeName: "game.exe", ProfileID: "prof-1", Enabled: true}
	if err := repo.CreateGameRule(ctx, &rule); err != nil {
		t.Fatalf("CreateGameRule() error = %v", err)
	}

	if err := repo.DeleteProfile(ctx, "prof-1"); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}

	rules, err := repo.ListGameRules(ctx)
	if err != nil {
		t.Fatalf("ListGameRules() error = %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("expected rules cascade-deleted, got %d", len(rules))
	}
}

func TestDeleteProfileClearsActiveReference(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	profile := gamepad.Profile{ID: "prof-1", Name: "FPS", RoutingMode: gamepad.RoutingMinimal}
	if err := repo.CreateProfile(ctx, &profile); err != nil {
		t.Fatalf("CreateProfile() error = %v", err)
	}
	if err := repo.SetActiveProfileID(ctx, &profile.ID); err != nil {
		t.Fatalf("SetActiveProfileID() error = %v", err)
	}

	if err := repo.DeleteProfile(ctx, "prof-1"); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}

	settings, err := repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings.ActiveProfileID != nil {
		t.Errorf("active profile id = %v, want nil after deleting active profile", *settings.ActiveProfileID)
	}
}

func TestDeleteProfileNotFound(t *testing.T) {
	repo := openTestRepo(t)

	if err := repo.DeleteProfile(context.Background(), "missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("DeleteProfile() error = %v, want ErrProfileNotFound", err)
	}
}

func TestGameRules(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	profile := gamepad.Profile{ID: "prof-1", Name: "FPS", RoutingMode: gamepad.RoutingMinimal}
	if err := repo.CreateProfile(ctx, &profile); err != nil {
		t.Fatalf("CreateProfile() error = %v", err)
	}

	rule := gamepad.GameRule{ID: "rule-1", ExeName: "game.exe", ProfileID: "prof-1", Enabled: true}
	if err := repo.CreateGameRule(ctx, &rule); err != nil {
		t.Fatalf("CreateGameRule() error = %v", err)
	}

	if err := repo.SetGameRuleEnabled(ctx, "rule-1", false); err != nil {
		t.Fatalf("SetGameRuleEnabled() error = %v", err)
	}
	rules, err := repo.ListGameRules(ctx)
	if err != nil {
		t.Fatalf("ListGameRules() error = %v", err)
	}
	if len(rules) != 1 || rules[0].Enabled {
		t.Errorf("ListGameRules() = %+v, want one disabled rule", rules)
	}

	if err := repo.DeleteGameRule(ctx, "rule-1"); err != nil {
		t.Fatalf("DeleteGameRule() error = %v", err)
	}
	if err := repo.DeleteGameRule(ctx, "rule-1"); !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("second DeleteGameRule() error = %v, want ErrRuleNotFound", err)
	}
	if err := repo.SetGameRuleEnabled(ctx, "rule-1", true); !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("SetGameRuleEnabled() on deleted rule error = %v, want ErrRuleNotFound", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	// Migration seeds the defaults row.
	settings, err := repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings.AutoStart || settings.ActiveProfileID != nil {
		t.Errorf("default settings = %+v", settings)
	}

	active := "prof-1"
	updated := gamepad.Settings{
		AutoStart:           true,
		StartMinimized:      true,
		AutoForwardOnLaunch: false,
		AutoSwitch:          true,
		ActiveProfileID:     &active,
	}
	if err := repo.UpdateSettings(ctx, updated); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}

	got, err := repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if !got.AutoStart || !got.StartMinimized || !got.AutoSwitch || got.AutoForwardOnLaunch {
		t.Errorf("GetSettings() = %+v, want %+v", got, updated)
	}
	if got.ActiveProfileID == nil || *got.ActiveProfileID != "prof-1" {
		t.Errorf("ActiveProfileID = %v, want prof-1", got.ActiveProfileID)
	}
}
