package simulator

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/padsync/padsync/internal/gamepad"
)

// Repository defines the interface for simulator persistence operations.
type Repository interface {
	ListProfiles(ctx context.Context) ([]gamepad.Profile, error)
	GetProfile(ctx context.Context, id string) (*gamepad.Profile, error)
	CreateProfile(ctx context.Context, profile *gamepad.Profile) error
	DeleteProfile(ctx context.Context, id string) error

	ListGameRules(ctx context.Context) ([]gamepad.GameRule, error)
	CreateGameRule(ctx context.Context, rule *gamepad.GameRule) error
	DeleteGameRule(ctx context.Context, id string) error
	SetGameRuleEnabled(ctx context.Context, id string, enabled bool) error

	// Settings operations (single-row table — one record per deployment).
	GetSettings(ctx context.Context) (gamepad.Settings, error)
	UpdateSettings(ctx context.Context, settings gamepad.Settings) error
	SetActiveProfileID(ctx context.Context, profileID *string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed simulator repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ListProfiles returns all profiles ordered by creation time.
func (r *SQLiteRepository) ListProfiles(ctx context.Context) ([]gamepad.Profile, error) {
	const query = `SELECT id, name, assignments, routing_mode
		FROM profiles ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var profiles []gamepad.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profiles: %w", err)
	}
	return profiles, nil
}

// GetProfile returns a single profile by ID.
func (r *SQLiteRepository) GetProfile(ctx context.Context, id string) (*gamepad.Profile, error) {
	const query = `SELECT id, name, assignments, routing_mode
		FROM profiles WHERE id = ?`
	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateProfile inserts a new profile into the database.
func (r *SQLiteRepository) CreateProfile(ctx context.Context, profile *gamepad.Profile) error {
	assignments, err := json.Marshal(profile.Assignments)
	if err != nil {
		return fmt.Errorf("encoding assignments: %w", err)
	}

	now := time.Now().UTC()
	const query = `INSERT INTO profiles (id, name, assignments, routing_mode, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		profile.ID, profile.Name, string(assignments), string(profile.RoutingMode), now, now)
	if err != nil {
		return fmt.Errorf("inserting profile %s: %w", profile.ID, err)
	}
	return nil
}

// DeleteProfile removes a profile, its game rules (foreign key cascade),
// and clears the active-profile setting when it references the deleted id.
func (r *SQLiteRepository) DeleteProfile(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	result, err := tx.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting profile %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting profile %s: %w", id, err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE settings SET active_profile_id = NULL, updated_at = ? WHERE id = 1 AND active_profile_id = ?",
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("clearing active profile: %w", err)
	}

	return tx.Commit()
}

// ListGameRules returns all game rules ordered by creation time.
func (r *SQLiteRepository) ListGameRules(ctx context.Context) ([]gamepad.GameRule, error) {
	const query = `SELECT id, exe_name, profile_id, enabled
		FROM game_rules ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing game rules: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var rules []gamepad.GameRule
	for rows.Next() {
		var rule gamepad.GameRule
		if err := rows.Scan(&rule.ID, &rule.ExeName, &rule.ProfileID, &rule.Enabled); err != nil {
			return nil, fmt.Errorf("scanning game rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game rules: %w", err)
	}
	return rules, nil
}

// CreateGameRule inserts a new game rule. The referenced profile must exist.
func (r *SQLiteRepository) CreateGameRule(ctx context.Context, rule *gamepad.GameRule) error {
	const query = `INSERT INTO game_rules (id, exe_name, profile_id, enabled, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.ExeName, rule.ProfileID, rule.Enabled, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("inserting game rule %s: %w", rule.ID, err)
	}
	return nil
}

// DeleteGameRule removes a game rule by ID.
func (r *SQLiteRepository) DeleteGameRule(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM game_rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting game rule %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting game rule %s: %w", id, err)
	}
	if affected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// SetGameRuleEnabled flips a rule's enabled flag.
func (r *SQLiteRepository) SetGameRuleEnabled(ctx context.Context, id string, enabled bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE game_rules SET enabled = ? WHERE id = ?", enabled, id)
	if err != nil {
		return fmt.Errorf("updating game rule %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating game rule %s: %w", id, err)
	}
	if affected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// GetSettings returns the settings record. The initial migration seeds the
// single row, so a missing row is a schema error.
func (r *SQLiteRepository) GetSettings(ctx context.Context) (gamepad.Settings, error) {
	const query = `SELECT auto_start, start_minimized, auto_forward_on_launch, auto_switch, active_profile_id
		FROM settings WHERE id = 1`

	var s gamepad.Settings
	var active sql.NullString
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.AutoStart, &s.StartMinimized, &s.AutoForwardOnLaunch, &s.AutoSwitch, &active)
	if err != nil {
		return gamepad.Settings{}, fmt.Errorf("reading settings: %w", err)
	}
	if active.Valid {
		s.ActiveProfileID = &active.String
	}
	return s, nil
}

// UpdateSettings replaces the settings record wholesale.
func (r *SQLiteRepository) UpdateSettings(ctx context.Context, settings gamepad.Settings) error {
	const query = `UPDATE settings
		SET auto_start = ?, start_minimized = ?, auto_forward_on_launch = ?,
		    auto_switch = ?, active_profile_id = ?, updated_at = ?
		WHERE id = 1`
	_, err := r.db.ExecContext(ctx, query,
		settings.AutoStart, settings.StartMinimized, settings.AutoForwardOnLaunch,
		settings.AutoSwitch, nullStr(settings.ActiveProfileID), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("updating settings: %w", err)
	}
	return nil
}

// SetActiveProfileID updates only the active-profile reference.
func (r *SQLiteRepository) SetActiveProfileID(ctx context.Context, profileID *string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE settings SET active_profile_id = ?, updated_at = ? WHERE id = 1",
		nullStr(profileID), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("updating active profile: %w", err)
	}
	return nil
}

// nullStr converts a *string to a sql.NullString for nullable columns.
func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProfile reads one profile row, decoding the assignments JSON column.
func scanProfile(row rowScanner) (*gamepad.Profile, error) {
	var p gamepad.Profile
	var assignments, mode string
	if err := row.Scan(&p.ID, &p.Name, &assignments, &mode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning profile: %w", err)
	}
	if err := json.Unmarshal([]byte(assignments), &p.Assignments); err != nil {
		return nil, fmt.Errorf("decoding assignments for profile %s: %w", p.ID, err)
	}
	p.RoutingMode = gamepad.RoutingMode(mode)
	return &p, nil
}
