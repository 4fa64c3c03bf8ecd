package engine

import (
	"context"

	"github.com/padsync/padsync/internal/gamepad"
)

// AddGameRule creates a game rule on the backend, which validates the
// profile reference and assigns the id, then appends it locally.
func (e *Engine) AddGameRule(ctx context.Context, exeName, profileID string) (gamepad.GameRule, error) {
	rule, err := e.backend.AddGameRule(ctx, exeName, profileID)
	if err != nil {
		e.setError("add game rule", err)
		return gamepad.GameRule{}, err
	}

	e.mu.Lock()
	e.rules = append(e.rules, rule)
	e.mu.Unlock()
	e.notify()

	e.getLogger().Info("game rule added", "id", rule.ID, "exe", exeName)
	return rule, nil
}

// DeleteGameRule deletes a game rule remotely, then locally.
func (e *Engine) DeleteGameRule(ctx context.Context, ruleID string) error {
	if err := e.backend.DeleteGameRule(ctx, ruleID); err != nil {
		e.setError("delete game rule", err)
		return err
	}

	e.mu.Lock()
	kept := e.rules[:0]
	for _, r := range e.rules {
		if r.ID != ruleID {
			kept = append(kept, r)
		}
	}
	e.rules = kept
	e.mu.Unlock()
	e.notify()
	return nil
}

// ToggleGameRule enables or disables a game rule remotely, then locally.
func (e *Engine) ToggleGameRule(ctx context.Context, ruleID string, enabled bool) error {
	if err := e.backend.ToggleGameRule(ctx, ruleID, enabled); err != nil {
		e.setError("toggle game rule", err)
		return err
	}

	e.mu.Lock()
	for i := range e.rules {
		if e.rules[i].ID == ruleID {
			e.rules[i].Enabled = enabled
			break
		}
	}
	e.mu.Unlock()
	e.notify()
	return nil
}

// UpdateSettings persists a settings record on the backend and applies the
// stored copy locally on success.
func (e *Engine) UpdateSettings(ctx context.Context, settings gamepad.Settings) error {
	stored, err := e.backend.UpdateSettings(ctx, settings)
	if err != nil {
		e.setError("update settings", err)
		return err
	}

	e.mu.Lock()
	e.settings = stored
	e.mu.Unlock()
	e.notify()
	return nil
}
