package core

import (
	"context"
	"fmt"
	"time"

	"github.com/kilupskalvis/mapedit/internal/edits"
	"github.com/kilupskalvis/mapedit/internal/history"
	"github.com/kilupskalvis/mapedit/internal/logger"
	"github.com/kilupskalvis/mapedit/internal/metrics"
	"github.com/kilupskalvis/mapedit/internal/models"
	"github.com/kilupskalvis/mapedit/internal/store"
)

// Deps are the collaborators of edit processing. History, Metrics and
// Logger are optional.
type Deps struct {
	Store             *store.Store
	History           *history.Log
	Metrics           *metrics.Metrics
	Logger            *logger.Logger
	NodeMoveTolerance float64 // meters, zero means the default
}

func (d *Deps) logger() *logger.Logger {
	if d.Logger == nil {
		return logger.Nop()
	}
	return d.Logger
}

// ApplyResult contains the outcome of applying pending edits.
type ApplyResult struct {
	Applied    []*models.ElementEdit
	Conflicted []*models.ElementEdit
	Noop       int // applied edits that had nothing left to change
}

// AddEdit encodes an action and appends it to the edit queue.
func AddEdit(st *store.Store, action edits.Action) (*models.ElementEdit, error) {
	return addEdit(st, action, "")
}

func addEdit(st *store.Store, action edits.Action, revertOf string) (*models.ElementEdit, error) {
	typ, err := edits.TypeName(action)
	if err != nil {
		return nil, err
	}
	data, err := edits.Encode(action)
	if err != nil {
		return nil, fmt.Errorf("encode action: %w", err)
	}

	edit := &models.ElementEdit{
		ElementKey: primaryKey(action),
		ActionType: typ,
		Action:     data,
		State:      models.EditPending,
		RevertOf:   revertOf,
	}
	if err := st.AddEdit(edit); err != nil {
		return nil, fmt.Errorf("add edit: %w", err)
	}
	return edit, nil
}

func primaryKey(action edits.Action) models.ElementKey {
	if keys := action.ElementKeys(); len(keys) > 0 {
		return keys[0]
	}
	return models.ElementKey{}
}

// ApplyPendingEdits applies all pending edits in queue order. An edit that
// conflicts with the current map data is marked conflicted and skipped;
// any other error stops processing.
func ApplyPendingEdits(ctx context.Context, deps Deps) (*ApplyResult, error) {
	pending, err := deps.Store.ListEdits(models.EditPending)
	if err != nil {
		return nil, fmt.Errorf("list pending edits: %w", err)
	}

	actionCtx := ctx
	if deps.NodeMoveTolerance > 0 {
		actionCtx = edits.WithNodeMoveTolerance(ctx, deps.NodeMoveTolerance)
	}

	result := &ApplyResult{}
	defer func() {
		if deps.Metrics != nil {
			deps.Metrics.PendingEdits.Set(float64(len(pending) - len(result.Applied) - len(result.Conflicted)))
		}
	}()

	for i, edit := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		log := deps.logger().EditLogger(edit.ShortID(), edit.ActionType)
		start := time.Now()

		action, err := edits.Decode(edit.Action)
		if err != nil {
			return result, fmt.Errorf("decode edit %s: %w", edit.ShortID(), err)
		}

		changes, err := action.CreateUpdates(actionCtx, deps.Store, deps.Store)
		if err != nil {
			if !edits.IsConflict(err) {
				return result, fmt.Errorf("apply edit %s: %w", edit.ShortID(), err)
			}
			kind, _ := edits.ConflictKindOf(err)

			edit.State = models.EditConflicted
			edit.Conflict = err.Error()
			if err := deps.Store.UpdateEdit(edit); err != nil {
				return result, fmt.Errorf("update edit %s: %w", edit.ShortID(), err)
			}

			log.LogConflict(string(kind), err)
			if deps.Metrics != nil {
				deps.Metrics.RecordEdit(edit.ActionType, string(history.OutcomeConflicted), time.Since(start))
				deps.Metrics.RecordConflict(string(kind))
			}
			if err := record(ctx, deps, edit, history.OutcomeConflicted, edit.Conflict, time.Since(start)); err != nil {
				return result, err
			}
			result.Conflicted = append(result.Conflicted, edit)
			continue
		}

		outcome := history.OutcomeApplied
		if changes.IsEmpty() {
			outcome = history.OutcomeNoop
			result.Noop++
		}

		var original *models.ElementEdit
		if edit.RevertOf != "" {
			if original, err = deps.Store.GetEdit(edit.RevertOf); err != nil {
				return result, fmt.Errorf("get reverted edit %s: %w", edit.RevertOf, err)
			}
		}

		appliedAt := time.Now().UTC()
		// the map data, this edit, the edit it reverts and the remapped
		// queue are written in one transaction, so an edit is never applied twice
		_, err = deps.Store.CommitEdits(ctx, changes, func(updated map[models.ElementKey]int64) ([]*models.ElementEdit, error) {
			var remapped []*models.ElementEdit
			if len(updated) > 0 {
				// later edits and the undo of this one must refer to the new ids
				action = action.IDsUpdatesApplied(updated)
				var err error
				if remapped, err = remapPending(pending[i+1:], updated); err != nil {
					return nil, err
				}
			}

			data, err := edits.Encode(action)
			if err != nil {
				return nil, fmt.Errorf("encode edit %s: %w", edit.ShortID(), err)
			}
			edit.Action = data
			edit.ElementKey = primaryKey(action)
			edit.State = models.EditApplied
			edit.AppliedAt = &appliedAt

			writes := append([]*models.ElementEdit{edit}, remapped...)
			if original != nil {
				original.State = models.EditReverted
				writes = append(writes, original)
			}
			return writes, nil
		})
		if err != nil {
			return result, fmt.Errorf("commit edit %s: %w", edit.ShortID(), err)
		}

		duration := time.Since(start)
		log.LogApplied(duration, changes.TotalChanges())
		if deps.Metrics != nil {
			deps.Metrics.RecordEdit(edit.ActionType, string(outcome), duration)
		}
		if original != nil {
			if err := record(ctx, deps, original, history.OutcomeUndone, "undone by "+edit.ShortID(), 0); err != nil {
				return result, err
			}
		}
		if err := record(ctx, deps, edit, outcome, "", duration); err != nil {
			return result, err
		}
		result.Applied = append(result.Applied, edit)
	}

	return result, nil
}

// remapPending replaces provisional ids in queued edits and returns the
// edits that changed.
func remapPending(queued []*models.ElementEdit, updated map[models.ElementKey]int64) ([]*models.ElementEdit, error) {
	var remapped []*models.ElementEdit
	for _, edit := range queued {
		action, err := edits.Decode(edit.Action)
		if err != nil {
			return nil, fmt.Errorf("decode edit %s: %w", edit.ShortID(), err)
		}
		action = action.IDsUpdatesApplied(updated)
		data, err := edits.Encode(action)
		if err != nil {
			return nil, fmt.Errorf("encode edit %s: %w", edit.ShortID(), err)
		}
		edit.Action = data
		edit.ElementKey = primaryKey(action)
		remapped = append(remapped, edit)
	}
	return remapped, nil
}

// UndoEdit queues the inverse of an applied edit. The edit is marked
// reverted once the inverse is applied; an inverse that conflicts leaves
// it applied.
func UndoEdit(ctx context.Context, deps Deps, id string) (*models.ElementEdit, error) {
	edit, err := deps.Store.FindEdit(id)
	if err != nil {
		return nil, err
	}
	if edit == nil {
		return nil, fmt.Errorf("edit not found: %s", id)
	}
	if edit.State != models.EditApplied {
		return nil, fmt.Errorf("edit %s is %s, only applied edits can be undone", edit.ShortID(), edit.State)
	}

	pending, err := deps.Store.ListEdits(models.EditPending)
	if err != nil {
		return nil, fmt.Errorf("list pending edits: %w", err)
	}
	for _, p := range pending {
		if p.RevertOf == edit.ID {
			return nil, fmt.Errorf("edit %s is already being undone by %s", edit.ShortID(), p.ShortID())
		}
	}

	action, err := edits.Decode(edit.Action)
	if err != nil {
		return nil, fmt.Errorf("decode edit %s: %w", edit.ShortID(), err)
	}
	inverse, err := edits.Revert(action, deps.Store)
	if err != nil {
		return nil, fmt.Errorf("undo edit %s: %w", edit.ShortID(), err)
	}

	undo, err := addEdit(deps.Store, inverse, edit.ID)
	if err != nil {
		return nil, err
	}
	deps.logger().Debug().Str("edit", edit.ShortID()).Str("undo", undo.ShortID()).Msg("queued undo")
	return undo, nil
}

func record(ctx context.Context, deps Deps, edit *models.ElementEdit, outcome history.Outcome, detail string, duration time.Duration) error {
	if deps.History == nil {
		return nil
	}
	err := deps.History.Record(ctx, &history.Entry{
		EditID:     edit.ID,
		ActionType: edit.ActionType,
		ElementKey: edit.ElementKey.String(),
		Outcome:    outcome,
		Detail:     detail,
		Duration:   duration,
	})
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}
