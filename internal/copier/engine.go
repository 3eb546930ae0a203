// Package copier decides whether a note belongs to the record a URL points
// at and copies it there when it does not.
package copier

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xaenox/note-copy/internal/locator"
	"github.com/xaenox/note-copy/internal/models"
	"go.uber.org/zap"
)

// State is a step of one copy invocation.
type State string

const (
	StateStart    State = "start"
	StateLocated  State = "located"
	StateResolved State = "resolved"
	StateFetched  State = "fetched"
	StateDecided  State = "decided"
	StateCopied   State = "copied"
	StateSkipped  State = "skipped"
	StateFailed   State = "failed"
)

// TargetResolver maps an entity type code to a logical name.
type TargetResolver interface {
	Resolve(ctx context.Context, typeCode int) (string, error)
}

// NoteStore fetches source notes and writes copies.
type NoteStore interface {
	Fetch(ctx context.Context, id uuid.UUID) (*models.Note, error)
	Create(ctx context.Context, parent models.EntityReference, source *models.Note, copyAttachment bool) (uuid.UUID, error)
}

type Input struct {
	NoteToCopy     models.EntityReference
	RecordURL      string
	CopyAttachment bool
}

// ResolvedTarget is the record the URL points at.
type ResolvedTarget = models.EntityReference

type Engine struct {
	resolver TargetResolver
	notes    NoteStore
	logger   *zap.Logger
}

func NewEngine(resolver TargetResolver, notes NoteStore, logger *zap.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		notes:    notes,
		logger:   logger,
	}
}

// invocation tracks one run of the state machine.
type invocation struct {
	state  State
	logger *zap.Logger
}

func (inv *invocation) advance(next State, fields ...zap.Field) {
	inv.logger.Debug("Copy step completed",
		append([]zap.Field{zap.String("from", string(inv.state)), zap.String("to", string(next))}, fields...)...)
	inv.state = next
}

func (inv *invocation) fail(err error) error {
	failed := &StepError{State: inv.state, Err: err}
	inv.logger.Error("Note copy failed",
		zap.String("state", string(inv.state)),
		zap.Error(err))
	inv.state = StateFailed
	return failed
}

// Execute runs locate, resolve, fetch, decide and copy in order. The first
// failing step aborts the run and is returned as a *StepError.
func (e *Engine) Execute(ctx context.Context, exec models.ExecutionContext, in Input) (Outcome, error) {
	inv := &invocation{
		state: StateStart,
		logger: e.logger.With(
			zap.String("correlation_id", exec.CorrelationID.String()),
			zap.String("user_id", exec.UserID.String()),
			zap.String("initiating_user_id", exec.InitiatingUserID.String()),
			zap.String("note_id", in.NoteToCopy.ID.String()),
		),
	}

	loc, err := locator.Parse(in.RecordURL)
	if err != nil {
		return Outcome{}, inv.fail(err)
	}
	inv.advance(StateLocated, zap.Int("type_code", loc.TypeCode), zap.String("record_id", loc.RecordID.String()))

	logicalName, err := e.resolver.Resolve(ctx, loc.TypeCode)
	if err != nil {
		return Outcome{}, inv.fail(err)
	}
	target := ResolvedTarget{LogicalName: logicalName, ID: loc.RecordID}
	inv.advance(StateResolved, zap.String("target", target.String()))

	if err := validateNoteReference(in.NoteToCopy); err != nil {
		return Outcome{}, inv.fail(err)
	}
	note, err := e.notes.Fetch(ctx, in.NoteToCopy.ID)
	if err != nil {
		return Outcome{}, inv.fail(err)
	}
	inv.advance(StateFetched, zap.Bool("has_parent", note.HasParent()), zap.Bool("has_attachment", note.HasAttachment()))

	same := sameParent(note, target)
	inv.advance(StateDecided, zap.Bool("same_parent", same))

	if same {
		inv.advance(StateSkipped)
		inv.logger.Info("Note already attached to target", zap.String("target", target.String()))
		return Outcome{Target: target}, nil
	}

	newID, err := e.notes.Create(ctx, target, note, in.CopyAttachment)
	if err != nil {
		return Outcome{}, inv.fail(err)
	}
	inv.advance(StateCopied, zap.String("new_note_id", newID.String()))
	inv.logger.Info("Note copied",
		zap.String("target", target.String()),
		zap.String("new_note_id", newID.String()),
		zap.Bool("copy_attachment", in.CopyAttachment))

	return Outcome{WasCopied: true, NewNoteID: newID, Target: target}, nil
}

// sameParent is an exact match on logical name and id. Orphaned notes never
// match.
func sameParent(note *models.Note, target ResolvedTarget) bool {
	if !note.HasParent() {
		return false
	}
	return note.Parent.Equal(target)
}

func validateNoteReference(ref models.EntityReference) error {
	if ref.LogicalName != models.NoteEntityName {
		return fmt.Errorf("%w: %q is not a note entity", models.ErrRecordNotFound, ref.LogicalName)
	}
	if ref.ID == uuid.Nil {
		return fmt.Errorf("%w: empty note id", models.ErrRecordNotFound)
	}
	return nil
}
