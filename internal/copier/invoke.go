package copier

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/xaenox/note-copy/internal/locator"
	"github.com/xaenox/note-copy/internal/models"
)

// Workflow input names.
const (
	InputNoteToCopy     = "NoteToCopy"
	InputRecordURL      = "RecordUrl"
	InputCopyAttachment = "CopyAttachment"
)

var ErrInvalidInput = errors.New("invalid workflow input")

// Invoke runs the engine against named workflow inputs and returns the named
// outputs. It is the entry point a workflow host calls.
func Invoke(ctx context.Context, engine *Engine, exec models.ExecutionContext, inputs map[string]any) (map[string]any, error) {
	in, err := ParseInputs(inputs)
	if err != nil {
		return nil, err
	}

	outcome, err := engine.Execute(ctx, exec, in)
	if err != nil {
		return nil, err
	}
	return outcome.Outputs(), nil
}

// ParseInputs converts named workflow inputs into an Input. NoteToCopy may be
// a reference or a bare note id; CopyAttachment defaults to false.
func ParseInputs(inputs map[string]any) (Input, error) {
	var in Input

	note, err := noteReference(inputs[InputNoteToCopy])
	if err != nil {
		return Input{}, err
	}
	in.NoteToCopy = note

	switch v := inputs[InputRecordURL].(type) {
	case string:
		in.RecordURL = v
	case nil:
		return Input{}, fmt.Errorf("%w: %s is required", ErrInvalidInput, InputRecordURL)
	default:
		return Input{}, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidInput, InputRecordURL, v)
	}

	switch v := inputs[InputCopyAttachment].(type) {
	case bool:
		in.CopyAttachment = v
	case nil:
	default:
		return Input{}, fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalidInput, InputCopyAttachment, v)
	}

	return in, nil
}

func noteReference(v any) (models.EntityReference, error) {
	switch ref := v.(type) {
	case models.EntityReference:
		return ref, nil
	case *models.EntityReference:
		if ref != nil {
			return *ref, nil
		}
	case uuid.UUID:
		return models.EntityReference{LogicalName: models.NoteEntityName, ID: ref}, nil
	case string:
		id, err := locator.ParseID(ref)
		if err != nil {
			return models.EntityReference{}, fmt.Errorf("%w: %s: %v", ErrInvalidInput, InputNoteToCopy, err)
		}
		return models.EntityReference{LogicalName: models.NoteEntityName, ID: id}, nil
	case nil:
	default:
		return models.EntityReference{}, fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidInput, InputNoteToCopy, v)
	}
	return models.EntityReference{}, fmt.Errorf("%w: %s is required", ErrInvalidInput, InputNoteToCopy)
}
