package storage

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/xaenox/note-copy/internal/models"
)

// refKey tags a JSON object as an entity reference.
const refKey = "$ref"

type encodedRef struct {
	LogicalName string `json:"logical_name"`
	ID          string `json:"id"`
}

func encodeAttributes(attrs map[string]any) ([]byte, error) {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		switch ref := v.(type) {
		case models.EntityReference:
			out[k] = map[string]encodedRef{refKey: {ref.LogicalName, ref.ID.String()}}
		case *models.EntityReference:
			if ref == nil {
				out[k] = nil
				continue
			}
			out[k] = map[string]encodedRef{refKey: {ref.LogicalName, ref.ID.String()}}
		case uuid.UUID:
			out[k] = ref.String()
		default:
			out[k] = v
		}
	}
	return json.Marshal(out)
}

func decodeAttributes(raw []byte) (map[string]any, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	attrs := make(map[string]any, len(fields))
	for k, field := range fields {
		var tagged map[string]encodedRef
		if err := json.Unmarshal(field, &tagged); err == nil {
			if ref, ok := tagged[refKey]; ok && len(tagged) == 1 {
				id, err := uuid.Parse(ref.ID)
				if err != nil {
					return nil, fmt.Errorf("attribute %q: %w", k, err)
				}
				attrs[k] = models.EntityReference{LogicalName: ref.LogicalName, ID: id}
				continue
			}
		}

		var v any
		if err := json.Unmarshal(field, &v); err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		attrs[k] = v
	}
	return attrs, nil
}
