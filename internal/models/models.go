package models

import (
	"fmt"

	"github.com/google/uuid"
)

// EntityReference points at a single record by logical name and id.
type EntityReference struct {
	LogicalName string    `json:"logical_name"`
	ID          uuid.UUID `json:"id"`
}

// IsZero reports whether the reference points at nothing.
func (r EntityReference) IsZero() bool {
	return r.LogicalName == "" && r.ID == uuid.Nil
}

// Equal compares both the logical name and the id exactly.
func (r EntityReference) Equal(other EntityReference) bool {
	return r.LogicalName == other.LogicalName && r.ID == other.ID
}

func (r EntityReference) String() string {
	return fmt.Sprintf("%s/%s", r.LogicalName, r.ID)
}

// Entity is a generic record held by the record store.
type Entity struct {
	LogicalName string         `json:"logical_name"`
	ID          uuid.UUID      `json:"id"`
	Attributes  map[string]any `json:"attributes"`
}

func NewEntity(logicalName string) *Entity {
	return &Entity{
		LogicalName: logicalName,
		Attributes:  make(map[string]any),
	}
}

// Reference returns a reference to the entity itself.
func (e *Entity) Reference() EntityReference {
	return EntityReference{LogicalName: e.LogicalName, ID: e.ID}
}

func (e *Entity) Set(name string, value any) {
	if e.Attributes == nil {
		e.Attributes = make(map[string]any)
	}
	e.Attributes[name] = value
}

// GetString returns the named attribute when it holds a string.
func (e *Entity) GetString(name string) string {
	s, _ := e.Attributes[name].(string)
	return s
}

func (e *Entity) GetBool(name string) bool {
	b, _ := e.Attributes[name].(bool)
	return b
}

// GetInt accepts the numeric types a backend may hand back for an integer column.
func (e *Entity) GetInt(name string) int {
	switch v := e.Attributes[name].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// GetRef returns the named attribute when it holds a reference.
func (e *Entity) GetRef(name string) (EntityReference, bool) {
	switch v := e.Attributes[name].(type) {
	case EntityReference:
		return v, true
	case *EntityReference:
		if v != nil {
			return *v, true
		}
	}
	return EntityReference{}, false
}

// Clone copies the entity and its attribute bag.
func (e *Entity) Clone() *Entity {
	out := &Entity{
		LogicalName: e.LogicalName,
		ID:          e.ID,
		Attributes:  make(map[string]any, len(e.Attributes)),
	}
	for k, v := range e.Attributes {
		out.Attributes[k] = v
	}
	return out
}

// ExecutionContext carries the caller identity of one invocation. It is used
// for diagnostics only.
type ExecutionContext struct {
	UserID           uuid.UUID `json:"user_id"`
	InitiatingUserID uuid.UUID `json:"initiating_user_id"`
	CorrelationID    uuid.UUID `json:"correlation_id"`
}

// NewExecutionContext returns a context for a caller acting on their own behalf
// with a fresh correlation id.
func NewExecutionContext(userID uuid.UUID) ExecutionContext {
	return ExecutionContext{
		UserID:           userID,
		InitiatingUserID: userID,
		CorrelationID:    uuid.New(),
	}
}
