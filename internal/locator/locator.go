// Package locator parses record-viewer URLs into an entity type code and a
// record id.
package locator

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xaenox/note-copy/internal/models"
)

const (
	TypeCodeParam = "etc"
	IDParam       = "id"
)

// Locator is the parsed form of a record URL.
type Locator struct {
	TypeCode int
	RecordID uuid.UUID
}

func (l Locator) String() string {
	return fmt.Sprintf("etc=%d id=%s", l.TypeCode, l.RecordID)
}

// Parse extracts the etc and id query parameters from rawURL. Other
// parameters are ignored.
func Parse(rawURL string) (Locator, error) {
	query, err := rawQuery(rawURL)
	if err != nil {
		return Locator{}, err
	}

	// ParseQuery keeps every pair it could decode; a bad pair elsewhere in the
	// query does not affect etc or id.
	values, _ := url.ParseQuery(query)

	etc := strings.TrimSpace(values.Get(TypeCodeParam))
	if etc == "" {
		return Locator{}, fmt.Errorf("%w: missing %q parameter", models.ErrMalformedLocator, TypeCodeParam)
	}
	typeCode, err := strconv.Atoi(etc)
	if err != nil || typeCode < 0 {
		return Locator{}, fmt.Errorf("%w: %q is not an entity type code", models.ErrMalformedLocator, etc)
	}

	rawID := strings.TrimSpace(values.Get(IDParam))
	if rawID == "" {
		return Locator{}, fmt.Errorf("%w: missing %q parameter", models.ErrMalformedLocator, IDParam)
	}
	id, err := ParseID(rawID)
	if err != nil {
		return Locator{}, err
	}

	return Locator{TypeCode: typeCode, RecordID: id}, nil
}

// ParseID parses a GUID with optional surrounding braces.
func ParseID(raw string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		trimmed = trimmed[1 : len(trimmed)-1]
	}
	// Hyphenated or bare 32-digit hex only; uuid.Parse would also take urn forms.
	if len(trimmed) != 36 && len(trimmed) != 32 {
		return uuid.Nil, fmt.Errorf("%w: %q is not a record id", models.ErrMalformedLocator, raw)
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a record id", models.ErrMalformedLocator, raw)
	}
	return id, nil
}

// Format builds a record URL on base that Parse maps back to typeCode and id.
func Format(base string, typeCode int, id uuid.UUID) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set(TypeCodeParam, strconv.Itoa(typeCode))
	q.Set(IDParam, id.String())
	q.Set("pagetype", "entityrecord")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func rawQuery(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty url", models.ErrMalformedLocator)
	}

	u, err := url.Parse(trimmed)
	if err == nil && u.RawQuery != "" {
		return u.RawQuery, nil
	}

	// Scheme-less forms such as "main.aspx?etc=1&id=..." still carry a query.
	if i := strings.Index(trimmed, "?"); i >= 0 && i < len(trimmed)-1 {
		query := trimmed[i+1:]
		if j := strings.Index(query, "#"); j >= 0 {
			query = query[:j]
		}
		return query, nil
	}

	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrMalformedLocator, err)
	}
	return "", fmt.Errorf("%w: no query string", models.ErrMalformedLocator)
}
