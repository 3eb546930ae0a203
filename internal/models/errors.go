package models

import "errors"

var (
	ErrMalformedLocator    = errors.New("malformed record locator")
	ErrUnknownEntityType   = errors.New("unknown entity type")
	ErrAmbiguousEntityType = errors.New("ambiguous entity type")
	ErrRecordNotFound      = errors.New("record not found")
	ErrCreateFailed        = errors.New("create failed")
)
