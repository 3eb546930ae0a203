package models

import (
	"github.com/google/uuid"
)

// NoteEntityName is the logical name of note records.
const NoteEntityName = "annotation"

// Note attribute names.
const (
	AttrSubject        = "subject"
	AttrNoteText       = "notetext"
	AttrObjectID       = "objectid"
	AttrObjectTypeCode = "objecttypecode"
	AttrIsDocument     = "isdocument"
	AttrFileName       = "filename"
	AttrMimeType       = "mimetype"
	AttrDocumentBody   = "documentbody"
	AttrFileSize       = "filesize"
)

// NoteColumns lists every attribute the note repository reads.
var NoteColumns = []string{
	AttrSubject,
	AttrNoteText,
	AttrObjectID,
	AttrObjectTypeCode,
	AttrIsDocument,
	AttrFileName,
	AttrMimeType,
	AttrDocumentBody,
	AttrFileSize,
}

// Attachment is the binary payload of a note. Body holds base64 text.
type Attachment struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Body     string `json:"body"`
	FileSize int    `json:"file_size"`
}

type Note struct {
	ID         uuid.UUID        `json:"id"`
	Parent     *EntityReference `json:"parent,omitempty"`
	Subject    string           `json:"subject"`
	Text       string           `json:"text"`
	Attachment *Attachment      `json:"attachment,omitempty"`
}

// HasParent reports whether the note is attached to a record.
func (n *Note) HasParent() bool {
	return n.Parent != nil && !n.Parent.IsZero()
}

func (n *Note) HasAttachment() bool {
	return n.Attachment != nil && n.Attachment.Body != ""
}
