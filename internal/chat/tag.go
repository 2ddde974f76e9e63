// Package chat implements the message core: the marker wire format, the
// log classifier, the local-echo reconciler, the send pipeline and the
// polling sync engine.
package chat

import (
	"encoding/json"
	"strings"

	"vliz-backend/internal/model"
)

// Markers are fixed textual prefixes that encode channel, author and
// attachment metadata into an otherwise opaque log record. Composition
// order is fixed: PUBLIC wraps everything, then USER, then FILE/body.
const (
	markerPublic = "[PUBLIC]"
	markerUser   = "[USER:"
	markerFile   = "[FILE:"
)

// Control commands are exact-match sentinel records (after trimming
// whitespace). They toggle maintenance mode and are never rendered.
const (
	CommandMaintenanceOn  = "!mantenimiento on"
	CommandMaintenanceOff = "!mantenimiento off"
)

// AsCommand reports whether a raw record is a control command. Matching is
// exact on the trimmed record: a padded command still counts, a command
// with trailing text does not.
func AsCommand(record string) (string, bool) {
	switch trimmed := strings.TrimSpace(record); trimmed {
	case CommandMaintenanceOn, CommandMaintenanceOff:
		return trimmed, true
	default:
		return "", false
	}
}

// Tag is the structured form of one log record. Encoding a Tag is the only
// way the rest of the codebase builds raw records, so marker order cannot
// drift between call sites.
type Tag struct {
	Public bool
	Author *model.Author
	File   *model.FileAttachment
	Body   string
}

// Encode renders the tag as a raw record. USER carries a compact JSON
// author object; FILE carries the filename and the data payload in place
// of plain text; PUBLIC is applied last so it is the outermost prefix.
func (t Tag) Encode() string {
	var b strings.Builder

	if t.Public {
		b.WriteString(markerPublic)
	}
	if t.Author != nil {
		payload, err := json.Marshal(t.Author)
		if err == nil {
			b.WriteString(markerUser)
			b.Write(payload)
			b.WriteString("]")
		}
	}
	if t.File != nil {
		b.WriteString(markerFile)
		b.WriteString(t.File.Filename)
		b.WriteString("]")
		b.WriteString(t.File.DataURL)
		return b.String()
	}

	b.WriteString(t.Body)
	return b.String()
}

// Decode parses one raw record into a tag. It never fails: malformed USER
// JSON degrades to an unattributed message with the body starting right
// after the marker's closing bracket, and a FILE marker without a closing
// bracket is kept as plain text.
func Decode(record string) Tag {
	var t Tag

	rest := record
	if strings.HasPrefix(rest, markerPublic) {
		t.Public = true
		rest = strings.TrimSpace(rest[len(markerPublic):])
	}

	if strings.HasPrefix(rest, markerUser) {
		if close := strings.Index(rest, "]"); close != -1 {
			var author model.Author
			if err := json.Unmarshal([]byte(rest[len(markerUser):close]), &author); err == nil {
				t.Author = &author
			}
			rest = rest[close+1:]
		}
	}

	if strings.HasPrefix(rest, markerFile) {
		if close := strings.Index(rest, "]"); close != -1 {
			t.File = &model.FileAttachment{
				Filename: rest[len(markerFile):close],
				DataURL:  rest[close+1:],
			}
			return t
		}
	}

	t.Body = rest
	return t
}
