package chat

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"vliz-backend/internal/logstore"
	"vliz-backend/internal/model"
)

var (
	// ErrSizeLimit rejects file payloads over MaxFileBytes before any
	// network call is made.
	ErrSizeLimit = errors.New("file exceeds the 10MB size limit")
	// ErrRecordNotFound means the display index named no message, i.e.
	// the caller's view was stale.
	ErrRecordNotFound = errors.New("no message at that position")
	// ErrDesync means the located message text no longer appears in the
	// raw log: display and storage have drifted apart.
	ErrDesync = errors.New("message is missing from the shared log")
)

const (
	// MaxMessageChars caps outgoing plain text. Enforced at the input
	// boundary (HTTP handler), not by the pipeline itself.
	MaxMessageChars = 64
	// MaxFileBytes caps the decoded size of a file payload.
	MaxFileBytes = 10 * 1024 * 1024
)

// Pipeline encodes outgoing messages and appends them to the shared log,
// registering each successful send with the authorship oracle.
type Pipeline struct {
	store  logstore.Store
	oracle AuthorshipOracle
}

func NewPipeline(store logstore.Store, oracle AuthorshipOracle) *Pipeline {
	return &Pipeline{store: store, oracle: oracle}
}

// SendPlain appends a support-channel text message. The author is optional;
// anonymous sends carry no USER marker at all.
func (p *Pipeline) SendPlain(ctx context.Context, text string, author *model.Author) error {
	return p.sendText(ctx, text, author, false)
}

// SendPublic appends a public-channel text message.
func (p *Pipeline) SendPublic(ctx context.Context, text string, author *model.Author) error {
	return p.sendText(ctx, text, author, true)
}

func (p *Pipeline) sendText(ctx context.Context, text string, author *model.Author, public bool) error {
	record := Tag{Public: public, Author: author, Body: text}.Encode()
	if err := p.store.Append(ctx, record); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if err := p.oracle.RecordSent(text); err != nil {
		log.Printf("[chat] record echo failed: %v", err)
	}
	return nil
}

// SendFile appends a file message. dataURL is the base64 data URL produced
// by the uploader; its decoded size is checked against MaxFileBytes before
// anything touches the store.
func (p *Pipeline) SendFile(ctx context.Context, filename, dataURL string, author *model.Author, public bool) error {
	if decodedSize(dataURL) > MaxFileBytes {
		return ErrSizeLimit
	}

	record := Tag{
		Public: public,
		Author: author,
		File:   &model.FileAttachment{Filename: filename, DataURL: dataURL},
	}.Encode()
	if err := p.store.Append(ctx, record); err != nil {
		return fmt.Errorf("append file: %w", err)
	}
	if err := p.oracle.RecordSent(fileEchoBody(filename)); err != nil {
		log.Printf("[chat] record echo failed: %v", err)
	}
	return nil
}

// Delete removes the message at a display position within a channel. The
// full log is re-fetched and re-classified to locate the exact raw text at
// that position, then the first raw record equal to that text is removed
// by absolute index.
//
// First-match semantics are deliberate: when two raw records are
// byte-identical the earlier one goes, matching what every viewer of the
// log would compute. Index-based removal is racy against concurrent
// appends and deletes from other clients; the last writer wins.
func (p *Pipeline) Delete(ctx context.Context, channel model.Channel, displayIndex int) error {
	records, err := p.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch log: %w", err)
	}

	msgs := Classify(records).Channel(channel)
	if displayIndex < 0 || displayIndex >= len(msgs) {
		return ErrRecordNotFound
	}
	target := msgs[displayIndex]

	rawIndex := -1
	for i, r := range records {
		if r == target.Raw {
			rawIndex = i
			break
		}
	}
	if rawIndex == -1 {
		return ErrDesync
	}

	if err := p.store.RemoveAt(ctx, rawIndex); err != nil {
		if errors.Is(err, logstore.ErrIndexOutOfRange) {
			return ErrDesync
		}
		return fmt.Errorf("remove record: %w", err)
	}

	echoBody := target.Body
	if target.File != nil {
		echoBody = fileEchoBody(target.File.Filename)
	}
	if err := p.oracle.Forget(echoBody); err != nil {
		log.Printf("[chat] forget echo failed: %v", err)
	}
	return nil
}

func fileEchoBody(filename string) string {
	return "📎 " + filename
}

// decodedSize estimates the decoded byte count of a data URL payload. A
// value without the data-URL comma is treated as raw content and measured
// as-is.
func decodedSize(dataURL string) int {
	comma := strings.Index(dataURL, ",")
	if comma == -1 {
		return len(dataURL)
	}
	return base64.StdEncoding.DecodedLen(len(dataURL) - comma - 1)
}
