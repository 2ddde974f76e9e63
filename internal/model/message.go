package model

// Channel identifies which chat a message belongs to.
type Channel string

const (
	ChannelSupport Channel = "support"
	ChannelPublic  Channel = "public"
)

// Author describes the human behind a message, carried inside the
// [USER:{...}] marker of a raw record.
type Author struct {
	UserID   string  `json:"userId"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

// FileAttachment is a file carried in place of plain text, carried inside
// the [FILE:name] marker.
type FileAttachment struct {
	Filename string `json:"filename"`
	DataURL  string `json:"data_url"`
}

// ClassifiedMessage is derived from a raw record on every classification
// pass. It is never stored; Raw and RawIndex tie it back to the log.
type ClassifiedMessage struct {
	Channel  Channel         `json:"channel"`
	Author   *Author         `json:"author,omitempty"`
	Body     string          `json:"body"`
	File     *FileAttachment `json:"file,omitempty"`
	Raw      string          `json:"-"`
	RawIndex int             `json:"-"`
}

// Command is a control record detected in the log, kept with its position
// for cursor accounting.
type Command struct {
	Text  string
	Index int
}

// SendRequest is the payload for posting a text message.
type SendRequest struct {
	Msg     string `json:"msg"`
	Channel string `json:"channel"`
}

// SendFileRequest is the payload for posting a file message.
type SendFileRequest struct {
	Filename string `json:"filename"`
	DataURL  string `json:"data_url"`
	Channel  string `json:"channel"`
}

// DeleteRequest identifies a message by its display position within a channel.
type DeleteRequest struct {
	Index    int    `json:"index"`
	ChatType string `json:"chatType"`
}
