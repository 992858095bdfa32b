package domain

import (
	"strings"
	"time"
)

// MediaKind: media classification of an archived message.
type MediaKind string

// MediaText is the media kind constant list.
const (
	MediaText      MediaKind = "text"
	MediaPhoto     MediaKind = "photo"
	MediaVoice     MediaKind = "voice"
	MediaVideoNote MediaKind = "video_note"
	MediaVideoFile MediaKind = "video_file"
	MediaSticker   MediaKind = "sticker"
	MediaOther     MediaKind = "other"
)

// ParseMediaKind: maps a raw store value onto a known media kind.
// Unknown or empty values degrade to MediaOther, never fail.
func ParseMediaKind(raw string) MediaKind {
	switch MediaKind(strings.ToLower(strings.TrimSpace(raw))) {
	case MediaText, MediaPhoto, MediaVoice, MediaVideoNote, MediaVideoFile, MediaSticker:
		return MediaKind(strings.ToLower(strings.TrimSpace(raw)))
	default:
		return MediaOther
	}
}

// MessageRecord: immutable archived message fact plus derived per-record metrics.
// Derived fields are recomputed during snapshot enrichment, never user-edited.
type MessageRecord struct {
	MessageID      int64
	UserID         int64
	Username       string
	Date           time.Time
	Text           string
	MediaKind      MediaKind
	Duration       int // seconds; meaningful only for voice / video_note
	ReactionCount  int
	IsForwarded    bool
	ReplyToMsgID   *int64
	TextLen        int
	WordCount      int
	HasQuestion    bool
	HasCaps        bool
	HasLaugh       bool
	SentimentScore int

	// Derived at enrichment time.
	ToxicRootCount int
	VoiceDuration  int
	VideoDuration  int
}

// MentionRecord: immutable mention fact. TargetName is free text and is not
// guaranteed to resolve to a known participant.
type MentionRecord struct {
	SourceUsername string
	TargetName     string
	Date           time.Time
}
