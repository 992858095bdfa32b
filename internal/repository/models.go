package repository

import (
	"time"

	"github.com/kapu/vibecheck-analytics-go/internal/domain"
)

// Message: archived message row. Mirrors the collector's schema; derived
// NLP columns are recomputed during snapshot enrichment and kept here only
// because the collector writes them.
type Message struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	MessageID      int64     `gorm:"column:message_id;uniqueIndex"`
	UserID         int64     `gorm:"column:user_id;index"`
	Username       string    `gorm:"column:username;not null;default:''"`
	Date           time.Time `gorm:"column:date;index"`
	Text           *string   `gorm:"column:text"`
	MediaType      string    `gorm:"column:media_type;not null;default:'text'"`
	Duration       int       `gorm:"column:duration;not null;default:0"`
	ReactionCount  int       `gorm:"column:reaction_count;not null;default:0"`
	ReplyToMsgID   *int64    `gorm:"column:reply_to_msg_id"`
	IsForwarded    bool      `gorm:"column:is_forwarded;not null;default:false"`
	TextLen        int       `gorm:"column:text_len;not null;default:0"`
	WordCount      int       `gorm:"column:word_count;not null;default:0"`
	HasQuestion    bool      `gorm:"column:has_question;not null;default:false"`
	HasCaps        bool      `gorm:"column:has_caps;not null;default:false"`
	HasLaugh       bool      `gorm:"column:has_laugh;not null;default:false"`
	SentimentScore int       `gorm:"column:sentiment_score;not null;default:0"`
}

func (Message) TableName() string { return "messages" }

// Record converts the row into the immutable domain fact.
func (m Message) Record() domain.MessageRecord {
	text := ""
	if m.Text != nil {
		text = *m.Text
	}
	return domain.MessageRecord{
		MessageID:      m.MessageID,
		UserID:         m.UserID,
		Username:       m.Username,
		Date:           m.Date,
		Text:           text,
		MediaKind:      domain.ParseMediaKind(m.MediaType),
		Duration:       m.Duration,
		ReactionCount:  m.ReactionCount,
		IsForwarded:    m.IsForwarded,
		ReplyToMsgID:   m.ReplyToMsgID,
		TextLen:        m.TextLen,
		WordCount:      m.WordCount,
		HasQuestion:    m.HasQuestion,
		HasCaps:        m.HasCaps,
		HasLaugh:       m.HasLaugh,
		SentimentScore: m.SentimentScore,
	}
}

// Mention: archived mention row.
type Mention struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	SourceUsername string    `gorm:"column:source_username;not null;default:''"`
	TargetName     string    `gorm:"column:target_name;not null;default:''"`
	Date           time.Time `gorm:"column:date;index"`
}

func (Mention) TableName() string { return "mentions" }

// Record converts the row into the immutable domain fact.
func (m Mention) Record() domain.MentionRecord {
	return domain.MentionRecord{
		SourceUsername: m.SourceUsername,
		TargetName:     m.TargetName,
		Date:           m.Date,
	}
}
