package models

import "time"

type Message struct {
	BaseModel

	Content string     `json:"content"`
	ReadAt  *time.Time `json:"read_at"`

	SenderID    uint `json:"sender_id" gorm:"index"`
	Sender      User `json:"sender"`
	RecipientID uint `json:"recipient_id" gorm:"index"`
	Recipient   User `json:"recipient"`
}

// ConversationDeletion hides every message exchanged with Partner up to ClearedAt, for User only.
type ConversationDeletion struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_conversation_deletion"`
	PartnerID uint      `json:"partner_id" gorm:"uniqueIndex:idx_conversation_deletion"`
	ClearedAt time.Time `json:"cleared_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Conversation struct {
	Partner     PublicUser `json:"partner"`
	LastMessage Message    `json:"last_message"`
	UnreadCount int64      `json:"unread_count"`
}
