package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/metrics"
	"git.entraide.dev/community/pkg/internal/models"
)

const conversationPartnerExpr = "CASE WHEN messages.sender_id = @user THEN messages.recipient_id ELSE messages.sender_id END"

func SendMessage(sender, recipient models.User, content string) (models.Message, error) {
	if sender.ID == recipient.ID {
		return models.Message{}, ErrMessageSelf
	}
	if recipient.IsBanned() || recipient.IsAnonymized() {
		return models.Message{}, ErrRecipientInactive
	}

	message := models.Message{
		Content:     strings.TrimSpace(content),
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
	}
	message.CreatedAt = Clock.Now()

	if err := database.C.Create(&message).Error; err != nil {
		return message, err
	}
	message.Sender = sender
	message.Recipient = recipient

	metrics.MessagesSent.Inc()
	NotifyUser(
		recipient,
		"New message from "+sender.DisplayName(),
		TruncateContent(message.Content, TruncateContentThreshold),
	)

	return message, nil
}

// GetConversationClearedAt returns when the user last deleted the conversation, nil if never.
func GetConversationClearedAt(user, partner uint) (*time.Time, error) {
	var deletion models.ConversationDeletion
	if err := database.C.
		Where("user_id = ? AND partner_id = ?", user, partner).
		First(&deletion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deletion.ClearedAt, nil
}

// FilterConversationMessage keeps the messages between both members still visible to user.
func FilterConversationMessage(tx *gorm.DB, user, partner uint) (*gorm.DB, error) {
	clearedAt, err := GetConversationClearedAt(user, partner)
	if err != nil {
		return nil, fmt.Errorf("unable to load conversation deletion: %v", err)
	}

	tx = tx.Where(
		"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		user, partner, partner, user,
	)
	if clearedAt != nil {
		tx = tx.Where("created_at > ?", *clearedAt)
	}
	return tx, nil
}

// ListConversationMessage returns the visible messages oldest first and marks the received ones as read.
func ListConversationMessage(user models.User, partner uint, take, offset int) (int64, []models.Message, error) {
	if take > 100 || take <= 0 {
		take = 100
	}

	tx, err := FilterConversationMessage(database.C.Model(&models.Message{}), user.ID, partner)
	if err != nil {
		return 0, nil, err
	}
	tx = tx.Session(&gorm.Session{})

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, nil, err
	}

	var messages []models.Message
	if err := tx.
		Preload("Sender").
		Preload("Recipient").
		Limit(take).Offset(offset).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return count, messages, err
	}

	unread := lo.FilterMap(messages, func(item models.Message, _ int) (uint, bool) {
		return item.ID, item.RecipientID == user.ID && item.ReadAt == nil
	})
	if len(unread) > 0 {
		now := Clock.Now()
		if err := database.C.Model(&models.Message{}).
			Where("id IN ?", unread).
			Update("read_at", now).Error; err != nil {
			return count, messages, err
		}
		for i := range messages {
			if lo.Contains(unread, messages[i].ID) {
				messages[i].ReadAt = &now
			}
		}
	}

	return count, messages, nil
}

type conversationEntry struct {
	PartnerID     uint
	LastMessageID uint
	UnreadCount   int64
}

// ListConversation returns one entry per partner with the last visible message, newest first.
func ListConversation(user models.User) ([]models.Conversation, error) {
	var entries []conversationEntry
	if err := database.C.Raw(
		"SELECT visible.partner_id, "+
			"MAX(visible.id) AS last_message_id, "+
			"COUNT(CASE WHEN visible.recipient_id = @user AND visible.read_at IS NULL THEN 1 END) AS unread_count "+
			"FROM (SELECT messages.*, "+conversationPartnerExpr+" AS partner_id FROM messages "+
			"WHERE (messages.sender_id = @user OR messages.recipient_id = @user) AND messages.deleted_at IS NULL) AS visible "+
			"LEFT JOIN conversation_deletions ON conversation_deletions.user_id = @user "+
			"AND conversation_deletions.partner_id = visible.partner_id "+
			"WHERE conversation_deletions.cleared_at IS NULL OR visible.created_at > conversation_deletions.cleared_at "+
			"GROUP BY visible.partner_id",
		map[string]any{"user": user.ID},
	).Scan(&entries).Error; err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return []models.Conversation{}, nil
	}

	var messages []models.Message
	if err := database.C.Where("id IN ?", lo.Map(entries, func(item conversationEntry, _ int) uint {
		return item.LastMessageID
	})).Find(&messages).Error; err != nil {
		return nil, err
	}
	messageMapping := lo.SliceToMap(messages, func(item models.Message) (uint, models.Message) {
		return item.ID, item
	})

	var partners []models.User
	if err := database.C.Where("id IN ?", lo.Map(entries, func(item conversationEntry, _ int) uint {
		return item.PartnerID
	})).Find(&partners).Error; err != nil {
		return nil, err
	}
	publicPartners, err := CompleteUserRating(partners...)
	if err != nil {
		return nil, err
	}
	partnerMapping := lo.SliceToMap(publicPartners, func(item models.PublicUser) (uint, models.PublicUser) {
		return item.ID, item
	})

	conversations := lo.Map(entries, func(item conversationEntry, _ int) models.Conversation {
		return models.Conversation{
			Partner:     partnerMapping[item.PartnerID],
			LastMessage: messageMapping[item.LastMessageID],
			UnreadCount: item.UnreadCount,
		}
	})
	slices.SortFunc(conversations, func(a, b models.Conversation) int {
		if c := b.LastMessage.CreatedAt.Compare(a.LastMessage.CreatedAt); c != 0 {
			return c
		}
		return int(b.LastMessage.ID) - int(a.LastMessage.ID)
	})

	return conversations, nil
}

// DeleteConversation hides every message exchanged so far for user only, the partner keeps them.
func DeleteConversation(user models.User, partner uint) error {
	now := Clock.Now()
	deletion := models.ConversationDeletion{
		UserID:    user.ID,
		PartnerID: partner,
		ClearedAt: now,
		UpdatedAt: now,
	}

	return database.C.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "partner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"cleared_at", "updated_at"}),
	}).Create(&deletion).Error
}

func CountUnreadMessage(user models.User) (int64, error) {
	var count int64
	err := database.C.Model(&models.Message{}).
		Joins("LEFT JOIN conversation_deletions ON conversation_deletions.user_id = messages.recipient_id AND conversation_deletions.partner_id = messages.sender_id").
		Where("messages.recipient_id = ? AND messages.read_at IS NULL", user.ID).
		Where("conversation_deletions.cleared_at IS NULL OR messages.created_at > conversation_deletions.cleared_at").
		Count(&count).Error
	return count, err
}

// PurgeHiddenMessages hard deletes the messages both participants have deleted.
func PurgeHiddenMessages() (int64, error) {
	tx := database.C.Unscoped().
		Where("EXISTS (SELECT 1 FROM conversation_deletions WHERE conversation_deletions.user_id = messages.sender_id " +
			"AND conversation_deletions.partner_id = messages.recipient_id AND conversation_deletions.cleared_at >= messages.created_at)").
		Where("EXISTS (SELECT 1 FROM conversation_deletions WHERE conversation_deletions.user_id = messages.recipient_id " +
			"AND conversation_deletions.partner_id = messages.sender_id AND conversation_deletions.cleared_at >= messages.created_at)").
		Delete(&models.Message{})
	return tx.RowsAffected, tx.Error
}
