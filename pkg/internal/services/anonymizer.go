package services

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/metrics"
	"git.entraide.dev/community/pkg/internal/models"
)

const (
	AnonymizedFirstName   = "Utilisateur"
	AnonymizedLastName    = "anonyme"
	AnonymizedEmailDomain = "entraide.invalid"
)

// AnonymizeUser scrubs every personal data of the account in a single transaction.
// Contents the user authored stay online, attributed to the anonymous account.
func AnonymizeUser(user models.User) (models.User, error) {
	if user.IsAnonymized() {
		return user, ErrUserAnonymized
	}

	start := time.Now()
	now := Clock.Now()
	log.Debug().Uint("user", user.ID).Msg("Anonymizing user...")

	placeholder, err := gonanoid.New()
	if err != nil {
		return user, fmt.Errorf("unable to generate anonymous identifier: %v", err)
	}

	var cancelled []models.Event
	err = database.C.Transaction(func(tx *gorm.DB) error {
		if user.IsAdmin() {
			if count, err := CountAdmins(tx.Model(&models.User{})); err != nil {
				return err
			} else if count <= 1 {
				return ErrLastAdmin
			}
		}

		if err := tx.Model(&user).Updates(map[string]any{
			"email":               fmt.Sprintf("anonyme-%s@%s", placeholder, AnonymizedEmailDomain),
			"password":            "",
			"first_name":          AnonymizedFirstName,
			"last_name":           AnonymizedLastName,
			"bio":                 "",
			"city":                "",
			"avatar":              nil,
			"roles":               datatypes.JSONSlice[string]{},
			"email_notifications": false,
			"anonymized_at":       now,
		}).Error; err != nil {
			return fmt.Errorf("unable to scrub account: %v", err)
		}

		if err := tx.Model(&user).Association("Skills").Clear(); err != nil {
			return fmt.Errorf("unable to clear skills: %v", err)
		}

		if err := tx.Exec(
			"DELETE FROM event_attendees WHERE user_id = ? AND event_id IN (SELECT id FROM events WHERE starts_at > ?)",
			user.ID, now,
		).Error; err != nil {
			return fmt.Errorf("unable to leave upcoming events: %v", err)
		}

		if err := tx.
			Where("organizer_id = ? AND starts_at > ? AND cancelled_at IS NULL", user.ID, now).
			Find(&cancelled).Error; err != nil {
			return err
		}
		if len(cancelled) > 0 {
			if err := tx.Model(&models.Event{}).
				Where("id IN ?", lo.Map(cancelled, func(item models.Event, _ int) uint {
					return item.ID
				})).
				Update("cancelled_at", now).Error; err != nil {
				return fmt.Errorf("unable to cancel organized events: %v", err)
			}
		}

		if err := tx.
			Where("target_type = ? AND rated_user_id = ?", models.RatingTargetUser, user.ID).
			Delete(&models.Rating{}).Error; err != nil {
			return fmt.Errorf("unable to delete received ratings: %v", err)
		}

		return tx.Where("user_id = ?", user.ID).Delete(&models.ConversationDeletion{}).Error
	})
	if err != nil {
		log.Debug().Err(err).Uint("user", user.ID).Msg("Anonymization rolled back.")
		return user, err
	}

	if user.Avatar != nil {
		RemoveUpload(*user.Avatar)
	}
	invalidateRatingSummary(models.RatingTargetUser, user.ID)
	metrics.UserAnonymizations.Inc()

	for _, event := range cancelled {
		event.CancelledAt = &now
		attendees, err := ListEventAttendee(event)
		if err != nil {
			log.Error().Err(err).Uint("event", event.ID).Msg("An error occurred when loading attendees of a cancelled event...")
			continue
		}
		for _, attendee := range attendees {
			NotifyUser(attendee, "Event cancelled: "+event.Title, fmt.Sprintf("The event \"%s\" has been cancelled.", event.Title))
		}
	}

	log.Debug().Uint("user", user.ID).Dur("elapsed", time.Since(start)).Int("cancelled", len(cancelled)).Msg("Anonymized user.")

	return GetUser(user.ID)
}
