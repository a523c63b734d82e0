package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/metrics"
	"git.entraide.dev/community/pkg/internal/models"
)

type EventFilter struct {
	Probe       string
	Category    string
	OrganizerID uint
	AttendeeID  uint
	// Past lists finished events instead of upcoming ones.
	Past             bool
	IncludeCancelled bool
}

func FilterEvent(tx *gorm.DB, filter EventFilter) *gorm.DB {
	now := Clock.Now()
	if filter.Past {
		tx = tx.Where("ends_at <= ?", now)
	} else {
		tx = tx.Where("ends_at > ?", now)
	}
	if !filter.IncludeCancelled {
		tx = tx.Where("cancelled_at IS NULL")
	}
	if len(filter.Probe) > 0 {
		probe := "%" + strings.ToLower(filter.Probe) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(location) LIKE ?", probe, probe)
	}
	if len(filter.Category) > 0 {
		tx = tx.Where(
			"category_id IN (?)",
			database.C.Model(&models.Category{}).Select("id").Where("alias IN ?", strings.Split(filter.Category, ",")),
		)
	}
	if filter.OrganizerID > 0 {
		tx = tx.Where("organizer_id = ?", filter.OrganizerID)
	}
	if filter.AttendeeID > 0 {
		tx = tx.Where(
			"id IN (?)",
			database.C.Table("event_attendees").Select("event_id").Where("user_id = ?", filter.AttendeeID),
		)
	}
	return tx
}

func CountEvent(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Event{}).Count(&count).Error; err != nil {
		return count, err
	}
	return count, nil
}

func ListEvent(tx *gorm.DB, take int, offset int, order any) ([]models.Event, error) {
	if take > 100 || take <= 0 {
		take = 100
	}

	var items []models.Event
	if err := tx.
		Preload("Organizer").
		Preload("Category").
		Limit(take).Offset(offset).
		Order(order).
		Find(&items).Error; err != nil {
		return items, err
	}

	return CompleteEventMeta(items...)
}

func GetEvent(id uint) (models.Event, error) {
	var item models.Event
	if err := database.C.
		Preload("Organizer").
		Preload("Category").
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return item, err
	}

	items, err := CompleteEventMeta(item)
	if err != nil {
		return item, err
	}
	return items[0], nil
}

type eventAttendeeCount struct {
	EventID uint
	Count   int64
}

// CompleteEventMeta fills attendee counts, remaining seats and rating summaries in two queries.
func CompleteEventMeta(items ...models.Event) ([]models.Event, error) {
	if len(items) == 0 {
		return items, nil
	}

	idx := lo.Map(items, func(item models.Event, _ int) uint {
		return item.ID
	})

	var counts []eventAttendeeCount
	if err := database.C.Table("event_attendees").
		Select("event_id, COUNT(user_id) AS count").
		Where("event_id IN ?", idx).
		Group("event_id").
		Scan(&counts).Error; err != nil {
		return items, err
	}
	countMapping := lo.SliceToMap(counts, func(item eventAttendeeCount) (uint, int64) {
		return item.EventID, item.Count
	})

	ratings, err := ListRatingSummary(models.RatingTargetEvent, idx)
	if err != nil {
		return items, err
	}

	for i := range items {
		count := countMapping[items[i].ID]
		items[i].Metric = models.EventMetric{
			AttendeeCount:  count,
			RemainingSeats: max(int64(items[i].Capacity)-count, 0),
			Rating:         ratings[items[i].ID],
		}
	}

	return items, nil
}

func ListEventAttendee(event models.Event) ([]models.User, error) {
	var attendees []models.User
	err := database.C.Model(&event).Order("first_name ASC").Association("Attendees").Find(&attendees)
	return attendees, err
}

func IsEventAttendee(tx *gorm.DB, event models.Event, user models.User) (bool, error) {
	var count int64
	if err := tx.Table("event_attendees").
		Where("event_id = ? AND user_id = ?", event.ID, user.ID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func validateEventSchedule(item models.Event, requireFuture bool) error {
	if !item.EndsAt.After(item.StartsAt) {
		return ErrInvalidSchedule
	}
	if requireFuture && !item.StartsAt.After(Clock.Now()) {
		return ErrInvalidSchedule
	}
	return nil
}

func NewEvent(organizer models.User, item models.Event) (models.Event, error) {
	item.Title = strings.TrimSpace(item.Title)
	if err := validateEventSchedule(item, true); err != nil {
		return item, err
	}

	item.OrganizerID = organizer.ID
	item.CancelledAt = nil
	if err := database.C.Omit("Attendees").Create(&item).Error; err != nil {
		return item, err
	}
	item.Organizer = organizer
	item.Metric = models.EventMetric{RemainingSeats: int64(item.Capacity)}

	return item, nil
}

func EditEvent(item models.Event) (models.Event, error) {
	item.Title = strings.TrimSpace(item.Title)

	var original models.Event
	if err := database.C.Where("id = ?", item.ID).First(&original).Error; err != nil {
		return item, err
	}
	// Past start dates are only refused when the schedule moves.
	if err := validateEventSchedule(item, !item.StartsAt.Equal(original.StartsAt)); err != nil {
		return item, err
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("event_attendees").Where("event_id = ?", item.ID).Count(&count).Error; err != nil {
			return err
		}
		if int64(item.Capacity) < count {
			return ErrCapacityBelowCount
		}
		return tx.Omit("Organizer", "Category", "Attendees").Save(&item).Error
	})
	if err != nil {
		return item, err
	}

	items, err := CompleteEventMeta(item)
	if err != nil {
		return item, err
	}
	return items[0], nil
}

// CancelEvent marks the event as cancelled and warns every attendee.
func CancelEvent(item models.Event) (models.Event, error) {
	if item.IsCancelled() {
		return item, ErrEventCancelled
	}
	if item.HasStarted(Clock.Now()) {
		return item, ErrEventStarted
	}

	item.CancelledAt = lo.ToPtr(Clock.Now())
	if err := database.C.Model(&item).Update("cancelled_at", item.CancelledAt).Error; err != nil {
		return item, err
	}

	attendees, err := ListEventAttendee(item)
	if err != nil {
		log.Error().Err(err).Uint("event", item.ID).Msg("An error occurred when loading attendees of a cancelled event...")
		return item, nil
	}
	for _, attendee := range attendees {
		NotifyUser(
			attendee,
			"Event cancelled: "+item.Title,
			fmt.Sprintf("The event \"%s\" planned on %s has been cancelled by its organizer.", item.Title, item.StartsAt.Format(time.DateTime)),
		)
	}

	return item, nil
}

func DeleteEvent(item models.Event) error {
	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&item).Association("Attendees").Clear(); err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", item.ID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return err
	}

	invalidateRatingSummary(models.RatingTargetEvent, item.ID)
	if item.Image != nil {
		RemoveUpload(*item.Image)
	}
	return nil
}

// RegisterToEvent checks the capacity and inserts the attendance in the same transaction.
// On Postgres the event row is locked so concurrent registrations cannot overbook it.
func RegisterToEvent(user models.User, event models.Event) (models.Event, error) {
	now := Clock.Now()

	err := database.C.Transaction(func(tx *gorm.DB) error {
		query := tx
		if database.IsPostgres(tx) {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var item models.Event
		if err := query.Where("id = ?", event.ID).First(&item).Error; err != nil {
			return err
		}

		switch {
		case item.IsCancelled():
			return ErrEventCancelled
		case item.HasStarted(now):
			return ErrEventStarted
		case item.OrganizerID == user.ID:
			return ErrEventOrganizer
		}

		if registered, err := IsEventAttendee(tx, item, user); err != nil {
			return err
		} else if registered {
			return ErrAlreadyRegistered
		}

		var count int64
		if err := tx.Table("event_attendees").Where("event_id = ?", item.ID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(item.Capacity) {
			return ErrEventFull
		}

		return tx.Table("event_attendees").Create(map[string]any{
			"event_id": item.ID,
			"user_id":  user.ID,
		}).Error
	})
	if err != nil {
		metrics.EventRegistrations.WithLabelValues(registrationResult(err)).Inc()
		return event, err
	}
	metrics.EventRegistrations.WithLabelValues("ok").Inc()

	NotifyUser(
		user,
		"Registration confirmed: "+event.Title,
		fmt.Sprintf("You are registered to \"%s\" on %s at %s.", event.Title, event.StartsAt.Format(time.DateTime), event.Location),
	)

	items, err := CompleteEventMeta(event)
	if err != nil {
		return event, err
	}
	return items[0], nil
}

func registrationResult(err error) string {
	switch {
	case errors.Is(err, ErrEventFull):
		return "full"
	case errors.Is(err, ErrAlreadyRegistered):
		return "duplicate"
	case errors.Is(err, ErrEventStarted), errors.Is(err, ErrEventCancelled), errors.Is(err, ErrEventOrganizer):
		return "refused"
	default:
		return "error"
	}
}

func UnregisterFromEvent(user models.User, event models.Event) (models.Event, error) {
	if event.HasStarted(Clock.Now()) {
		return event, ErrEventStarted
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if registered, err := IsEventAttendee(tx, event, user); err != nil {
			return err
		} else if !registered {
			return ErrNotRegistered
		}
		return tx.Exec(
			"DELETE FROM event_attendees WHERE event_id = ? AND user_id = ?",
			event.ID, user.ID,
		).Error
	})
	if err != nil {
		return event, err
	}

	items, err := CompleteEventMeta(event)
	if err != nil {
		return event, err
	}
	return items[0], nil
}
