package models

const (
	RatingTargetUser  = "user"
	RatingTargetEvent = "event"
)

type Rating struct {
	BaseModel

	Score   int    `json:"score"`
	Comment string `json:"comment"`

	RaterID     uint   `json:"rater_id" gorm:"index;uniqueIndex:idx_rating_rated_user,where:rated_user_id IS NOT NULL AND deleted_at IS NULL;uniqueIndex:idx_rating_event,where:event_id IS NOT NULL AND deleted_at IS NULL"`
	Rater       User   `json:"rater"`
	TargetType  string `json:"target_type" gorm:"size:16;index"`
	RatedUserID *uint  `json:"rated_user_id" gorm:"index;uniqueIndex:idx_rating_rated_user"`
	EventID     *uint  `json:"event_id" gorm:"index;uniqueIndex:idx_rating_event"`
}

// TargetColumn is the column holding the id of the rated target.
func (v Rating) TargetColumn() string {
	if v.TargetType == RatingTargetEvent {
		return "event_id"
	}
	return "rated_user_id"
}

// TargetID returns the id of whichever target the rating points at.
func (v Rating) TargetID() uint {
	switch {
	case v.RatedUserID != nil:
		return *v.RatedUserID
	case v.EventID != nil:
		return *v.EventID
	default:
		return 0
	}
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
