package services

import "errors"

var (
	ErrEmailTaken         = errors.New("this email address is already used by another account")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserBanned         = errors.New("this account has been banned")
	ErrUserAnonymized     = errors.New("this account has been deleted")
	ErrLastAdmin          = errors.New("the last administrator cannot be removed")
	ErrPermissionDenied   = errors.New("you are not allowed to do this")

	ErrEventFull          = errors.New("this event is full")
	ErrEventStarted       = errors.New("this event has already started")
	ErrEventCancelled     = errors.New("this event has been cancelled")
	ErrEventOrganizer     = errors.New("organizers cannot register to their own event")
	ErrAlreadyRegistered  = errors.New("you are already registered to this event")
	ErrNotRegistered      = errors.New("you are not registered to this event")
	ErrCapacityBelowCount = errors.New("capacity cannot be lower than the number of attendees")
	ErrInvalidSchedule    = errors.New("an event must start in the future and end after it starts")

	ErrInvalidRatingTarget = errors.New("invalid rating target")
	ErrRateSelf            = errors.New("you cannot rate yourself")
	ErrEventNotEnded       = errors.New("this event is not over yet")
	ErrNotAttended         = errors.New("only attendees can rate this event")
	ErrRateOwnEvent        = errors.New("organizers cannot rate their own event")
	ErrInvalidScore        = errors.New("score must be between 1 and 5")

	ErrMessageSelf       = errors.New("you cannot send a message to yourself")
	ErrRecipientInactive = errors.New("this member cannot receive messages")
	ErrForumLocked       = errors.New("this forum is locked")
	ErrReportExists      = errors.New("you already reported this content")
	ErrReportTarget      = errors.New("invalid report target")
	ErrUnsupportedUpload = errors.New("unsupported file type")
	ErrUploadTooLarge    = errors.New("file is too large")
)
