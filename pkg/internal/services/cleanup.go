package services

import (
	"time"

	"github.com/rs/zerolog/log"

	"git.entraide.dev/community/pkg/internal/database"
	"git.entraide.dev/community/pkg/internal/models"
)

// SoftDeletionRetention is how long soft deleted contents are kept before being purged.
const SoftDeletionRetention = 7 * 24 * time.Hour

var purgeRange = []any{
	&models.Message{},
	&models.ForumResponse{},
	&models.Forum{},
	&models.BlogPost{},
	&models.Event{},
	&models.Rating{},
	&models.Report{},
}

func DoAutoDatabaseCleanup() {
	deadline := Clock.Now().Add(-SoftDeletionRetention)
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	var count int64
	for _, model := range purgeRange {
		tx := database.C.Unscoped().Where("deleted_at < ?", deadline).Delete(model)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Msg("An error occurred when running auto database cleanup...")
		}
		count += tx.RowsAffected
	}

	if purged, err := PurgeHiddenMessages(); err != nil {
		log.Error().Err(err).Msg("An error occurred when purging hidden messages...")
	} else {
		count += purged
	}

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}
