package postgres_test

import (
	"context"
	"testing"

	"media-vault/internal/adapters/repository/postgres"
	"media-vault/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSqlEventLogRepository(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()
	videoRepo := postgres.NewSQLVideoRepository(dbConnection)
	repo := postgres.NewSQLEventLogRepository(dbConnection)

	t.Run("Insert and FindByVideoID - Success", func(t *testing.T) {
		// Arrange
		truncate()
		videoID := uuid.New()
		require.NoError(t, videoRepo.Create(ctx, newVideo(videoID, domain.VideoStatusPreparing)))

		first := domain.VideoEvent{
			ID:               uuid.New(),
			VideoID:          &videoID,
			EventType:        "video.asset.created",
			ExternalAssetID:  "asset-log",
			CorrelationToken: videoID.String(),
			Outcome:          domain.EventOutcomeApplied,
		}
		second := domain.VideoEvent{
			ID:              uuid.New(),
			VideoID:         &videoID,
			EventType:       "video.asset.ready",
			ExternalAssetID: "asset-log",
			Outcome:         domain.EventOutcomeDuplicate,
			Detail:          "redelivery of already-applied state",
		}

		// Act
		require.NoError(t, repo.Insert(ctx, first))
		require.NoError(t, repo.Insert(ctx, second))
		events, err := repo.FindByVideoID(ctx, videoID)

		// Assert
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, "video.asset.created", events[0].EventType)
		require.Equal(t, domain.EventOutcomeDuplicate, events[1].Outcome)
		require.False(t, events[0].CreatedAt.IsZero())
	})

	t.Run("Insert - Unattributed Event Allowed", func(t *testing.T) {
		// Arrange: unrecognized deliveries carry no video id
		truncate()

		// Act
		err := repo.Insert(ctx, domain.VideoEvent{
			ID:        uuid.New(),
			EventType: "video.asset.renamed",
			Outcome:   domain.EventOutcomeUnrecognized,
			Detail:    "unknown event type",
		})

		// Assert
		require.NoError(t, err)
	})

	t.Run("Audit Rows Survive Record Deletion", func(t *testing.T) {
		// Arrange
		truncate()
		videoID := uuid.New()
		require.NoError(t, videoRepo.Create(ctx, newVideo(videoID, domain.VideoStatusPreparing)))
		require.NoError(t, repo.Insert(ctx, domain.VideoEvent{
			ID:      uuid.New(),
			VideoID: &videoID,
			Outcome: domain.EventOutcomeApplied,
		}))

		// Act: merge deletes duplicate rows, the trail must remain
		require.NoError(t, videoRepo.Delete(ctx, videoID))

		// Assert
		var count int
		require.NoError(t, dbConnection.QueryRow(
			`SELECT count(*) FROM video_events WHERE video_id IS NULL`).Scan(&count))
		require.Equal(t, 1, count)
	})
}
