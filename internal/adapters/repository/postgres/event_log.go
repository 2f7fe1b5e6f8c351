package postgres

import (
	"context"
	"fmt"

	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"

	"github.com/google/uuid"
)

type sqlEventLogRepository struct {
	db SQLQuerier
}

// NewSQLEventLogRepository creates sqlEventLogRepository that implements port.EventLogRepository
func NewSQLEventLogRepository(db SQLQuerier) port.EventLogRepository {
	return &sqlEventLogRepository{db: db}
}

// Insert appends one audit row
func (s *sqlEventLogRepository) Insert(ctx context.Context, event domain.VideoEvent) error {
	query := `INSERT INTO video_events
		(id, video_id, event_type, external_asset_id, correlation_token, outcome, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.VideoID,
		event.EventType,
		event.ExternalAssetID,
		event.CorrelationToken,
		event.Outcome,
		event.Detail,
	)
	if err != nil {
		return fmt.Errorf("error inserting video event: %w", err)
	}
	return nil
}

// FindByVideoID returns the audit trail for one record, oldest first
func (s *sqlEventLogRepository) FindByVideoID(ctx context.Context, videoID uuid.UUID) ([]domain.VideoEvent, error) {
	query := `SELECT id, video_id, event_type, external_asset_id, correlation_token, outcome, detail, created_at
		FROM video_events
		WHERE video_id = $1
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("error querying video events: %w", err)
	}
	defer rows.Close()

	var events []domain.VideoEvent
	for rows.Next() {
		var event domain.VideoEvent
		err := rows.Scan(
			&event.ID,
			&event.VideoID,
			&event.EventType,
			&event.ExternalAssetID,
			&event.CorrelationToken,
			&event.Outcome,
			&event.Detail,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning video event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating video events: %w", err)
	}
	return events, nil
}
