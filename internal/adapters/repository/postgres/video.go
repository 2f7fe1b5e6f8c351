package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type sqlVideoRepository struct {
	db SQLQuerier
}

// NewSQLVideoRepository creates sqlVideoRepository that implements port.VideoRepository
func NewSQLVideoRepository(db SQLQuerier) port.VideoRepository {
	return &sqlVideoRepository{db: db}
}

const videoColumns = `id, external_asset_id, correlation_token, status,
	thumbnail_method, thumbnail_location, source_location, playback_location,
	filename, size_bytes, mime_type, duration_seconds, error_detail,
	created_at, updated_at`

// Create inserts a new video row. The unique index on external_asset_id is
// the linearization point for concurrent creates: losers get
// domain.ErrAlreadyExists and must re-read.
func (s *sqlVideoRepository) Create(ctx context.Context, record domain.VideoRecord) error {
	query := `INSERT INTO video_records
		(id, external_asset_id, correlation_token, status, thumbnail_method,
		 thumbnail_location, source_location, playback_location, filename,
		 size_bytes, mime_type, duration_seconds, error_detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		nullString(record.ExternalAssetID),
		record.CorrelationToken,
		record.Status,
		record.Thumbnail.Method,
		record.Thumbnail.Location,
		record.SourceLocation,
		record.PlaybackLocation,
		record.Filename,
		record.SizeBytes,
		record.MimeType,
		record.DurationSeconds,
		record.ErrorDetail,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, record.ExternalAssetID)
		}
		return fmt.Errorf("error inserting video record: %w", err)
	}
	return nil
}

// FindByID finds by internal id
func (s *sqlVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.VideoRecord, error) {
	query := `SELECT ` + videoColumns + ` FROM video_records WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

// FindByExternalAssetID finds the single row bound to a provider asset id
func (s *sqlVideoRepository) FindByExternalAssetID(ctx context.Context, externalAssetID string) (*domain.VideoRecord, error) {
	query := `SELECT ` + videoColumns + ` FROM video_records WHERE external_asset_id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, externalAssetID))
}

// FindByCorrelationToken finds by the passthrough token
func (s *sqlVideoRepository) FindByCorrelationToken(ctx context.Context, token uuid.UUID) (*domain.VideoRecord, error) {
	query := `SELECT ` + videoColumns + ` FROM video_records WHERE correlation_token = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, token))
}

// AttachExternalAssetID binds a provider asset id to a row that has none.
// The WHERE clause makes the write a compare-and-set; the unique index
// rejects ids already bound elsewhere.
func (s *sqlVideoRepository) AttachExternalAssetID(ctx context.Context, id uuid.UUID, externalAssetID string) error {
	query := `UPDATE video_records
		SET external_asset_id = $1, updated_at = now()
		WHERE id = $2 AND external_asset_id IS NULL`

	result, err := s.db.ExecContext(ctx, query, externalAssetID, id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, externalAssetID)
		}
		return fmt.Errorf("error attaching external asset id: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.ExternalAssetID == externalAssetID {
		return nil
	}
	return fmt.Errorf("%w: record %s already bound to %s", domain.ErrAlreadyExists, id, existing.ExternalAssetID)
}

// AdvanceState applies update atomically, guarded by the allowed
// predecessor statuses. A nil from list skips the guard (merge repair).
// Zero rows affected means a concurrent writer already moved the record
// past from, reported as domain.ErrStaleEvent.
func (s *sqlVideoRepository) AdvanceState(ctx context.Context, id uuid.UUID, from []domain.VideoStatus, update domain.VideoUpdate) error {
	sets := []string{"status = $1", "updated_at = now()"}
	args := []interface{}{update.Status}

	appendSet := func(clause string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(clause, len(args)))
	}

	if update.Thumbnail != nil {
		appendSet("thumbnail_method = $%d", update.Thumbnail.Method)
		appendSet("thumbnail_location = $%d", update.Thumbnail.Location)
	}
	if update.PlaybackLocation != nil {
		appendSet("playback_location = $%d", *update.PlaybackLocation)
	}
	if update.DurationSeconds != nil {
		appendSet("duration_seconds = $%d", *update.DurationSeconds)
	}
	if update.ErrorDetail != nil {
		appendSet("error_detail = $%d", *update.ErrorDetail)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE video_records SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	if len(from) > 0 {
		statuses := make([]string, 0, len(from))
		for _, status := range from {
			statuses = append(statuses, string(status))
		}
		args = append(args, pq.Array(statuses))
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error advancing video state: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrStaleEvent
	}
	return nil
}

// UpdateThumbnail writes the thumbnail artifact without touching status
func (s *sqlVideoRepository) UpdateThumbnail(ctx context.Context, id uuid.UUID, thumbnail domain.ThumbnailArtifact) error {
	query := `UPDATE video_records
		SET thumbnail_method = $1, thumbnail_location = $2, updated_at = now()
		WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, thumbnail.Method, thumbnail.Location, id)
	if err != nil {
		return fmt.Errorf("error updating thumbnail: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}

// FindStuckPreparing finds preparing records not updated since olderThan
func (s *sqlVideoRepository) FindStuckPreparing(ctx context.Context, olderThan time.Time, limit int) ([]domain.VideoRecord, error) {
	query := `SELECT ` + videoColumns + `
		FROM video_records
		WHERE status = 'preparing' AND updated_at < $1
		ORDER BY updated_at ASC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying stuck records: %w", err)
	}
	defer rows.Close()

	var records []domain.VideoRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stuck records: %w", err)
	}
	return records, nil
}

// Delete removes a row. Only the registry's merge step calls this.
func (s *sqlVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM video_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting video record: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *sqlVideoRepository) scanOne(row *sql.Row) (*domain.VideoRecord, error) {
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, err
	}
	return record, nil
}

func scanRecord(row rowScanner) (*domain.VideoRecord, error) {
	var (
		record          domain.VideoRecord
		externalAssetID sql.NullString
	)
	err := row.Scan(
		&record.ID,
		&externalAssetID,
		&record.CorrelationToken,
		&record.Status,
		&record.Thumbnail.Method,
		&record.Thumbnail.Location,
		&record.SourceLocation,
		&record.PlaybackLocation,
		&record.Filename,
		&record.SizeBytes,
		&record.MimeType,
		&record.DurationSeconds,
		&record.ErrorDetail,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if externalAssetID.Valid {
		record.ExternalAssetID = externalAssetID.String
	}
	return &record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
