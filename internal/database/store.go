package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned by mutating operations whose target row does not exist.
// Read operations return nil, nil instead.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for database operations.
// Methods should accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error

	// GetAsset retrieves an asset by name. Returns nil, nil if not found.
	GetAsset(ctx context.Context, community Community, category, name string) (*Asset, error)

	// ListAssets retrieves every asset of a community and category, ordered by name.
	ListAssets(ctx context.Context, community Community, category string) ([]Asset, error)

	// SaveAsset inserts or replaces the asset mapping. It reports whether a new row was created.
	SaveAsset(ctx context.Context, asset *Asset) (bool, error)

	// DeleteAsset deletes an asset and every schedule entry that points at it in a single
	// transaction. It returns the date keys that were unscheduled.
	DeleteAsset(ctx context.Context, community Community, category, name string) ([]string, error)

	// SaveSchedule inserts or replaces the schedule entry for a date key. The referenced
	// asset must exist; ErrNotFound is returned otherwise.
	SaveSchedule(ctx context.Context, schedule *Schedule) error

	// DeleteSchedule removes the schedule entry for a date key. Returns ErrNotFound if none exists.
	DeleteSchedule(ctx context.Context, community Community, category, dateKey string) error

	// ListSchedules retrieves the schedule entries of a community and category ordered by date key.
	ListSchedules(ctx context.Context, community Community, category string) ([]Schedule, error)

	// ListDueAssets retrieves every schedule entry for a date key across all communities,
	// joined with the asset filename.
	ListDueAssets(ctx context.Context, dateKey string) ([]DueAsset, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		s.logger.WarnContext(ctx, "Failed to set busy timeout", "error", err)
	}

	// VACUUM must run outside a transaction in SQLite
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}

// GetAsset retrieves an asset by community, category and name. Returns nil, nil if not found.
func (s *sqlxStore) GetAsset(ctx context.Context, community Community, category, name string) (*Asset, error) {
	if err := validateScope(community, category); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var asset Asset
	query := `SELECT id, created_at, updated_at, platform, community_id, category, name, filename
	          FROM assets
	          WHERE platform = ? AND community_id = ? AND category = ? AND name = ?`

	err := s.db.GetContext(ctx, &asset, query, community.Platform, community.CommunityID, category, name)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No asset found", "community", community.String(), "category", category, "name", name)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching asset",
			"community", community.String(), "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting asset", "community", community.String(), "name", name, "error", err)
		return nil, fmt.Errorf("failed to get %s %q for %s: %w", category, name, community, err)
	}

	return &asset, nil
}

// ListAssets retrieves every asset of a community and category, ordered by name.
func (s *sqlxStore) ListAssets(ctx context.Context, community Community, category string) ([]Asset, error) {
	if err := validateScope(community, category); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var assets []Asset
	query := `SELECT id, created_at, updated_at, platform, community_id, category, name, filename
	          FROM assets
	          WHERE platform = ? AND community_id = ? AND category = ?
	          ORDER BY name ASC`

	err := s.db.SelectContext(ctx, &assets, query, community.Platform, community.CommunityID, category)

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while listing assets",
			"community", community.String(), "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error listing assets", "community", community.String(), "category", category, "error", err)
		return nil, fmt.Errorf("failed to list %s assets for %s: %w", category, community, err)
	}

	s.logger.DebugContext(ctx, "Listed assets", "community", community.String(), "category", category, "count", len(assets))
	return assets, nil
}

// SaveAsset inserts or replaces the asset mapping keyed by community, category and name.
func (s *sqlxStore) SaveAsset(ctx context.Context, asset *Asset) (bool, error) {
	if asset == nil {
		return false, errors.New("cannot save nil asset")
	}
	if err := validateScope(asset.Community, asset.Category); err != nil {
		return false, err
	}
	if asset.Name == "" {
		return false, errors.New("asset must have a non-empty name")
	}
	if asset.Filename == "" {
		return false, errors.New("asset must have a non-empty filename")
	}

	now := time.Now().UTC()
	asset.UpdatedAt = now

	var created bool
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var existing Asset
		err := tx.GetContext(ctx, &existing,
			`SELECT id, created_at FROM assets
			 WHERE platform = ? AND community_id = ? AND category = ? AND name = ?`,
			asset.Platform, asset.CommunityID, asset.Category, asset.Name)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			created = true
			asset.CreatedAt = now
			result, err := tx.NamedExecContext(ctx, `
				INSERT INTO assets (created_at, updated_at, platform, community_id, category, name, filename)
				VALUES (:created_at, :updated_at, :platform, :community_id, :category, :name, :filename)`, asset)
			if err != nil {
				return fmt.Errorf("failed to insert asset: %w", err)
			}
			if id, err := result.LastInsertId(); err == nil {
				//nolint:gosec // integer overflow conversion is acceptable here
				asset.ID = uint(id)
			}
			return nil

		case err != nil:
			return fmt.Errorf("failed to check if asset exists: %w", err)
		}

		asset.ID = existing.ID
		asset.CreatedAt = existing.CreatedAt
		if _, err := tx.NamedExecContext(ctx, `
			UPDATE assets SET filename = :filename, updated_at = :updated_at
			WHERE id = :id`, asset); err != nil {
			return fmt.Errorf("failed to update asset: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving asset",
			"community", asset.Community.String(), "category", asset.Category, "name", asset.Name, "error", err)
		return false, err
	}

	s.logger.DebugContext(ctx, "Asset saved successfully",
		"community", asset.Community.String(), "category", asset.Category, "name", asset.Name, "created", created)
	return created, nil
}

// DeleteAsset deletes an asset and cascades to every schedule entry that references it.
func (s *sqlxStore) DeleteAsset(ctx context.Context, community Community, category, name string) ([]string, error) {
	if err := validateScope(community, category); err != nil {
		return nil, err
	}

	var removedDates []string
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM assets WHERE platform = ? AND community_id = ? AND category = ? AND name = ?`,
			community.Platform, community.CommunityID, category, name)
		if err != nil {
			return fmt.Errorf("failed to delete asset: %w", err)
		}
		if affected, err := result.RowsAffected(); err == nil && affected == 0 {
			return ErrNotFound
		}

		if err := tx.SelectContext(ctx, &removedDates,
			`SELECT date_key FROM schedules
			 WHERE platform = ? AND community_id = ? AND category = ? AND asset_name = ?
			 ORDER BY date_key ASC`,
			community.Platform, community.CommunityID, category, name); err != nil {
			return fmt.Errorf("failed to find schedules for asset: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM schedules WHERE platform = ? AND community_id = ? AND category = ? AND asset_name = ?`,
			community.Platform, community.CommunityID, category, name); err != nil {
			return fmt.Errorf("failed to delete schedules for asset: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.ErrorContext(ctx, "Error deleting asset",
				"community", community.String(), "category", category, "name", name, "error", err)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "Deleted asset",
		"community", community.String(), "category", category, "name", name, "unscheduled_dates", removedDates)
	return removedDates, nil
}

// SaveSchedule inserts or replaces the schedule entry for a date key after checking,
// in the same transaction, that the referenced asset exists.
func (s *sqlxStore) SaveSchedule(ctx context.Context, schedule *Schedule) error {
	if schedule == nil {
		return errors.New("cannot save nil schedule")
	}
	if err := validateScope(schedule.Community, schedule.Category); err != nil {
		return err
	}
	if schedule.DateKey == "" {
		return errors.New("schedule must have a non-empty date key")
	}

	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		err := tx.GetContext(ctx, &exists,
			`SELECT 1 FROM assets WHERE platform = ? AND community_id = ? AND category = ? AND name = ? LIMIT 1`,
			schedule.Platform, schedule.CommunityID, schedule.Category, schedule.AssetName)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check if asset exists: %w", err)
		}

		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO schedules (created_at, updated_at, platform, community_id, category, date_key, asset_name)
			VALUES (:created_at, :updated_at, :platform, :community_id, :category, :date_key, :asset_name)
			ON CONFLICT (platform, community_id, category, date_key)
			DO UPDATE SET asset_name = excluded.asset_name, updated_at = excluded.updated_at`, schedule); err != nil {
			return fmt.Errorf("failed to save schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.ErrorContext(ctx, "Error saving schedule",
				"community", schedule.Community.String(), "date_key", schedule.DateKey, "error", err)
		}
		return err
	}

	s.logger.DebugContext(ctx, "Schedule saved successfully",
		"community", schedule.Community.String(), "category", schedule.Category,
		"date_key", schedule.DateKey, "asset_name", schedule.AssetName)
	return nil
}

// DeleteSchedule removes the schedule entry for a date key.
func (s *sqlxStore) DeleteSchedule(ctx context.Context, community Community, category, dateKey string) error {
	if err := validateScope(community, category); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM schedules WHERE platform = ? AND community_id = ? AND category = ? AND date_key = ?`,
		community.Platform, community.CommunityID, category, dateKey)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting schedule", "community", community.String(), "date_key", dateKey, "error", err)
		return fmt.Errorf("failed to delete schedule %s for %s: %w", dateKey, community, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.DebugContext(ctx, "Deleted schedule", "community", community.String(), "category", category, "date_key", dateKey)
	return nil
}

// ListSchedules retrieves the schedule entries of a community and category ordered by date key.
func (s *sqlxStore) ListSchedules(ctx context.Context, community Community, category string) ([]Schedule, error) {
	if err := validateScope(community, category); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var schedules []Schedule
	query := `SELECT id, created_at, updated_at, platform, community_id, category, date_key, asset_name
	          FROM schedules
	          WHERE platform = ? AND community_id = ? AND category = ?
	          ORDER BY date_key ASC`

	if err := s.db.SelectContext(ctx, &schedules, query, community.Platform, community.CommunityID, category); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.logger.WarnContext(ctx, "Context timeout or cancellation while listing schedules", "error", err)
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Error listing schedules", "community", community.String(), "error", err)
		return nil, fmt.Errorf("failed to list %s schedules for %s: %w", category, community, err)
	}

	return schedules, nil
}

// ListDueAssets retrieves every schedule entry for a date key across all communities.
// Icons come before banners within a community.
func (s *sqlxStore) ListDueAssets(ctx context.Context, dateKey string) ([]DueAsset, error) {
	if dateKey == "" {
		return nil, errors.New("date key cannot be empty")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var due []DueAsset
	query := `
		SELECT s.platform, s.community_id, s.category, s.date_key, s.asset_name,
		       COALESCE(a.filename, '') AS filename
		FROM schedules s
		LEFT JOIN assets a
		  ON a.platform = s.platform
		 AND a.community_id = s.community_id
		 AND a.category = s.category
		 AND a.name = s.asset_name
		WHERE s.date_key = ?
		ORDER BY s.platform, s.community_id, CASE s.category WHEN 'icon' THEN 0 ELSE 1 END`

	if err := s.db.SelectContext(ctx, &due, query, dateKey); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.logger.WarnContext(ctx, "Context timeout or cancellation while listing due assets", "error", err)
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Error listing due assets", "date_key", dateKey, "error", err)
		return nil, fmt.Errorf("failed to list due assets for %s: %w", dateKey, err)
	}

	s.logger.DebugContext(ctx, "Listed due assets", "date_key", dateKey, "count", len(due))
	return due, nil
}

// withTx runs fn inside a transaction, committing on success and rolling back otherwise.
func (s *sqlxStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	// Successfully committed, set tx to nil to avoid rollback
	tx = nil
	return nil
}

func validateScope(community Community, category string) error {
	if community.Platform == "" || community.CommunityID == "" {
		return fmt.Errorf("invalid community %q", community.String())
	}
	if category == "" {
		return errors.New("category cannot be empty")
	}
	return nil
}
