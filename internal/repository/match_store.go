package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/trackcore-go/internal/database"
	"github.com/jengzang/trackcore-go/internal/matching"
	"github.com/jengzang/trackcore-go/internal/models"
)

// matchQueries serves the matcher from the track and segment repositories
// bound to one connection or transaction.
type matchQueries struct {
	*TrackRepository
	segments *SegmentRepository
}

func newMatchQueries(db DBTX) matchQueries {
	return matchQueries{TrackRepository: NewTrackRepository(db), segments: NewSegmentRepository(db)}
}

func (q matchQueries) InsertSegmentTrack(ctx context.Context, track *models.SegmentTrack) error {
	return q.segments.Insert(ctx, track)
}

// MatchStore implements matching.Store on sqlite. On a *sql.DB every Atomic
// group is its own transaction; on a *sql.Tx it runs under a savepoint so
// the caller decides when the whole search commits.
type MatchStore struct {
	matchQueries
	db         DBTX
	savepoints int
}

// NewMatchStore creates a MatchStore on a database or an open transaction.
func NewMatchStore(db DBTX) *MatchStore {
	return &MatchStore{matchQueries: newMatchQueries(db), db: db}
}

// Atomic runs fn as one unit.
func (s *MatchStore) Atomic(ctx context.Context, fn func(q matching.Queries) error) error {
	switch db := s.db.(type) {
	case *sql.DB:
		return database.Transaction(ctx, db, func(tx *sql.Tx) error {
			return fn(newMatchQueries(tx))
		})
	case *sql.Tx:
		return s.savepoint(ctx, db, fn)
	default:
		return fmt.Errorf("unsupported match store connection %T", s.db)
	}
}

func (s *MatchStore) savepoint(ctx context.Context, tx *sql.Tx, fn func(q matching.Queries) error) error {
	s.savepoints++
	name := fmt.Sprintf("match_%d", s.savepoints)

	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}
	if err := fn(s.matchQueries); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO "+name); rbErr != nil {
			return fmt.Errorf("savepoint error: %v, rollback error: %w", err, rbErr)
		}
		if _, relErr := tx.ExecContext(ctx, "RELEASE "+name); relErr != nil {
			return fmt.Errorf("savepoint error: %v, release error: %w", err, relErr)
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, "RELEASE "+name); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}
	return nil
}

var _ matching.Store = (*MatchStore)(nil)
