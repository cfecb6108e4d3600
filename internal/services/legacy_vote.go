package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/tripvote-api/internal/catalog"
	"github.com/dimitrije/tripvote-api/internal/database"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/dimitrije/tripvote-api/internal/votes"
	"github.com/google/uuid"
)

var ErrUnknownDestination = errors.New("unknown destination")

// DestinationStat is the admin dashboard card of one catalog destination.
type DestinationStat struct {
	votes.Tally
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

// LegacyVoteService handles the flat yes/no votes on the fixed catalog.
type LegacyVoteService struct {
	db *database.DB
}

func NewLegacyVoteService(db *database.DB) *LegacyVoteService {
	return &LegacyVoteService{db: db}
}

const legacyVoteColumns = `id, destination_id, user_id, user_email, vote_type, comment, created_at, updated_at`

func (s *LegacyVoteService) Cast(ctx context.Context, key string, userID uuid.UUID, email, voteType string, comment *string) (*models.LegacyVote, error) {
	if _, ok := catalog.Get(key); !ok {
		return nil, ErrUnknownDestination
	}
	vt, ok := votes.ParseType(voteType)
	if !ok || vt == votes.Proponi {
		return nil, ErrInvalidVoteType
	}

	var v models.LegacyVote
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO destination_votes (destination_id, user_id, user_email, vote_type, comment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (destination_id, user_id) DO UPDATE
			SET vote_type = EXCLUDED.vote_type, comment = EXCLUDED.comment,
				user_email = EXCLUDED.user_email, updated_at = NOW()
		RETURNING `+legacyVoteColumns,
		key, userID, normalizeEmail(email), string(vt), optionalText(comment)).Scan(
		&v.ID, &v.DestinationID, &v.UserID, &v.UserEmail, &v.VoteType, &v.Comment, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to cast vote: %w", err)
	}
	return &v, nil
}

// ForUser returns the user's votes keyed by catalog key.
func (s *LegacyVoteService) ForUser(ctx context.Context, userID uuid.UUID) (map[string]models.LegacyVote, error) {
	list, err := s.query(ctx, `SELECT `+legacyVoteColumns+` FROM destination_votes WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.LegacyVote, len(list))
	for _, v := range list {
		out[v.DestinationID] = v
	}
	return out, nil
}

// All returns every legacy vote, newest first.
func (s *LegacyVoteService) All(ctx context.Context) ([]models.LegacyVote, error) {
	return s.query(ctx, `SELECT `+legacyVoteColumns+` FROM destination_votes ORDER BY created_at DESC`)
}

// Counts tallies the votes cast on one catalog destination.
func (s *LegacyVoteService) Counts(ctx context.Context, key string) (votes.Tally, error) {
	if _, ok := catalog.Get(key); !ok {
		return votes.Tally{}, ErrUnknownDestination
	}
	list, err := s.query(ctx, `SELECT `+legacyVoteColumns+` FROM destination_votes WHERE destination_id = $1`, key)
	if err != nil {
		return votes.Tally{}, err
	}

	t := votes.Aggregate(toRecords(list))[key]
	t.DestinationID = key
	return t, nil
}

func (s *LegacyVoteService) Statistics(ctx context.Context) ([]DestinationStat, error) {
	list, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	tallies := votes.Sorted(votes.Aggregate(toRecords(list)))
	stats := make([]DestinationStat, len(tallies))
	for i, t := range tallies {
		stats[i] = DestinationStat{Tally: t, Name: catalog.Name(t.DestinationID), Percentage: t.Percentage()}
	}
	return stats, nil
}

func (s *LegacyVoteService) query(ctx context.Context, sql string, args ...any) ([]models.LegacyVote, error) {
	rows, err := s.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var out []models.LegacyVote
	for rows.Next() {
		var v models.LegacyVote
		if err := rows.Scan(&v.ID, &v.DestinationID, &v.UserID, &v.UserEmail, &v.VoteType, &v.Comment, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func toRecords(list []models.LegacyVote) []votes.Record {
	records := make([]votes.Record, len(list))
	for i, v := range list {
		records[i] = votes.Record{DestinationID: v.DestinationID, VoteType: v.VoteType}
	}
	return records
}
