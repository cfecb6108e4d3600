package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/tripvote-api/internal/database"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/dimitrije/tripvote-api/internal/sse"
	"github.com/dimitrije/tripvote-api/internal/votes"
	"github.com/google/uuid"
)

var (
	ErrInvalidVoteType = errors.New("vote type must be yes, no or proponi")
	ErrCommentRequired = errors.New("a comment is required when proposing changes")
)

type adventurePublisher interface {
	PublishToAdventure(adventureID uuid.UUID, eventType string, data interface{})
}

type VoteService struct {
	db     *database.DB
	events adventurePublisher
}

func NewVoteService(db *database.DB, events adventurePublisher) *VoteService {
	return &VoteService{db: db, events: events}
}

// Cast records the user's vote on a destination, replacing any earlier one.
// Validation happens before anything is written.
func (s *VoteService) Cast(ctx context.Context, adventureID, destinationID, userID uuid.UUID, voteType string, comment *string) (*models.Vote, error) {
	vt, ok := votes.ParseType(voteType)
	if !ok {
		return nil, ErrInvalidVoteType
	}
	comment = optionalText(comment)
	if vt == votes.Proponi && comment == nil {
		return nil, ErrCommentRequired
	}

	var v models.Vote
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO adventure_destination_votes (destination_id, user_id, vote_type, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (destination_id, user_id) DO UPDATE
			SET vote_type = EXCLUDED.vote_type, comment = EXCLUDED.comment, updated_at = NOW()
		RETURNING id, destination_id, user_id, vote_type, comment, created_at, updated_at
	`, destinationID, userID, string(vt), comment).Scan(
		&v.ID, &v.DestinationID, &v.UserID, &v.VoteType, &v.Comment, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if database.Classify(err) == database.KindForeignKey {
			return nil, ErrDestinationNotFound
		}
		return nil, fmt.Errorf("failed to cast vote: %w", err)
	}

	s.events.PublishToAdventure(adventureID, sse.EventVoteCast, v)
	return &v, nil
}

// List returns every vote on the adventure's destinations with the voter's email.
func (s *VoteService) List(ctx context.Context, adventureID uuid.UUID) ([]models.Vote, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT v.id, v.destination_id, v.user_id, u.email, v.vote_type, v.comment, v.created_at, v.updated_at
		FROM adventure_destination_votes v
		JOIN adventure_destinations d ON d.id = v.destination_id
		JOIN users u ON u.id = v.user_id
		WHERE d.adventure_id = $1
		ORDER BY v.created_at
	`, adventureID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var out []models.Vote
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.DestinationID, &v.UserID, &v.UserEmail, &v.VoteType, &v.Comment, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Tally aggregates votes per destination.
func Tally(list []models.Vote) []votes.Tally {
	records := make([]votes.Record, len(list))
	for i, v := range list {
		records[i] = votes.Record{DestinationID: v.DestinationID.String(), VoteType: v.VoteType}
	}
	return votes.Sorted(votes.Aggregate(records))
}
