package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/tripvote-api/internal/database"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

var ErrAdventureNotFound = errors.New("adventure not found")

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const adventureColumns = `id, name, description, created_by, is_active, created_at, updated_at`

func scanAdventure(row pgx.Row) (*models.Adventure, error) {
	var a models.Adventure
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.CreatedBy, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

type CreateAdventureInput struct {
	Name         string
	Description  *string
	CreatedBy    uuid.UUID
	Destinations []DestinationInput
}

// CreateAdventureResult reports the best-effort linkage rows next to the adventure.
type CreateAdventureResult struct {
	Adventure         *models.Adventure    `json:"adventure"`
	Destinations      []models.Destination `json:"destinations"`
	CreatorLinked     bool                 `json:"creator_linked"`
	ParticipantLinked bool                 `json:"participant_linked"`
}

// Membership is how one user relates to one adventure.
type Membership struct {
	IsCreator   bool
	Participant *models.Participant
}

// CanView is true for creators and for participants who are not still pending.
func (m Membership) CanView() bool {
	return m.IsCreator || (m.Participant != nil && !m.Participant.IsPending())
}

type AdventureService struct {
	db  *database.DB
	log logrus.FieldLogger
}

func NewAdventureService(db *database.DB, log logrus.FieldLogger) *AdventureService {
	return &AdventureService{db: db, log: log}
}

// Create writes the adventure and its initial destinations in one transaction.
// The creator and owner-participant rows follow best-effort: the adventure is
// returned even when they fail.
func (s *AdventureService) Create(ctx context.Context, in CreateAdventureInput) (*CreateAdventureResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	dests := make([]DestinationInput, len(in.Destinations))
	for i, d := range in.Destinations {
		clean, err := d.normalize()
		if err != nil {
			return nil, fmt.Errorf("destination %d: %w", i+1, err)
		}
		dests[i] = clean
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	adventure, err := scanAdventure(tx.QueryRow(ctx, `
		INSERT INTO adventures (name, description, created_by, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING `+adventureColumns,
		name, optionalText(in.Description), in.CreatedBy))
	if err != nil {
		return nil, fmt.Errorf("failed to create adventure: %w", err)
	}

	created := make([]models.Destination, 0, len(dests))
	for i, d := range dests {
		dest, err := insertDestination(ctx, tx, adventure.ID, d, i)
		if err != nil {
			return nil, err
		}
		created = append(created, *dest)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result := &CreateAdventureResult{Adventure: adventure, Destinations: created}
	log := s.log.WithFields(logrus.Fields{"adventure_id": adventure.ID, "user_id": in.CreatedBy})

	if _, err := s.db.Pool.Exec(ctx, `
		INSERT INTO adventure_creators (adventure_id, user_id) VALUES ($1, $2)
		ON CONFLICT (adventure_id, user_id) DO NOTHING
	`, adventure.ID, in.CreatedBy); err != nil {
		log.WithError(err).Warn("failed to link adventure creator")
	} else {
		result.CreatorLinked = true
	}

	// A NULL invitation status marks the owner row.
	if _, err := s.db.Pool.Exec(ctx, `
		INSERT INTO adventure_participants (adventure_id, user_id, added_by) VALUES ($1, $2, $2)
		ON CONFLICT (adventure_id, user_id) DO NOTHING
	`, adventure.ID, in.CreatedBy); err != nil {
		log.WithError(err).Warn("failed to add creator as participant")
	} else {
		result.ParticipantLinked = true
	}

	return result, nil
}

// Get returns an active adventure.
func (s *AdventureService) Get(ctx context.Context, id uuid.UUID) (*models.Adventure, error) {
	a, err := scanAdventure(s.db.Pool.QueryRow(ctx, `
		SELECT `+adventureColumns+` FROM adventures WHERE id = $1 AND is_active
	`, id))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrAdventureNotFound
		}
		return nil, fmt.Errorf("failed to get adventure: %w", err)
	}
	return a, nil
}

// List returns active adventures, newest first. Unless all is set only the
// ones userID created or takes part in are returned.
func (s *AdventureService) List(ctx context.Context, userID uuid.UUID, all bool) ([]models.Adventure, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if all {
		rows, err = s.db.Pool.Query(ctx, `
			SELECT `+adventureColumns+` FROM adventures WHERE is_active ORDER BY created_at DESC
		`)
	} else {
		rows, err = s.db.Pool.Query(ctx, `
			SELECT `+adventureColumns+` FROM adventures a
			WHERE a.is_active AND (
				a.created_by = $1
				OR EXISTS (SELECT 1 FROM adventure_creators c WHERE c.adventure_id = a.id AND c.user_id = $1)
				OR EXISTS (SELECT 1 FROM adventure_participants p WHERE p.adventure_id = a.id AND p.user_id = $1)
			)
			ORDER BY a.created_at DESC
		`, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list adventures: %w", err)
	}
	defer rows.Close()

	var adventures []models.Adventure
	for rows.Next() {
		a, err := scanAdventure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan adventure: %w", err)
		}
		adventures = append(adventures, *a)
	}
	return adventures, rows.Err()
}

func (s *AdventureService) Update(ctx context.Context, id uuid.UUID, name string, description *string) (*models.Adventure, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	a, err := scanAdventure(s.db.Pool.QueryRow(ctx, `
		UPDATE adventures SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING `+adventureColumns,
		id, name, optionalText(description)))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrAdventureNotFound
		}
		return nil, fmt.Errorf("failed to update adventure: %w", err)
	}
	return a, nil
}

// Deactivate soft-deletes an adventure.
func (s *AdventureService) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE adventures SET is_active = false, updated_at = NOW() WHERE id = $1 AND is_active
	`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate adventure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAdventureNotFound
	}
	return nil
}

func (s *AdventureService) Membership(ctx context.Context, adventureID, userID uuid.UUID) (Membership, error) {
	var m Membership
	var (
		participantID *uuid.UUID
		status        *string
	)
	err := s.db.Pool.QueryRow(ctx, `
		SELECT
			a.created_by = $2 OR EXISTS (
				SELECT 1 FROM adventure_creators c WHERE c.adventure_id = a.id AND c.user_id = $2
			),
			p.id, p.invitation_status
		FROM adventures a
		LEFT JOIN adventure_participants p ON p.adventure_id = a.id AND p.user_id = $2
		WHERE a.id = $1 AND a.is_active
	`, adventureID, userID).Scan(&m.IsCreator, &participantID, &status)
	if err != nil {
		if database.IsNotFound(err) {
			return Membership{}, ErrAdventureNotFound
		}
		return Membership{}, fmt.Errorf("failed to check membership: %w", err)
	}

	if participantID != nil {
		m.Participant = &models.Participant{
			ID:               *participantID,
			AdventureID:      adventureID,
			UserID:           userID,
			InvitationStatus: status,
		}
	}
	return m, nil
}

func (s *AdventureService) Creators(ctx context.Context, adventureID uuid.UUID) ([]models.Creator, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, adventure_id, user_id, created_at
		FROM adventure_creators WHERE adventure_id = $1 ORDER BY created_at
	`, adventureID)
	if err != nil {
		return nil, fmt.Errorf("failed to list creators: %w", err)
	}
	defer rows.Close()

	var creators []models.Creator
	for rows.Next() {
		var c models.Creator
		if err := rows.Scan(&c.ID, &c.AdventureID, &c.UserID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan creator: %w", err)
		}
		creators = append(creators, c)
	}
	return creators, rows.Err()
}
