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
)

var ErrDestinationNotFound = errors.New("destination not found")

type PlaceInput struct {
	ID          *uuid.UUID
	Name        string
	Description *string
}

type DestinationInput struct {
	Name        string
	Description *string
	ImageURL    *string
	Tags        []string
	Places      []PlaceInput
}

// normalize trims every field, drops unnamed places and blank tags, and checks
// that a name and at least one place remain.
func (in DestinationInput) normalize() (DestinationInput, error) {
	out := DestinationInput{
		Name:        strings.TrimSpace(in.Name),
		Description: optionalText(in.Description),
		ImageURL:    optionalText(in.ImageURL),
	}
	if out.Name == "" {
		return DestinationInput{}, ErrNameRequired
	}

	for _, tag := range in.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out.Tags = append(out.Tags, tag)
		}
	}

	for _, p := range in.Places {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		out.Places = append(out.Places, PlaceInput{ID: p.ID, Name: name, Description: optionalText(p.Description)})
	}
	if len(out.Places) == 0 {
		return DestinationInput{}, ErrPlaceRequired
	}
	return out, nil
}

const destinationColumns = `id, adventure_id, name, description, image_url, tags, order_index, created_at, updated_at`

func scanDestination(row pgx.Row) (*models.Destination, error) {
	var d models.Destination
	err := row.Scan(&d.ID, &d.AdventureID, &d.Name, &d.Description, &d.ImageURL, &d.Tags, &d.OrderIndex, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func insertDestination(ctx context.Context, q querier, adventureID uuid.UUID, in DestinationInput, order int) (*models.Destination, error) {
	dest, err := scanDestination(q.QueryRow(ctx, `
		INSERT INTO adventure_destinations (adventure_id, name, description, image_url, tags, order_index)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+destinationColumns,
		adventureID, in.Name, in.Description, in.ImageURL, in.Tags, order))
	if err != nil {
		if database.Classify(err) == database.KindForeignKey {
			return nil, ErrAdventureNotFound
		}
		return nil, fmt.Errorf("failed to create destination: %w", err)
	}

	dest.Places = make([]models.Place, 0, len(in.Places))
	for i, p := range in.Places {
		place, err := insertPlace(ctx, q, dest.ID, p, i)
		if err != nil {
			return nil, err
		}
		dest.Places = append(dest.Places, *place)
	}
	return dest, nil
}

func insertPlace(ctx context.Context, q querier, destinationID uuid.UUID, p PlaceInput, order int) (*models.Place, error) {
	place := models.Place{DestinationID: destinationID, Name: p.Name, Description: p.Description, OrderIndex: order}
	err := q.QueryRow(ctx, `
		INSERT INTO adventure_destination_places (destination_id, name, description, order_index)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, destinationID, p.Name, p.Description, order).Scan(&place.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}
	return &place, nil
}

type DestinationService struct {
	db *database.DB
}

func NewDestinationService(db *database.DB) *DestinationService {
	return &DestinationService{db: db}
}

// List returns the destinations of an adventure with their places, both in order.
func (s *DestinationService) List(ctx context.Context, adventureID uuid.UUID) ([]models.Destination, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+destinationColumns+` FROM adventure_destinations
		WHERE adventure_id = $1 ORDER BY order_index, created_at
	`, adventureID)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	defer rows.Close()

	var dests []models.Destination
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan destination: %w", err)
		}
		d.Places = []models.Place{}
		index[d.ID] = len(dests)
		dests = append(dests, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(dests) == 0 {
		return dests, nil
	}

	placeRows, err := s.db.Pool.Query(ctx, `
		SELECT p.id, p.destination_id, p.name, p.description, p.order_index
		FROM adventure_destination_places p
		JOIN adventure_destinations d ON d.id = p.destination_id
		WHERE d.adventure_id = $1
		ORDER BY p.order_index
	`, adventureID)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer placeRows.Close()

	for placeRows.Next() {
		var p models.Place
		if err := placeRows.Scan(&p.ID, &p.DestinationID, &p.Name, &p.Description, &p.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		if i, ok := index[p.DestinationID]; ok {
			dests[i].Places = append(dests[i].Places, p)
		}
	}
	return dests, placeRows.Err()
}

// AdventureOf returns the adventure a destination belongs to.
func (s *DestinationService) AdventureOf(ctx context.Context, destinationID uuid.UUID) (uuid.UUID, error) {
	var adventureID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT adventure_id FROM adventure_destinations WHERE id = $1
	`, destinationID).Scan(&adventureID)
	if err != nil {
		if database.IsNotFound(err) {
			return uuid.Nil, ErrDestinationNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to get destination: %w", err)
	}
	return adventureID, nil
}

// Add appends a destination at the end of the adventure's list.
func (s *DestinationService) Add(ctx context.Context, adventureID uuid.UUID, in DestinationInput) (*models.Destination, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var count int
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM adventure_destinations WHERE adventure_id = $1
	`, adventureID).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count destinations: %w", err)
	}

	dest, err := insertDestination(ctx, tx, adventureID, in, count)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return dest, nil
}

// Edit updates a destination and reconciles its places: submitted places with a
// known id are updated, the rest are inserted, and stored places that were not
// submitted are deleted. Places are re-indexed in submission order.
func (s *DestinationService) Edit(ctx context.Context, id uuid.UUID, in DestinationInput) (*models.Destination, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	dest, err := scanDestination(tx.QueryRow(ctx, `
		UPDATE adventure_destinations
		SET name = $2, description = $3, image_url = $4, tags = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+destinationColumns,
		id, in.Name, in.Description, in.ImageURL, in.Tags))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrDestinationNotFound
		}
		return nil, fmt.Errorf("failed to update destination: %w", err)
	}

	existing, err := placeIDs(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]bool, len(existing))
	for _, pid := range existing {
		known[pid] = true
	}

	kept := make(map[uuid.UUID]bool)
	dest.Places = make([]models.Place, 0, len(in.Places))
	for i, p := range in.Places {
		if p.ID != nil && known[*p.ID] && !kept[*p.ID] {
			if _, err := tx.Exec(ctx, `
				UPDATE adventure_destination_places
				SET name = $2, description = $3, order_index = $4
				WHERE id = $1
			`, *p.ID, p.Name, p.Description, i); err != nil {
				return nil, fmt.Errorf("failed to update place: %w", err)
			}
			kept[*p.ID] = true
			dest.Places = append(dest.Places, models.Place{
				ID: *p.ID, DestinationID: id, Name: p.Name, Description: p.Description, OrderIndex: i,
			})
			continue
		}

		place, err := insertPlace(ctx, tx, id, p, i)
		if err != nil {
			return nil, err
		}
		dest.Places = append(dest.Places, *place)
	}

	for _, pid := range existing {
		if kept[pid] {
			continue
		}
		if _, err := tx.Exec(ctx, `DELETE FROM adventure_destination_places WHERE id = $1`, pid); err != nil {
			return nil, fmt.Errorf("failed to delete place: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return dest, nil
}

func placeIDs(ctx context.Context, tx pgx.Tx, destinationID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := tx.Query(ctx, `
		SELECT id FROM adventure_destination_places WHERE destination_id = $1 ORDER BY order_index
	`, destinationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var pid uuid.UUID
		if err := rows.Scan(&pid); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		ids = append(ids, pid)
	}
	return ids, rows.Err()
}

// Delete removes a destination together with its places and votes.
func (s *DestinationService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM adventure_destinations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete destination: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDestinationNotFound
	}
	return nil
}
