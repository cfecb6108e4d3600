package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/tripvote-api/internal/database"
	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/dimitrije/tripvote-api/internal/sse"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyParticipant  = errors.New("user is already a participant of this adventure")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrInvitationNotFound  = errors.New("invitation not found or already answered")
)

type inviteMailer interface {
	SendAdventureInvite(to, adventureName, inviterName, link string) error
}

type publisher interface {
	userPublisher
	adventurePublisher
}

type AddParticipantInput struct {
	AdventureID uuid.UUID
	Email       string
	InvitedBy   uuid.UUID
	// CurrentEmails are the participants the caller already knows about.
	CurrentEmails []string
}

type ParticipantService struct {
	db            *database.DB
	users         *UserService
	notifications *NotificationService
	mailer        inviteMailer
	events        publisher
	baseURL       string
	log           logrus.FieldLogger
}

func NewParticipantService(
	db *database.DB,
	users *UserService,
	notifications *NotificationService,
	mailer inviteMailer,
	events publisher,
	baseURL string,
	log logrus.FieldLogger,
) *ParticipantService {
	return &ParticipantService{
		db:            db,
		users:         users,
		notifications: notifications,
		mailer:        mailer,
		events:        events,
		baseURL:       strings.TrimRight(baseURL, "/"),
		log:           log,
	}
}

// Add invites a registered user by email. The invitation row is the primary
// write; the notification, the live push and the email are best-effort.
func (s *ParticipantService) Add(ctx context.Context, in AddParticipantInput) (*models.Participant, error) {
	email := normalizeEmail(in.Email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	for _, current := range in.CurrentEmails {
		if strings.EqualFold(strings.TrimSpace(current), email) {
			return nil, ErrAlreadyParticipant
		}
	}

	userID, err := s.users.LookupIDByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var adventureName string
	err = s.db.Pool.QueryRow(ctx, `
		SELECT name FROM adventures WHERE id = $1 AND is_active
	`, in.AdventureID).Scan(&adventureName)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrAdventureNotFound
		}
		return nil, fmt.Errorf("failed to get adventure: %w", err)
	}

	status := models.InvitationPending
	p := models.Participant{
		AdventureID:      in.AdventureID,
		UserID:           userID,
		AddedBy:          &in.InvitedBy,
		InvitationStatus: &status,
		UserEmail:        email,
	}
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO adventure_participants (adventure_id, user_id, added_by, invitation_status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, created_at
	`, in.AdventureID, userID, in.InvitedBy).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if database.IsConflict(err) {
			return nil, ErrAlreadyParticipant
		}
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}

	s.notifyInvitee(ctx, &p, adventureName)
	s.events.PublishToAdventure(in.AdventureID, sse.EventParticipants, p)
	return &p, nil
}

func (s *ParticipantService) notifyInvitee(ctx context.Context, p *models.Participant, adventureName string) {
	log := s.log.WithFields(logrus.Fields{"adventure_id": p.AdventureID, "user_id": p.UserID})

	inviter, err := s.users.DisplayName(ctx, *p.AddedBy)
	if err != nil {
		log.WithError(err).Warn("failed to resolve inviter name")
		inviter = "Un utente"
	}

	link := fmt.Sprintf("/adventure/%s", p.AdventureID)
	id, err := s.notifications.Create(ctx, NotificationInput{
		UserID:  p.UserID,
		Type:    models.NotificationAdventureInvitation,
		Title:   "Invito all'avventura",
		Message: fmt.Sprintf("%s ti ha invitato a partecipare all'avventura \"%s\".", inviter, adventureName),
		Link:    &link,
		Metadata: map[string]any{
			"adventure_id":   p.AdventureID,
			"participant_id": p.UserID,
			"inviter_id":     *p.AddedBy,
		},
	})
	if err != nil {
		log.WithError(err).Warn("failed to create invitation notification")
	} else {
		s.events.PublishToUser(p.UserID, sse.EventNotification, map[string]any{
			"id":   id,
			"type": models.NotificationAdventureInvitation,
		})
	}

	if err := s.mailer.SendAdventureInvite(p.UserEmail, adventureName, inviter, s.baseURL+link); err != nil {
		log.WithError(err).Warn("failed to send invitation email")
	}
}

// List returns the participants enriched with email and display name. The
// adventure owner is always listed, even when the owner row was never written.
func (s *ParticipantService) List(ctx context.Context, adventure *models.Adventure) ([]models.Participant, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT p.id, p.adventure_id, p.user_id, p.added_by, p.invitation_status, p.created_at,
			u.email, pr.first_name, pr.last_name
		FROM adventure_participants p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN user_profiles pr ON pr.user_id = p.user_id
		WHERE p.adventure_id = $1
		ORDER BY p.created_at
	`, adventure.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var out []models.Participant
	ownerListed := false
	for rows.Next() {
		var p models.Participant
		var profile models.UserProfile
		if err := rows.Scan(&p.ID, &p.AdventureID, &p.UserID, &p.AddedBy, &p.InvitationStatus, &p.CreatedAt,
			&p.UserEmail, &profile.FirstName, &profile.LastName); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.DisplayName = profile.DisplayName(p.UserEmail)
		if p.UserID == adventure.CreatedBy {
			ownerListed = true
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !ownerListed {
		owner := models.Participant{
			AdventureID: adventure.ID,
			UserID:      adventure.CreatedBy,
			CreatedAt:   adventure.CreatedAt,
		}
		if email, err := s.users.LookupEmailByID(ctx, adventure.CreatedBy); err == nil {
			owner.UserEmail = email
		} else {
			s.log.WithError(err).WithField("adventure_id", adventure.ID).Warn("failed to look up owner email")
		}
		if profile, err := s.users.GetProfile(ctx, adventure.CreatedBy); err == nil {
			owner.DisplayName = profile.DisplayName(owner.UserEmail)
		}
		out = append([]models.Participant{owner}, out...)
	}
	return out, nil
}

// Remove hard-deletes a participant row. The owner row cannot be removed.
func (s *ParticipantService) Remove(ctx context.Context, adventureID, participantID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM adventure_participants p
		USING adventures a
		WHERE p.id = $1 AND p.adventure_id = $2 AND a.id = p.adventure_id AND p.user_id <> a.created_by
	`, participantID, adventureID)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrParticipantNotFound
	}
	s.events.PublishToAdventure(adventureID, sse.EventParticipants, map[string]any{"removed": participantID})
	return nil
}

// Invitations lists the pending invitations addressed to a user.
func (s *ParticipantService) Invitations(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT p.id, p.adventure_id, a.name, p.added_by, COALESCE(u.email, ''), p.created_at
		FROM adventure_participants p
		JOIN adventures a ON a.id = p.adventure_id AND a.is_active
		LEFT JOIN users u ON u.id = p.added_by
		WHERE p.user_id = $1 AND p.invitation_status = 'pending'
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var out []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(&inv.ParticipantID, &inv.AdventureID, &inv.AdventureName, &inv.InvitedBy, &inv.InviterEmail, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *ParticipantService) Accept(ctx context.Context, participantID, userID uuid.UUID) error {
	var adventureID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE adventure_participants SET invitation_status = 'accepted'
		WHERE id = $1 AND user_id = $2 AND invitation_status = 'pending'
		RETURNING adventure_id
	`, participantID, userID).Scan(&adventureID)
	if err != nil {
		if database.IsNotFound(err) {
			return ErrInvitationNotFound
		}
		return fmt.Errorf("failed to accept invitation: %w", err)
	}
	s.events.PublishToAdventure(adventureID, sse.EventParticipants, map[string]any{"accepted": participantID})
	return nil
}

func (s *ParticipantService) Decline(ctx context.Context, participantID, userID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM adventure_participants
		WHERE id = $1 AND user_id = $2 AND invitation_status = 'pending'
	`, participantID, userID)
	if err != nil {
		return fmt.Errorf("failed to decline invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInvitationNotFound
	}
	return nil
}
