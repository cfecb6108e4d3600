package services

import (
	"context"

	"github.com/dimitrije/tripvote-api/internal/models"
	"github.com/dimitrije/tripvote-api/internal/votes"
	"github.com/google/uuid"
)

// AdventureDetail is the whole voting page of one adventure as seen by one user.
type AdventureDetail struct {
	Adventure    *models.Adventure      `json:"adventure"`
	Destinations []models.Destination   `json:"destinations"`
	Votes        []models.Vote          `json:"votes"`
	Results      []votes.Tally          `json:"results"`
	MyVotes      map[string]models.Vote `json:"my_votes"`
	Participants []models.Participant   `json:"participants"`
	Creators     []models.Creator       `json:"creators"`
}

type DetailService struct {
	adventures   *AdventureService
	destinations *DestinationService
	votes        *VoteService
	participants *ParticipantService
}

func NewDetailService(adventures *AdventureService, destinations *DestinationService, votes *VoteService, participants *ParticipantService) *DetailService {
	return &DetailService{
		adventures:   adventures,
		destinations: destinations,
		votes:        votes,
		participants: participants,
	}
}

func (s *DetailService) Get(ctx context.Context, adventureID, viewerID uuid.UUID) (*AdventureDetail, error) {
	adventure, err := s.adventures.Get(ctx, adventureID)
	if err != nil {
		return nil, err
	}

	dests, err := s.destinations.List(ctx, adventureID)
	if err != nil {
		return nil, err
	}

	list, err := s.votes.List(ctx, adventureID)
	if err != nil {
		return nil, err
	}

	participants, err := s.participants.List(ctx, adventure)
	if err != nil {
		return nil, err
	}

	creators, err := s.adventures.Creators(ctx, adventureID)
	if err != nil {
		return nil, err
	}

	mine := make(map[string]models.Vote)
	for _, v := range list {
		if v.UserID == viewerID {
			mine[v.DestinationID.String()] = v
		}
	}

	return &AdventureDetail{
		Adventure:    adventure,
		Destinations: dests,
		Votes:        list,
		Results:      Tally(list),
		MyVotes:      mine,
		Participants: participants,
		Creators:     creators,
	}, nil
}
