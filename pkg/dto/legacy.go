package dto

type LegacyVoteRequest struct {
	VoteType string  `json:"vote_type"`
	Comment  *string `json:"comment,omitempty"`
}

type FirstLoginEvent struct {
	User      string `json:"user"`
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
	Time      string `json:"time"`
}

type FirstLoginsResponse struct {
	Today []FirstLoginEvent `json:"today"`
	Count int               `json:"count"`
}
