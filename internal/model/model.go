package model

// Activity is a single extracurricular offering. The activity name is the
// registry key and is not repeated inside the record.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}
