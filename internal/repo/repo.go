package repo

import (
	"errors"
	"sync"

	"mergington/internal/model"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadySignedUp  = errors.New("student already signed up")
	ErrNotRegistered    = errors.New("student not registered")
)

// Registry owns every activity record and its participant roster. All reads
// hand out copies, so callers can never mutate registry state behind its
// back. State lives in memory only and resets on restart.
type Registry struct {
	mu         sync.RWMutex
	activities map[string]*model.Activity
}

// NewRegistry constructs a registry populated with the school's fixed
// activity catalog.
func NewRegistry() *Registry {
	r := &Registry{
		activities: make(map[string]*model.Activity),
	}
	r.seed()
	return r
}

func (r *Registry) seed() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activities["Chess Club"] = &model.Activity{
		Description:     "Learn strategies and compete in chess tournaments",
		Schedule:        "Fridays, 3:30 PM - 5:00 PM",
		MaxParticipants: 12,
		Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
	}
	r.activities["Programming Class"] = &model.Activity{
		Description:     "Learn programming fundamentals and build software projects",
		Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
		MaxParticipants: 20,
		Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
	}
	r.activities["Gym Class"] = &model.Activity{
		Description:     "Physical education and sports activities",
		Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
		MaxParticipants: 30,
		Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
	}
}

// List returns a snapshot of every activity keyed by name. Participant
// slices are copied and never nil, so an empty roster encodes as [].
func (r *Registry) List() map[string]model.Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]model.Activity, len(r.activities))
	for name, a := range r.activities {
		participants := make([]string, len(a.Participants))
		copy(participants, a.Participants)
		out[name] = model.Activity{
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    participants,
		}
	}
	return out
}

// SignUp appends email to the activity's roster, preserving signup order.
// max_participants is informational only and is deliberately not checked
// against the roster length.
func (r *Registry) SignUp(activityName, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[activityName]
	if !ok {
		return ErrActivityNotFound
	}
	for _, p := range a.Participants {
		if p == email {
			return ErrAlreadySignedUp
		}
	}
	a.Participants = append(a.Participants, email)
	return nil
}

// Unregister removes exactly one email from the activity's roster, keeping
// the order of the remaining participants.
func (r *Registry) Unregister(activityName, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[activityName]
	if !ok {
		return ErrActivityNotFound
	}
	for i, p := range a.Participants {
		if p == email {
			a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
			return nil
		}
	}
	return ErrNotRegistered
}

// Add registers a whole activity under the given name, replacing any
// existing record. There is no corresponding HTTP endpoint; the catalog is
// extended directly, matching the seed path.
func (r *Registry) Add(name string, activity model.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if activity.Participants == nil {
		activity.Participants = []string{}
	}
	r.activities[name] = &activity
}
