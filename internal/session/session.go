package session

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// State is where a not-yet-registered user stands in the registration flow.
type State int

const (
	// StateAwaitingRole: the user was asked whether they are a maid or a
	// supervisor.
	StateAwaitingRole State = iota + 1
	// StateAwaitingName: the user picked the maid role and was asked for
	// their display name.
	StateAwaitingName
)

// Store keeps per-chat registration sessions in memory. Sessions expire
// after the configured TTL so an abandoned flow cannot block a chat identity
// forever; expiry simply reverts the user to unregistered.
type Store struct {
	c *cache.Cache
}

// NewStore creates a session store whose entries expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{c: cache.New(ttl, 2*ttl)}
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// Get returns the registration state for a chat identity, if one is active.
func (s *Store) Get(chatID int64) (State, bool) {
	v, found := s.c.Get(key(chatID))
	if !found {
		return 0, false
	}
	return v.(State), true
}

// Set stores the registration state, resetting the expiry clock.
func (s *Store) Set(chatID int64, state State) {
	s.c.SetDefault(key(chatID), state)
}

// Clear removes the session once registration completes or is abandoned.
func (s *Store) Clear(chatID int64) {
	s.c.Delete(key(chatID))
}
