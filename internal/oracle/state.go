package oracle

// StateKeyImageURL is the invocation-state key the vision image tool writes
// and the formatting stage reads.
const StateKeyImageURL = "generated_image_url"

// State is ephemeral per-request key-value data passed explicitly between the
// two pipeline stages. Created empty at the start of a run, discarded at the
// end. Each run owns its own instance; no locking needed.
type State struct {
	values map[string]string
}

// NewState returns an empty invocation state.
func NewState() *State {
	return &State{values: make(map[string]string)}
}

// Set records a value under key.
func (s *State) Set(key, value string) {
	s.values[key] = value
}

// Get returns the value for key and whether it was set.
func (s *State) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of recorded values.
func (s *State) Len() int {
	return len(s.values)
}
