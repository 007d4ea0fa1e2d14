package session

// State is the per-client login snapshot. Transitions return a new value
// instead of mutating the receiver.
type State struct {
	LoggedIn    bool
	ActiveEmail string
}

func (s State) Login(email string) State {
	return State{LoggedIn: true, ActiveEmail: email}
}

// Logout resets to the initial state whatever the current one is.
func (s State) Logout() State {
	return State{}
}
