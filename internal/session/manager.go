package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	keyLoggedIn  = "logged_in"
	keyUserEmail = "user_email"
)

// Manager maps a gorilla session onto State
type Manager struct {
	store sessions.Store
	name  string
}

func NewManager(store sessions.Store, name string) *Manager {
	return &Manager{store: store, name: name}
}

// Load returns the client's state and whether the session was just created.
func (m *Manager) Load(r *http.Request) (State, bool, error) {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		return State{}, true, err
	}

	loggedIn, _ := sess.Values[keyLoggedIn].(bool)
	email, _ := sess.Values[keyUserEmail].(string)

	return State{LoggedIn: loggedIn, ActiveEmail: email}, sess.IsNew, nil
}

func (m *Manager) Save(w http.ResponseWriter, r *http.Request, st State) error {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		return err
	}

	sess.Values[keyLoggedIn] = st.LoggedIn
	sess.Values[keyUserEmail] = st.ActiveEmail

	return sess.Save(r, w)
}
