package view

import (
	"github.com/templui/bikeshare/internal/session"
)

// View is one entry of the sidebar menu
type View string

const (
	Home     View = "home"
	Register View = "register"
	Login    View = "login"
	Profile  View = "profile"
	EDA      View = "eda"
	Logout   View = "logout"
)

// Menu lists the views in sidebar order
var Menu = []View{Home, Login, Register, Profile, EDA, Logout}

// Parse maps a menu value to a View. The empty string selects Home.
func Parse(s string) (View, bool) {
	if s == "" {
		return Home, true
	}
	for _, v := range Menu {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// Path is the URL that selects v
func (v View) Path() string {
	if v == Home {
		return "/"
	}
	return "/" + string(v)
}

// Label is the i18n key of the menu entry
func (v View) Label() string {
	return "menu." + string(v)
}

// Screen is the outcome of selecting a view with a given session state.
type Screen struct {
	View View

	// Suppressed means the view was selected but nothing may render in the
	// content area and no account data may be read.
	Suppressed bool

	// State is the session state after the selection
	State session.State
}

// Resolve applies the selection rules: Profile renders only for a
// logged-in session, Logout always resets the session, every other view
// leaves the state untouched.
func Resolve(v View, st session.State) Screen {
	switch v {
	case Profile:
		return Screen{View: v, Suppressed: !st.LoggedIn, State: st}
	case Logout:
		return Screen{View: v, State: st.Logout()}
	default:
		return Screen{View: v, State: st}
	}
}
