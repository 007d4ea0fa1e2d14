package pages

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/templui/bikeshare/internal/eda"
	"github.com/templui/bikeshare/internal/model"
	"github.com/templui/bikeshare/internal/service"
	"github.com/templui/bikeshare/internal/view"
)

type homeData struct {
	Title   string
	Content template.HTML
}

// Home shows the project overview. content may be nil.
func Home(content *service.ContentPage) templ.Component {
	data := homeData{}
	if content != nil {
		data.Title = content.Title
		// Rendered from markdown files shipped with the app
		data.Content = template.HTML(content.Content)
	}
	return page(view.Home, "home", nil, data)
}

// RegisterForm holds the values echoed back into the registration form
type RegisterForm struct {
	Email  string
	Name   string
	Gender string
	Phone  string
}

type registerData struct {
	Genders []string
	Form    RegisterForm
}

func Register(form RegisterForm, flash *Flash) templ.Component {
	if form.Gender == "" {
		form.Gender = model.GenderUnspecified
	}
	return page(view.Register, "register", flash, registerData{
		Genders: model.Genders,
		Form:    form,
	})
}

type loginData struct {
	Email string
}

func Login(email string, flash *Flash) templ.Component {
	return page(view.Login, "login", flash, loginData{Email: email})
}

type profileData struct {
	Genders []string
	User    *model.User
}

// Profile shows the edit form pre-filled from user
func Profile(user *model.User, flash *Flash) templ.Component {
	return page(view.Profile, "profile", flash, profileData{
		Genders: model.Genders,
		User:    user,
	})
}

// EDAResult is an analyzed upload ready for display
type EDAResult struct {
	Filename string
	Rows     int
	Preview  eda.Preview
	Charts   []eda.Chart
}

// EDA shows the upload form and, when result is set, the analysis.
func EDA(result *EDAResult, flash *Flash) templ.Component {
	return page(view.EDA, "eda", flash, result)
}

func Logout() templ.Component {
	return page(view.Logout, "logout", Info("logout.done"), nil)
}

// Suppressed renders the layout with an empty content area
func Suppressed(v view.View) templ.Component {
	return page(v, "suppressed", nil, nil)
}

func NotFound() templ.Component {
	return page("", "notfound", nil, nil)
}
