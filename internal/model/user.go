package model

// Gender values offered by the profile and registration forms.
// The store does not enforce them.
const (
	GenderUnspecified = "unspecified"
	GenderMale        = "male"
	GenderFemale      = "female"
)

var Genders = []string{GenderUnspecified, GenderMale, GenderFemale}

type User struct {
	Email        string `db:"email"`
	Password     string `db:"password"` // hex digest, never plaintext
	Name         string `db:"name"`
	Gender       string `db:"gender"`
	Phone        string `db:"phone"`
	ProfileImage string `db:"profile_image"` // storage key, empty when no image

	// Computed fields (not in database)
	ProfileImageURL string `db:"-"`
}

func (u *User) HasProfileImage() bool {
	return u.ProfileImage != ""
}

// ValidGender reports whether g is one of Genders.
func ValidGender(g string) bool {
	for _, v := range Genders {
		if v == g {
			return true
		}
	}
	return false
}

// legacyGenders maps the labels older databases stored verbatim
var legacyGenders = map[string]string{
	"선택 안함": GenderUnspecified,
	"남성":    GenderMale,
	"여성":    GenderFemale,
}

// NormalizeGender maps a stored gender to one of Genders. Unknown values
// become GenderUnspecified.
func NormalizeGender(g string) string {
	if ValidGender(g) {
		return g
	}
	if v, ok := legacyGenders[g]; ok {
		return v
	}
	return GenderUnspecified
}
