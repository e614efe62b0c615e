package normalize

import "github.com/sells-group/roster-cli/internal/model"

// Signup applies all normalizers to a raw signup. School fields pass
// through untouched: the school ID is an opaque key and the display name
// is informational only.
func Signup(in model.SignupInfo) model.NormalizedSignup {
	first, last := FullName(in.FullName)
	return model.NormalizedSignup{
		FirstName:  first,
		LastName:   last,
		Phone:      Phone(in.Phone),
		Email:      Email(in.Email),
		SchoolID:   in.SchoolID,
		SchoolName: in.SchoolName,
	}
}
