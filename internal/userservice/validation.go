package userservice

import (
	"regexp"

	"github.com/sushihentaime/startuphub/internal/common"
	"github.com/sushihentaime/startuphub/internal/permission"
)

var (
	EmailRX = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func validateEmail(v *common.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(EmailRX.MatchString(email), "email", "must be a valid email address")
}

func validateProfile(v *common.Validator, in ProfileInput) {
	if in.FullName != nil {
		v.Check(*in.FullName != "", "full_name", "must be provided")
		v.Check(v.CheckStringLength(*in.FullName, 0, 100), "full_name", "must not be more than 100 characters long")
	}

	if in.Bio != nil {
		v.Check(v.CheckStringLength(*in.Bio, 0, 500), "bio", "must not be more than 500 characters long")
	}

	if in.AvatarURL != nil && *in.AvatarURL != "" {
		v.Check(common.IsHTTPURL(*in.AvatarURL), "avatar_url", "must be a valid http or https URL")
	}
}

func validateRole(v *common.Validator, role permission.Role) {
	v.Check(role != "", "role", "must be provided")
	v.Check(role.Valid(), "role", "must be one of admin, founder or user")
}
