package user

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// reservedUsernames are top-level URL segments; a profile at /<name>/ would
// be shadowed by the static route.
var reservedUsernames = map[string]struct{}{
	"about":  {},
	"admin":  {},
	"auth":   {},
	"follow": {},
	"group":  {},
	"health": {},
	"new":    {},
}

var ErrUsernameReserved = errors.New("this username is reserved")

func notReserved(value interface{}) error {
	name, _ := value.(string)
	if _, ok := reservedUsernames[strings.ToLower(name)]; ok {
		return ErrUsernameReserved
	}
	return nil
}

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(1, 150).Error("username must be at most 150 characters"),
			validation.Match(usernamePattern).Error("letters, digits and @/./+/-/_ only"),
			validation.By(notReserved),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be 8-128 characters"),
		),
	)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required.Error("username is required")),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}
