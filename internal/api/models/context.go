package models

import (
	"fmt"

	"github.com/breatheroute/phri/internal/fusion"
)

// ContextFuseRequest is the body of POST /v1/context:fuse. A zero
// environment.observedAt means now.
type ContextFuseRequest struct {
	Environment fusion.Environment `json:"environment"`
	Location    fusion.Location    `json:"location"`
	Activity    fusion.Activity    `json:"activity"`
	User        fusion.User        `json:"user"`
}

const maxListItems = 20

// Validate checks the request.
func (r ContextFuseRequest) Validate() []FieldError {
	errs := validateProfile("user.profile", r.User.Profile)
	if n := len(r.Location.NearbySources); n > maxListItems {
		errs = append(errs, FieldError{
			Field:   "location.nearbySources",
			Message: fmt.Sprintf("at most %d entries are accepted", maxListItems),
			Code:    CodeTooMany,
		})
	}
	if n := len(r.User.Symptoms); n > maxListItems {
		errs = append(errs, FieldError{
			Field:   "user.symptoms",
			Message: fmt.Sprintf("at most %d entries are accepted", maxListItems),
			Code:    CodeTooMany,
		})
	}
	return errs
}
