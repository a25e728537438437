package tracker

import (
	"net/mail"
	"strings"

	"github.com/brk3/wellnest/internal/clock"
	"github.com/brk3/wellnest/internal/logger"
	"github.com/brk3/wellnest/pkg/wellness"
)

type ProfileInput struct {
	Timezone *string `json:"timezone"`
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

// Profile returns the stored user, or a new one carrying the resolved default
// timezone when none exists yet.
func (t *Tracker) Profile(userID string) (wellness.User, error) {
	u, ok, err := t.store.GetUser(userID)
	if err != nil {
		return wellness.User{}, upstream("get user", err)
	}
	if ok {
		if u.Timezone == "" {
			if u.Timezone, err = t.svc.Timezone(userID); err != nil {
				return wellness.User{}, err
			}
		}
		return u, nil
	}
	tz, err := t.svc.Timezone(userID)
	if err != nil {
		return wellness.User{}, err
	}
	return wellness.User{ID: userID, Timezone: tz}, nil
}

// UpdateProfile applies the non-nil fields of in. The timezone must be a
// loadable IANA name.
func (t *Tracker) UpdateProfile(userID string, in ProfileInput) (wellness.User, error) {
	u, ok, err := t.store.GetUser(userID)
	if err != nil {
		return wellness.User{}, upstream("get user", err)
	}
	if !ok {
		u = wellness.User{ID: userID, CreatedAt: t.now()}
	}

	if in.Timezone != nil {
		tz := strings.TrimSpace(*in.Timezone)
		if !clock.ValidTimezone(tz) {
			return wellness.User{}, invalidf("unknown timezone %q", tz)
		}
		u.Timezone = tz
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				return wellness.User{}, invalidf("email: %v", err)
			}
		}
		u.Email = email
	}
	if in.FullName != nil {
		u.FullName = strings.TrimSpace(*in.FullName)
	}

	if err := t.store.PutUser(u); err != nil {
		return wellness.User{}, upstream("put user", err)
	}
	logger.Info("Profile updated", "user_id", userID, "timezone", u.Timezone)
	return u, nil
}
