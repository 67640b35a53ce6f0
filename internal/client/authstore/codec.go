package authstore

import (
	"time"

	"github.com/wastewise/wastewise/internal/core/domain"
)

func toRecord(s Session) record {
	u := &storedUser{
		ID:    s.User.ID,
		Name:  s.User.Name,
		Email: s.User.Email,
		Role:  string(s.User.Role),
	}
	if !s.User.CreatedAt.IsZero() {
		u.CreatedAt = s.User.CreatedAt.Format(time.RFC3339Nano)
	}
	return record{Token: s.Token, User: u}
}

// fromRecord rejects a record missing either key.
func fromRecord(rec record) (Session, bool) {
	if rec.Token == "" || rec.User == nil || rec.User.ID == "" {
		return Session{}, false
	}

	user := domain.User{
		ID:    rec.User.ID,
		Name:  rec.User.Name,
		Email: rec.User.Email,
		Role:  domain.Role(rec.User.Role),
	}
	if rec.User.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, rec.User.CreatedAt); err == nil {
			user.CreatedAt = t
		}
	}
	return Session{Token: rec.Token, User: user}, true
}
