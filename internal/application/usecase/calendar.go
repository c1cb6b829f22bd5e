package usecase

import (
	"time"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/domain/model"
)

// Calendar fixes the business timezone and the clock that "today" is observed
// from. The zero value uses UTC and the wall clock.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Calendar) now() time.Time {
	if c.Now == nil {
		return time.Now().UTC()
	}
	return c.Now().UTC()
}

func (c Calendar) today() time.Time {
	return model.Today(c.now(), c.loc())
}
