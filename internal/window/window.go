package window

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StoreProbe is the slice of the store gateway the calculator needs.
type StoreProbe interface {
	LatestPublicationDate(ctx context.Context) (*time.Time, error)
}

// Calculator derives how many trailing days of postings to request so a
// re-run with the same terms does not re-download stored postings.
type Calculator struct {
	store  StoreProbe
	logger *zap.Logger
	now    func() time.Time
}

func NewCalculator(store StoreProbe, logger *zap.Logger) *Calculator {
	return &Calculator{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Window returns nil when there is no prior data ("fetch everything"),
// otherwise the whole-day delta since the newest stored posting.
func (c *Calculator) Window(ctx context.Context) (*int, error) {
	latest, err := c.store.LatestPublicationDate(ctx)
	if err != nil {
		return nil, err
	}

	days := Days(c.now(), latest)
	if days == nil {
		c.logger.Info("no prior data, fetching everything")
	} else {
		c.logger.Info("computed fetch window", zap.Int("days", *days))
	}
	return days, nil
}

// Days is the pure delta: whole days between now and the latest stored
// publication date, clamped at zero when the stored date is ahead of now.
func Days(now time.Time, latest *time.Time) *int {
	if latest == nil {
		return nil
	}
	days := int(now.Sub(*latest).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}
