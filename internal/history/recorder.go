package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridian-live/meridian/internal/event"
	"github.com/meridian-live/meridian/internal/worldmap"
)

// Recorder subscribes to celebration events and writes one record per city
// transition. Bus dispatch is synchronous on the publisher's goroutine, so
// the insert itself must never call back into the map controller.
type Recorder struct {
	store       *Store
	logger      *zap.Logger
	unsubscribe func()
}

// NewRecorder attaches a recorder to the bus.
func NewRecorder(bus *event.Bus, store *Store, logger *zap.Logger) *Recorder {
	r := &Recorder{store: store, logger: logger}
	r.unsubscribe = bus.Subscribe(worldmap.TopicCelebration, r.handle)
	return r
}

// Close detaches the recorder from the bus.
func (r *Recorder) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}

func (r *Recorder) handle(ctx context.Context, e event.Event) {
	celebration, ok := e.Payload.(worldmap.CelebrationEvent)
	if !ok {
		return
	}

	for _, city := range celebration.Cities {
		rec := Record{
			ID:           uuid.NewString(),
			CityID:       city.ID,
			CityName:     city.Name,
			Timezone:     city.Timezone,
			LocalDate:    localDate(city.Timezone, celebration.Instant),
			CelebratedAt: celebration.Instant,
		}
		if err := r.store.Insert(ctx, rec); err != nil {
			r.logger.Error("failed to record celebration",
				zap.String("city", city.ID),
				zap.Error(err),
			)
			continue
		}
		r.logger.Debug("celebration recorded",
			zap.String("city", city.ID),
			zap.String("local_date", rec.LocalDate),
		)
	}
}

// localDate renders the instant as a calendar date in the city's timezone,
// falling back to UTC when the zone does not load.
func localDate(timezone string, instant time.Time) string {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return instant.In(loc).Format("2006-01-02")
}
