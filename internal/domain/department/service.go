package department

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/elettil/hospital/internal/platform/collection"
)

// PageSize is how many departments show before "View All Departments". The
// department grid does not change its page size with the viewport.
const PageSize = 4

type Service struct {
	fetcher collection.Fetcher[Department]
	tiers   collection.Tiers
	logger  zerolog.Logger
}

func NewService(fetcher collection.Fetcher[Department], logger zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		tiers:   collection.FixedTiers(PageSize),
		logger:  logger.With().Str("component", "departments").Logger(),
	}
}

// NewController returns an unmounted departments view.
func (s *Service) NewController() *collection.Controller[Department] {
	return collection.NewController(collection.Config[Department]{
		Name:     CollectionName,
		Fetcher:  s.fetcher,
		Fallback: Fallback(),
		Key:      Key,
		Tiers:    s.tiers,
		Logger:   s.logger,
	})
}

// View mounts a controller for one render and returns the department cards.
func (s *Service) View(ctx context.Context, state collection.ViewState) (collection.View[Card], error) {
	c := s.NewController()
	defer c.Close()

	if err := c.Initialize(ctx); err != nil {
		return collection.View[Card]{}, err
	}
	// Departments have no filter bar.
	state.Filter = ""
	collection.Apply(c, state)
	return Cards(c.View()), nil
}

// Cards maps a department view onto cards, alternating accents by position.
func Cards(v collection.View[Department]) collection.View[Card] {
	i := 0
	return collection.MapView(v, func(d Department) Card {
		card := NewCard(d, i)
		i++
		return card
	})
}
