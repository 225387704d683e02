package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/elettil/hospital/internal/platform/collection"
)

// ErrAdminUnavailable is returned by admin operations when the directory is
// not backed by a writable database.
var ErrAdminUnavailable = errors.New("doctor administration requires the postgres directory source")

type Service struct {
	fetcher collection.Fetcher[Doctor]
	images  *ImageResolver
	tiers   collection.Tiers
	logger  zerolog.Logger
	repo    Repository
}

func NewService(fetcher collection.Fetcher[Doctor], images *ImageResolver, logger zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		images:  images,
		tiers:   collection.DefaultTiers,
		logger:  logger.With().Str("component", "doctors").Logger(),
	}
}

// SetRepository enables the admin operations.
func (s *Service) SetRepository(repo Repository) {
	s.repo = repo
}

// SetTiers overrides the page-size tiers of controllers created afterwards.
func (s *Service) SetTiers(t collection.Tiers) {
	s.tiers = t
}

// Images returns the resolver used for cards.
func (s *Service) Images() *ImageResolver {
	return s.images
}

// NewController returns an unmounted doctors view.
func (s *Service) NewController() *collection.Controller[Doctor] {
	return collection.NewController(collection.Config[Doctor]{
		Name:     CollectionName,
		Fetcher:  s.fetcher,
		Fallback: Fallback(),
		Key:      Key,
		Category: Category,
		Tiers:    s.tiers,
		Logger:   s.logger,
	})
}

// View mounts a controller for one render, replays state onto it and returns
// the resulting cards.
func (s *Service) View(ctx context.Context, state collection.ViewState) (collection.View[Card], error) {
	c := s.NewController()
	defer c.Close()

	if err := c.Initialize(ctx); err != nil {
		return collection.View[Card]{}, err
	}
	collection.Apply(c, state)
	return collection.MapView(c.View(), s.Card), nil
}

// Card renders d with this service's image resolver.
func (s *Service) Card(d Doctor) Card {
	return NewCard(d, s.images)
}

// -- Administration --

func validate(d *Doctor) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Specialization = strings.TrimSpace(d.Specialization)
	d.Education = strings.TrimSpace(d.Education)
	d.Image = strings.TrimSpace(d.Image)
	if d.Name == "" {
		return fmt.Errorf("doctor name is required")
	}
	if d.OrderIndex != nil && *d.OrderIndex < 0 {
		return fmt.Errorf("order_index must not be negative")
	}
	return nil
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if s.repo == nil {
		return ErrAdminUnavailable
	}
	if err := validate(d); err != nil {
		return err
	}
	d.Active = true
	return s.repo.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	if s.repo == nil {
		return nil, ErrAdminUnavailable
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if s.repo == nil {
		return ErrAdminUnavailable
	}
	if err := validate(d); err != nil {
		return err
	}
	return s.repo.Update(ctx, d)
}

// DeactivateDoctor hides a doctor from the public views without deleting the
// record.
func (s *Service) DeactivateDoctor(ctx context.Context, id uuid.UUID) error {
	if s.repo == nil {
		return ErrAdminUnavailable
	}
	return s.repo.Deactivate(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	if s.repo == nil {
		return nil, 0, ErrAdminUnavailable
	}
	return s.repo.List(ctx, limit, offset)
}
