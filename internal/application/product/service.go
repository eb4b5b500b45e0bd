package product

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/minimart/minimart/internal/domain/product"
	"github.com/minimart/minimart/internal/observability"
	"github.com/minimart/minimart/internal/observability/logctx"
	"github.com/shopspring/decimal"
)

const componentProductService = "product_service"

// IDGenerator supplies identifiers for new products.
type IDGenerator interface {
	NewID() string
}

type Service struct {
	repo        domain.Repository
	idGenerator IDGenerator
	log         observability.Logger
}

func NewService(repo domain.Repository, idGen IDGenerator, logger observability.Logger) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Service{
		repo:        repo,
		idGenerator: idGen,
		log:         logger.With(observability.F("component", componentProductService)),
	}
}

type CreateProductInput struct {
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
}

// Create registers a catalog product; the name must not already be taken.
func (s *Service) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	logger := logctx.FromOr(ctx, s.log)

	existing, err := s.repo.FindByName(ctx, input.Name)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("product: lookup by name: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}

	entity, err := domain.New(s.idGenerator.NewID(), input.Name, input.UnitPrice, input.Stock)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, entity); err != nil {
		logger.Error("product_save_failed",
			observability.F("product_id", entity.ID),
			observability.F("error", err.Error()),
		)
		return nil, fmt.Errorf("product: save: %w", err)
	}

	logger.Info("product_created",
		observability.F("product_id", entity.ID),
		observability.F("stock", entity.Stock),
	)
	return entity, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, errors.New("product: id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.FindAll(ctx)
}
