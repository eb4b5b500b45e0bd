package customer

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/minimart/minimart/internal/domain/customer"
	"github.com/minimart/minimart/internal/observability"
	"github.com/minimart/minimart/internal/observability/logctx"
)

const componentCustomerService = "customer_service"

// IDGenerator supplies identifiers for new customers.
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
		log:         logger.With(observability.F("component", componentCustomerService)),
	}
}

type CreateCustomerInput struct {
	Name  string
	Email string
}

// Create registers a customer; the email must not already be in use.
func (s *Service) Create(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	logger := logctx.FromOr(ctx, s.log)

	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("customer: lookup by email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}

	entity, err := domain.New(s.idGenerator.NewID(), input.Name, input.Email)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, entity); err != nil {
		logger.Error("customer_save_failed",
			observability.F("customer_id", entity.ID),
			observability.F("error", err.Error()),
		)
		return nil, fmt.Errorf("customer: save: %w", err)
	}

	logger.Info("customer_created", observability.F("customer_id", entity.ID))
	return entity, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	if id == "" {
		return nil, errors.New("customer: id is required")
	}
	return s.repo.FindByID(ctx, id)
}
