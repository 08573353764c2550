package service

import (
	"context"

	"github.com/gigs-work/backend/internal/domain"
	"github.com/gigs-work/backend/internal/repository"
)

type cityService struct {
	cityRepository repository.Cities
}

func newCityService(cityRepository repository.Cities) *cityService {
	return &cityService{
		cityRepository: cityRepository,
	}
}

func (s *cityService) GetAll(ctx context.Context) ([]domain.City, error) {
	return s.cityRepository.GetAll(ctx)
}
