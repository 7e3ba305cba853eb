package service

import (
	"context"
	"fmt"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
)

type profileLookup func(ctx context.Context, id string) (any, error)

// ProfileResolver dispatches a ProfileRef to the repository for its kind.
type ProfileResolver struct {
	lookups map[domain.ProfileKind]profileLookup
}

func NewProfileResolver(patients ports.PatientRepository, professionals ports.ProfessionalRepository) *ProfileResolver {
	return &ProfileResolver{
		lookups: map[domain.ProfileKind]profileLookup{
			domain.ProfilePatient: func(ctx context.Context, id string) (any, error) {
				p, err := patients.FindByID(ctx, id)
				if err != nil {
					return nil, err
				}
				return p, nil
			},
			domain.ProfileProfessional: func(ctx context.Context, id string) (any, error) {
				p, err := professionals.FindByID(ctx, id)
				if err != nil {
					return nil, err
				}
				return p, nil
			},
		},
	}
}

func (r *ProfileResolver) Resolve(ctx context.Context, ref domain.ProfileRef) (any, error) {
	lookup, ok := r.lookups[ref.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown profile kind %q", ref.Kind)
	}
	return lookup(ctx, ref.ID)
}
