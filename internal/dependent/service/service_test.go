package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taxfill/internal/dependent/models"
	"taxfill/internal/dependent/store/dependent"
	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
)

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(dependent.NewInMemory())
	require.NoError(t, err)
	return svc
}

func TestCreateAndListDependents(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	userID := id.NewUserID()

	created, err := svc.Create(ctx, userID, CreateInput{
		Name:         "Sam Doe",
		BirthDate:    time.Date(2015, 3, 14, 0, 0, 0, 0, time.UTC),
		Relationship: models.RelationshipChild,
	})
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())

	listed, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, created.ID, listed[0].ID)

	other, err := svc.List(ctx, id.NewUserID())
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestCreateDependentValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	userID := id.NewUserID()

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing name", CreateInput{
			BirthDate:    time.Date(2015, 3, 14, 0, 0, 0, 0, time.UTC),
			Relationship: models.RelationshipChild,
		}},
		{"future birth date", CreateInput{
			Name:         "Sam",
			BirthDate:    time.Now().Add(24 * time.Hour),
			Relationship: models.RelationshipChild,
		}},
		{"unknown relationship", CreateInput{
			Name:         "Sam",
			BirthDate:    time.Date(2015, 3, 14, 0, 0, 0, 0, time.UTC),
			Relationship: "ROOMMATE",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, userID, tc.input)
			require.Error(t, err)
			require.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		})
	}
}
