package grounds

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/service/grounds/models"
	"github.com/m04kA/SMC-GroundBooking/internal/testutil"
	"github.com/m04kA/SMC-GroundBooking/pkg/logger"
	"github.com/m04kA/SMC-GroundBooking/pkg/ptr"
)

var (
	admin = domain.Actor{ID: 1, IsAdmin: true}
	user  = domain.Actor{ID: 10}
)

func newService() (*Service, *testutil.Store) {
	store := testutil.NewStore()
	return NewService(store.Grounds(), logger.Discard()), store
}

func TestCreate(t *testing.T) {
	svc, _ := newService()

	created, err := svc.Create(context.Background(), admin, &models.CreateGroundRequest{Name: "  Central  ", Category: "day"})

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Central", created.Name)
	assert.Equal(t, "day", created.Category)
	assert.True(t, created.Active)

	inactive, err := svc.Create(context.Background(), admin, &models.CreateGroundRequest{
		Name:     "Arena",
		Category: "night",
		Active:   ptr.Ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, inactive.Active)

	list, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Grounds, 1)
	assert.Equal(t, "Central", list.Grounds[0].Name)
}

func TestCreate_Rejected(t *testing.T) {
	svc, store := newService()
	store.AddGround(domain.Ground{Name: "Central", Category: domain.CategoryDay, Active: true})

	tests := []struct {
		name    string
		actor   domain.Actor
		req     models.CreateGroundRequest
		wantErr error
	}{
		{name: "not admin", actor: user, req: models.CreateGroundRequest{Name: "North", Category: "day"}, wantErr: domain.ErrPermissionDenied},
		{name: "blank name", actor: admin, req: models.CreateGroundRequest{Name: "   ", Category: "day"}, wantErr: ErrInvalidInput},
		{name: "long name", actor: admin, req: models.CreateGroundRequest{Name: strings.Repeat("a", domain.MaxGroundNameLength+1), Category: "day"}, wantErr: ErrInvalidInput},
		{name: "unknown category", actor: admin, req: models.CreateGroundRequest{Name: "North", Category: "evening"}, wantErr: ErrInvalidCategory},
		{name: "duplicate", actor: admin, req: models.CreateGroundRequest{Name: "Central", Category: "night"}, wantErr: ErrDuplicateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.actor, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdate(t *testing.T) {
	svc, store := newService()
	central := store.AddGround(domain.Ground{Name: "Central", Category: domain.CategoryDay, Active: true})
	store.AddGround(domain.Ground{Name: "Arena", Category: domain.CategoryNight, Active: true})

	updated, err := svc.Update(context.Background(), admin, central.ID, &models.UpdateGroundRequest{Active: ptr.Ptr(false)})

	require.NoError(t, err)
	assert.Equal(t, "Central", updated.Name)
	assert.Equal(t, "day", updated.Category)
	assert.False(t, updated.Active)

	updated, err = svc.Update(context.Background(), admin, central.ID, &models.UpdateGroundRequest{
		Name:     ptr.Ptr("Central East"),
		Category: ptr.Ptr("night"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Central East", updated.Name)
	assert.Equal(t, "night", updated.Category)
	assert.False(t, updated.Active)

	_, err = svc.Update(context.Background(), admin, central.ID, &models.UpdateGroundRequest{Name: ptr.Ptr("Arena")})
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = svc.Update(context.Background(), admin, central.ID, &models.UpdateGroundRequest{Category: ptr.Ptr("")})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.Update(context.Background(), admin, 404, &models.UpdateGroundRequest{Active: ptr.Ptr(true)})
	assert.ErrorIs(t, err, domain.ErrGroundNotFound)

	_, err = svc.Update(context.Background(), user, central.ID, &models.UpdateGroundRequest{Active: ptr.Ptr(true)})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}
