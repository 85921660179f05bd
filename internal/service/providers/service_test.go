package providers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/barber-booking/internal/domain"
	"github.com/m04kA/barber-booking/internal/infra/storage/memory"
	"github.com/m04kA/barber-booking/internal/service/providers/models"
	"github.com/m04kA/barber-booking/pkg/logger"
	"github.com/m04kA/barber-booking/pkg/txmanager"
)

func newService() *Service {
	store := memory.NewStore(txmanager.Options{}, memory.WithProviders(memory.DefaultProviders()...))
	return NewService(store.Providers(), logger.Nop())
}

func boolPtr(b bool) *bool { return &b }

func TestService_ListActiveSortedByName(t *testing.T) {
	svc := newService()

	list, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Providers, 3)
	assert.Equal(t, "Andrés Silva", list.Providers[0].DisplayName)
	assert.Equal(t, "Carlos Rodríguez", list.Providers[1].DisplayName)
	assert.Equal(t, "Miguel Ángel", list.Providers[2].DisplayName)
}

func TestService_SaveCreatesAndKeepsActiveFlag(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Save(ctx, &models.SaveProviderRequest{
		UserID: "barber-4", ProviderID: "barber-4", DisplayName: "  Julián Pérez ", Phone: "3000000000",
	})
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.Equal(t, "Julián Pérez", created.DisplayName)

	_, err = svc.Save(ctx, &models.SaveProviderRequest{ProviderID: "barber-4", DisplayName: "Julián Pérez", Active: boolPtr(false)})
	require.NoError(t, err)

	// без флага активность не меняется
	updated, err := svc.Save(ctx, &models.SaveProviderRequest{ProviderID: "barber-4", DisplayName: "Julián P."})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	list, err := svc.ListActive(ctx)
	require.NoError(t, err)
	for _, p := range list.Providers {
		assert.NotEqual(t, "barber-4", p.ID)
	}

	got, err := svc.Get(ctx, "barber-4")
	require.NoError(t, err)
	assert.Equal(t, "Julián P.", got.DisplayName)
}

func TestService_SaveErrors(t *testing.T) {
	svc := newService()

	tests := []struct {
		name    string
		req     models.SaveProviderRequest
		wantErr error
	}{
		{"foreign card", models.SaveProviderRequest{UserID: "barber-2", ProviderID: "barber-1", DisplayName: "X"}, ErrAccessDenied},
		{"empty name", models.SaveProviderRequest{ProviderID: "barber-1", DisplayName: "   "}, domain.ErrInvalidProvider},
		{"long name", models.SaveProviderRequest{ProviderID: "barber-1", DisplayName: strings.Repeat("a", domain.MaxProviderNameLength+1)}, ErrInvalidInput},
		{"long phone", models.SaveProviderRequest{ProviderID: "barber-1", DisplayName: "X", Phone: strings.Repeat("1", domain.MaxPhoneLength+1)}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.Save(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_GetNotFound(t *testing.T) {
	svc := newService()

	_, err := svc.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrProviderNotFound)
}
