package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/barber-booking/internal/domain"
)

func TestUpsertQuery(t *testing.T) {
	specialty := "Fade & Designs"

	query, args, err := upsertQuery(&domain.Provider{
		ID:          "barber-1",
		DisplayName: "Carlos Rodríguez",
		Phone:       "3001234567",
		Specialty:   &specialty,
		Active:      true,
	})
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO providers (id,display_name,phone,specialty,avatar,active) VALUES ($1,$2,$3,$4,$5,$6)")
	assert.Contains(t, query, "ON CONFLICT (id) DO UPDATE")
	assert.Contains(t, query, "active = EXCLUDED.active")
	assert.Contains(t, query, "RETURNING created_at, updated_at")
	require.Len(t, args, 6)
	assert.Equal(t, "barber-1", args[0])
	assert.Equal(t, true, args[5])
}
