package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateDSN(t *testing.T) {
	got, err := migrateDSN("postgres://pos:secreto@db:5432/tienda?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://pos:secreto@db:5432/tienda?sslmode=disable", got)

	got, err = migrateDSN("postgresql://db/tienda")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://db/tienda", got)

	_, err = migrateDSN("mysql://db/tienda")
	assert.Error(t, err)
}

func TestMigracionesEmbebidas(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "migrations/0001_init.up.sql")
	assert.Contains(t, files, "migrations/0001_init.down.sql")
}
