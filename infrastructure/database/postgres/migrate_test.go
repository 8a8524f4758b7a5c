package postgres

import (
	"io"
	"io/fs"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbutidas(t *testing.T) {
	source, err := iofs.New(migrationsFS, "migrations")
	require.NoError(t, err)
	defer source.Close()

	version, err := source.First()
	require.NoError(t, err)

	var versions []uint
	for {
		versions = append(versions, version)

		up, _, err := source.ReadUp(version)
		require.NoError(t, err, "versão %d sem up", version)
		body, err := io.ReadAll(up)
		up.Close()
		require.NoError(t, err)
		assert.NotEmpty(t, body)

		down, _, err := source.ReadDown(version)
		require.NoError(t, err, "versão %d sem down", version)
		down.Close()

		next, err := source.Next(version)
		if err != nil {
			break
		}
		version = next
	}

	assert.Equal(t, []uint{1, 2, 3, 4}, versions)
}

func TestMigrations_CamposLivresSemLimite(t *testing.T) {
	body, err := fs.ReadFile(migrationsFS, "migrations/000004_widen_text_columns.up.sql")
	require.NoError(t, err)

	// data ISO com nanossegundos e fuso passa de 32 caracteres
	for _, column := range []string{"client_name", "contact", "service_date", "service_type", "value", "status", "name", "phone", "city", "neighborhood", "email"} {
		assert.Regexp(t, `ALTER COLUMN `+column+`\s+TYPE TEXT`, string(body))
	}
}
