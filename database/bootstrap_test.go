package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

func TestOpenMemoryMigratesEveryModel(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	for _, m := range Models {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
}

func TestOpenFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farmlink.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.Crop{Name: "Sorghum", PlantingSeasons: []string{"December"}}).Error)
	sqlDB, _ := db.DB()
	require.NoError(t, sqlDB.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	var got entities.Crop
	require.NoError(t, db.First(&got, "name = ?", "Sorghum").Error)
	assert.Equal(t, []string{"December"}, got.PlantingSeasons)
	assert.NotEmpty(t, got.ID)
}
