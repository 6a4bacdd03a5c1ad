package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/legends-core/internal/domain/builders"
	"github.com/ersonp/legends-core/internal/domain/entities"
	"github.com/ersonp/legends-core/internal/domain/services"
	"github.com/ersonp/legends-core/internal/infrastructure/config"
	"github.com/ersonp/legends-core/internal/infrastructure/relationaldb/sqlite"
)

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		path string
		want builders.DocKind
	}{
		{"region1-00250-01-01-legends.xml", builders.DocBase},
		{"region1-00250-01-01-legends_plus.xml", builders.DocPlus},
		{"/exports/world-LEGENDS_PLUS.XML", builders.DocPlus},
		{"legends.xml", builders.DocBase},
		{"/some/legends_plus/export.xml", builders.DocBase},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyFile(tt.path), tt.path)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportHandler_Handle(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "region1-legends.xml", `<df_world>
<name>Orid Tamun</name>
<sites>
<site><id>7</id><name>boltedspire</name><type>fortress</type></site>
</sites>
</df_world>`)
	plus := writeFile(t, dir, "region1-legends_plus.xml", `<df_world>
<name>Orid Tamun</name>
<altname>The Planar Universe</altname>
<sites>
<site><id>7</id><civ_id>12</civ_id></site>
</sites>
<entities>
<entity><id>12</id><name>the bronze confederacy</name></entity>
</entities>
</df_world>`)

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: filepath.Join(dir, "legends.db")})
	require.NoError(t, err)
	defer store.Close()

	service := services.NewImportService(store, nil, services.ImportOptions{})
	handler := NewImportHandler(service)

	// plus listed first; the handler must still import base first
	report, err := handler.Handle(context.Background(), []string{plus, base})
	require.NoError(t, err)

	require.NotNil(t, report.WorldName)
	assert.Equal(t, "Orid Tamun", *report.WorldName)
	assert.Equal(t, int64(1), report.Counts[entities.TableSites])
	assert.Equal(t, int64(1), report.Counts[entities.TableEntities])
	assert.Zero(t, report.Dangling)

	// the shared site is written once per document and merged into one row
	assert.Equal(t, int64(3), report.Written)

	world, err := store.WorldInfo(context.Background())
	require.NoError(t, err)
	require.NotNil(t, world)
	assert.Equal(t, "The Planar Universe", *world.AltName)
}

func TestImportHandler_Handle_ReimportIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "legends.xml", `<df_world>
<regions>
<region><id>0</id><name>the plains of prestige</name></region>
<region><id>1</id><name>the jungle of scars</name></region>
</regions>
</df_world>`)

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: filepath.Join(dir, "legends.db")})
	require.NoError(t, err)
	defer store.Close()

	handler := NewImportHandler(services.NewImportService(store, nil, services.ImportOptions{}))

	first, err := handler.Handle(context.Background(), []string{base})
	require.NoError(t, err)

	second, err := handler.Handle(context.Background(), []string{base})
	require.NoError(t, err)

	assert.Equal(t, first.Counts, second.Counts)
	assert.Equal(t, int64(2), second.Counts[entities.TableRegions])
}

func TestImportHandler_Handle_NoFiles(t *testing.T) {
	handler := NewImportHandler(nil)
	_, err := handler.Handle(context.Background(), nil)
	require.Error(t, err)
}

func TestImportHandler_Handle_MissingFile(t *testing.T) {
	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "legends.db")})
	require.NoError(t, err)
	defer store.Close()

	handler := NewImportHandler(services.NewImportService(store, nil, services.ImportOptions{}))
	_, err = handler.Handle(context.Background(), []string{"/does/not/exist.xml"})
	require.Error(t, err)
}
