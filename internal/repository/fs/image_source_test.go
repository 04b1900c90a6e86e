package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DRSN-tech/indexer-backend/internal/cfg"
	"github.com/DRSN-tech/indexer-backend/internal/domain"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func newTestSource(dir string) *ImageSource {
	return NewImageSource(&cfg.IndexerCfg{
		ImageDir:         dir,
		ProductDirPrefix: "prod_",
		ImageExtensions:  []string{"jpg", "jpeg", "png", "bmp", "gif"},
	})
}

func collect(t *testing.T, source *ImageSource) []*domain.ImageAsset {
	t.Helper()

	var assets []*domain.ImageAsset
	err := source.Walk(context.Background(), func(asset *domain.ImageAsset) error {
		assets = append(assets, asset)
		return nil
	})
	require.NoError(t, err)
	return assets
}

func TestImageSource_ProductIDFromDirName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "prod_42", "front.jpg"), []byte("jpg-bytes"))

	assets := collect(t, newTestSource(dir))
	require.Len(t, assets, 1)

	assert.Equal(t, "42", assets[0].ProductID)
	assert.Equal(t, "front", assets[0].ImageID)
	assert.Equal(t, []byte("jpg-bytes"), assets[0].Bytes)
}

func TestImageSource_WalksNestedTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "prod_1", "a.png"), []byte("a"))
	writeFile(t, filepath.Join(dir, "prod_2", "b.jpeg"), []byte("b"))
	writeFile(t, filepath.Join(dir, "archive", "prod_3", "c.gif"), []byte("c"))

	assets := collect(t, newTestSource(dir))
	require.Len(t, assets, 3)

	ids := make(map[string]string)
	for _, asset := range assets {
		ids[asset.ProductID] = asset.ImageID
	}
	assert.Equal(t, map[string]string{"1": "a", "2": "b", "3": "c"}, ids)
}

func TestImageSource_SkipsUnknownExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "prod_1", "photo.jpg"), []byte("x"))
	writeFile(t, filepath.Join(dir, "prod_1", "notes.txt"), []byte("x"))
	writeFile(t, filepath.Join(dir, "prod_1", "raw.tiff"), []byte("x"))

	assets := collect(t, newTestSource(dir))
	require.Len(t, assets, 1)
	assert.Equal(t, "photo", assets[0].ImageID)
}

func TestImageSource_ExtensionCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "prod_1", "UPPER.JPG"), []byte("x"))

	assets := collect(t, newTestSource(dir))
	require.Len(t, assets, 1)
	assert.Equal(t, "UPPER", assets[0].ImageID)
}

func TestImageSource_SkipsRootLevelFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "stray.jpg"), []byte("x"))
	writeFile(t, filepath.Join(dir, "prod_1", "ok.jpg"), []byte("x"))

	assets := collect(t, newTestSource(dir))
	require.Len(t, assets, 1)
	assert.Equal(t, "ok", assets[0].ImageID)
}

func TestImageSource_DirWithoutPrefixKeptAsIs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "legacy42", "x.png"), []byte("x"))

	assets := collect(t, newTestSource(dir))
	require.Len(t, assets, 1)
	assert.Equal(t, "legacy42", assets[0].ProductID)
}

func TestImageSource_CallbackErrorStopsWalk(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "prod_1", "a.jpg"), []byte("x"))
	writeFile(t, filepath.Join(dir, "prod_2", "b.jpg"), []byte("x"))

	boom := errors.New("boom")
	calls := 0
	err := newTestSource(dir).Walk(context.Background(), func(*domain.ImageAsset) error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 1, calls)
}
