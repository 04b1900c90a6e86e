package fs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jimlawless/whereami"

	"github.com/DRSN-tech/indexer-backend/internal/cfg"
	"github.com/DRSN-tech/indexer-backend/internal/domain"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
)

// ImageSource перечисляет изображения каталога из локальной директории.
// Ожидаемая структура: <dir>/<prefix><productId>/<imageId>.<ext>.
// Идентификатор продукта получается из имени родительской директории
// отбрасыванием настроенного префикса, идентификатор изображения равен
// имени файла без расширения.
type ImageSource struct {
	cfg *cfg.IndexerCfg
}

func NewImageSource(cfg *cfg.IndexerCfg) *ImageSource {
	return &ImageSource{cfg: cfg}
}

// Walk обходит дерево директорий и вызывает fn для каждого файла с
// подходящим расширением. Файлы в корне директории пропускаются: продукт
// определяется только по родительской поддиректории.
func (s *ImageSource) Walk(ctx context.Context, fn func(asset *domain.ImageAsset) error) error {
	root := s.cfg.ImageDir

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !s.allowedExtension(ext) {
			return nil
		}

		parent := filepath.Dir(path)
		if filepath.Clean(parent) == filepath.Clean(root) {
			return nil
		}

		productID := strings.TrimPrefix(filepath.Base(parent), s.cfg.ProductDirPrefix)
		imageID := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		return fn(domain.NewImageAsset(productID, imageID, data))
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *ImageSource) allowedExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	for _, allowed := range s.cfg.ImageExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
