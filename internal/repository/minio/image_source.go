package minio

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"

	"github.com/DRSN-tech/indexer-backend/internal/cfg"
	"github.com/DRSN-tech/indexer-backend/internal/domain"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
)

// ImageSource перечисляет изображения каталога из bucket MinIO.
// Ожидаемая структура ключей: <prefix><productId>/<imageId>.<ext>,
// как у дерева директорий файлового источника.
type ImageSource struct {
	mc       *minio.Client
	minioCfg *cfg.MinIOCfg
	idxCfg   *cfg.IndexerCfg
}

func NewImageSource(mc *minio.Client, minioCfg *cfg.MinIOCfg, idxCfg *cfg.IndexerCfg) *ImageSource {
	return &ImageSource{
		mc:       mc,
		minioCfg: minioCfg,
		idxCfg:   idxCfg,
	}
}

// Walk перечисляет объекты bucket и вызывает fn для каждого объекта с
// подходящим расширением. Объекты верхнего уровня без директории продукта
// пропускаются.
func (s *ImageSource) Walk(ctx context.Context, fn func(asset *domain.ImageAsset) error) error {
	objects := s.mc.ListObjects(ctx, s.minioCfg.BucketName, minio.ListObjectsOptions{
		Recursive: true,
	})

	for object := range objects {
		if object.Err != nil {
			return e.Wrap(whereami.WhereAmI(), object.Err)
		}

		ext := strings.ToLower(path.Ext(object.Key))
		if !s.allowedExtension(ext) {
			continue
		}

		dir := path.Dir(object.Key)
		if dir == "." || dir == "/" {
			continue
		}

		productID := strings.TrimPrefix(path.Base(dir), s.idxCfg.ProductDirPrefix)
		base := path.Base(object.Key)
		imageID := strings.TrimSuffix(base, path.Ext(base))

		data, err := s.readObject(ctx, object.Key)
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		if err := fn(domain.NewImageAsset(productID, imageID, data)); err != nil {
			return err
		}
	}

	return nil
}

func (s *ImageSource) readObject(ctx context.Context, key string) ([]byte, error) {
	object, err := s.mc.GetObject(ctx, s.minioCfg.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()

	return io.ReadAll(object)
}

func (s *ImageSource) allowedExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	for _, allowed := range s.idxCfg.ImageExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
