package domain

// ImageAsset описывает изображение товара из дерева каталога.
// ImageID — имя файла без расширения, ProductID — группирующий признак
// (несколько изображений могут относиться к одному товару).
type ImageAsset struct {
	ProductID string
	ImageID   string
	Bytes     []byte
}

func NewImageAsset(productID string, imageID string, bytes []byte) *ImageAsset {
	return &ImageAsset{
		ProductID: productID,
		ImageID:   imageID,
		Bytes:     bytes,
	}
}
