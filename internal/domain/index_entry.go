package domain

// Metadata описывает дополнительную информацию записи индекса
type Metadata map[string]string

// IndexEntry представляет одну запись коллекции векторного хранилища.
// ID уникален в пределах коллекции: повторная вставка с тем же ID
// перезаписывает вектор и метаданные (upsert), дубликат не создается.
type IndexEntry struct {
	ID       string
	Vector   []float32
	Metadata Metadata
	Document string // исходный текст записи; для изображений пуст
}

func NewIndexEntry(id string, vector []float32, metadata Metadata, document string) *IndexEntry {
	return &IndexEntry{
		ID:       id,
		Vector:   vector,
		Metadata: metadata,
		Document: document,
	}
}

func NewTextMetadata(item *CatalogItem) Metadata {
	return Metadata{
		"id":          item.ID,
		"name":        item.Name,
		"description": item.Description,
	}
}

func NewImageMetadata(asset *ImageAsset) Metadata {
	return Metadata{
		"product_id": asset.ProductID,
		"image_id":   asset.ImageID,
	}
}

// QueryHit — один результат поиска ближайших соседей.
type QueryHit struct {
	ID       string
	Score    float32
	Metadata Metadata
}
