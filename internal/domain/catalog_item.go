package domain

// CatalogItem описывает одну текстовую запись каталога.
// Идентичность записи определяется полем ID; фид каталога не мутируется пайплайном.
type CatalogItem struct {
	ID          string
	Name        string
	Description string
}

func NewCatalogItem(id string, name string, description string) *CatalogItem {
	return &CatalogItem{
		ID:          id,
		Name:        name,
		Description: description,
	}
}

// CompositeText строит двухстрочный текст для векторизации.
// Название и описание попадают в один вектор, чтобы при поиске
// не приходилось объединять отдельные поля.
func (c *CatalogItem) CompositeText() string {
	return "Name: " + c.Name + "\nDescription: " + c.Description
}
