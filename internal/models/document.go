package models

// DefaultCollection имя коллекции, используемое для пустого имени.
const DefaultCollection = "_default"

// CollectionName нормализует имя коллекции.
func CollectionName(name string) string {
	if name == "" {
		return DefaultCollection
	}
	return name
}

// Document документ локального хранилища: идентификатор и сериализованное тело.
type Document struct {
	ID   string `json:"id"`
	Data []byte `json:"data"`
}

// Clone создает глубокую копию документа.
func (d Document) Clone() Document {
	data := make([]byte, len(d.Data))
	copy(data, d.Data)
	return Document{ID: d.ID, Data: data}
}

// Predicate фильтр документов для Query и DeleteWhere.
type Predicate func(doc Document) bool

// All предикат, принимающий любой документ.
func All(Document) bool { return true }
