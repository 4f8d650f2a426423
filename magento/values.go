package magento

// Value sets pushed to the remote side. Closed structs rather than open maps,
// so every field the sync writes is enumerated and checked at compile time.
// Magento's v1-style API wants flags and codes as "1"/"0" strings.

// CategoryValues is the payload for catalog_category.create/update.
type CategoryValues struct {
	Name            string `json:"name"`
	IsActive        string `json:"is_active"`
	AvailableSortBy string `json:"available_sort_by"`
	DefaultSortBy   string `json:"default_sort_by"`
	Description     string `json:"description"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	MetaKeywords    string `json:"meta_keywords"`
	URLKey          string `json:"url_key"`
	IncludeInMenu   string `json:"include_in_menu"`
}

// ProductValues is the payload for catalog_product.create/update.
type ProductValues struct {
	Name             string   `json:"name"`
	SKU              string   `json:"sku"`
	TypeID           string   `json:"type_id,omitempty"`
	Set              string   `json:"set,omitempty"`
	URLKey           string   `json:"url_key"`
	Price            string   `json:"price"`
	Cost             string   `json:"cost"`
	TaxClassID       string   `json:"tax_class_id"`
	Visibility       string   `json:"visibility"`
	Status           string   `json:"status"`
	ShortDescription string   `json:"short_description"`
	Description      string   `json:"description"`
	MetaTitle        string   `json:"meta_title"`
	MetaKeyword      string   `json:"meta_keyword"`
	MetaDescription  string   `json:"meta_description"`
	Categories       []uint   `json:"categories"`
	Websites         []uint   `json:"websites"`
}
