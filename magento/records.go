package magento

// Remote record types. The endpoint returns loosely-typed maps; records are
// decoded with mapstructure (weakly typed, so numeric strings and ints both
// land in the right field).

// Filter narrows a product list call, e.g.
// {"created_at": {"from": "...", "to": "..."}} or {"entity_id": {"from": 10, "to": 20}}.
type Filter map[string]interface{}

// RangeFilter is the from/to shape used inside a Filter.
type RangeFilter struct {
	From interface{} `json:"from" mapstructure:"from"`
	To   interface{} `json:"to" mapstructure:"to"`
}

// CategoryTree is the nested structure returned by catalog_category.tree:
// each node carries its id plus its immediate children.
type CategoryTree struct {
	CategoryID uint           `mapstructure:"category_id"`
	Name       string         `mapstructure:"name"`
	Children   []CategoryTree `mapstructure:"children"`
}

// CategoryRecord is the full category payload from catalog_category.info.
type CategoryRecord struct {
	CategoryID      uint   `mapstructure:"category_id"`
	ParentID        uint   `mapstructure:"parent_id"`
	Name            string `mapstructure:"name"`
	IsActive        string `mapstructure:"is_active"`
	Description     string `mapstructure:"description"`
	URLKey          string `mapstructure:"url_key"`
	DefaultSortBy   string `mapstructure:"default_sort_by"`
	MetaTitle       string `mapstructure:"meta_title"`
	MetaDescription string `mapstructure:"meta_description"`
	MetaKeywords    string `mapstructure:"meta_keywords"`
	IncludeInMenu   string `mapstructure:"include_in_menu"`
	Position        int    `mapstructure:"position"`
}

// ProductSummary is one row of catalog_product.list.
type ProductSummary struct {
	ProductID uint   `mapstructure:"product_id"`
	SKU       string `mapstructure:"sku"`
	Name      string `mapstructure:"name"`
	TypeID    string `mapstructure:"type"`
	SetID     uint   `mapstructure:"set"`
}

// ProductRecord is the full product payload from catalog_product.info.
type ProductRecord struct {
	ProductID        uint     `mapstructure:"product_id"`
	SKU              string   `mapstructure:"sku"`
	Name             string   `mapstructure:"name"`
	TypeID           string   `mapstructure:"type_id"`
	Status           string   `mapstructure:"status"`
	Visibility       string   `mapstructure:"visibility"`
	Price            string   `mapstructure:"price"`
	Cost             string   `mapstructure:"cost"`
	TaxClassID       string   `mapstructure:"tax_class_id"`
	URLKey           string   `mapstructure:"url_key"`
	ShortDescription string   `mapstructure:"short_description"`
	Description      string   `mapstructure:"description"`
	MetaTitle        string   `mapstructure:"meta_title"`
	MetaKeyword      string   `mapstructure:"meta_keyword"`
	MetaDescription  string   `mapstructure:"meta_description"`
	SpecialPrice     string   `mapstructure:"special_price"`
	SpecialFromDate  string   `mapstructure:"special_from_date"`
	SpecialToDate    string   `mapstructure:"special_to_date"`
	Categories       []uint   `mapstructure:"categories"`
	Websites         []uint   `mapstructure:"websites"`
}

// ImageRecord is one row of catalog_product_attribute_media.list.
// Magento 1.3 exposes "url"; newer versions expose "filename".
type ImageRecord struct {
	URL      string   `mapstructure:"url"`
	Filename string   `mapstructure:"filename"`
	Label    string   `mapstructure:"label"`
	Position int      `mapstructure:"position"`
	Exclude  string   `mapstructure:"exclude"`
	Types    []string `mapstructure:"types"`
}

// TypeRecord is one row of catalog_product_type.list.
type TypeRecord struct {
	Type  string `mapstructure:"type"`
	Label string `mapstructure:"label"`
}

// AttributeSetRecord is one row of product_attribute_set.list.
type AttributeSetRecord struct {
	SetID uint   `mapstructure:"set_id"`
	Name  string `mapstructure:"name"`
}

// AttributeRecord is one row of product_attribute.list.
type AttributeRecord struct {
	AttributeID uint   `mapstructure:"attribute_id"`
	Code        string `mapstructure:"code"`
	Type        string `mapstructure:"type"`
}

// OptionRecord is one row of product_attribute.options.
type OptionRecord struct {
	Value string `mapstructure:"value"`
	Label string `mapstructure:"label"`
}
