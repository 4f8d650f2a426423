package catalog

// CatalogMenu is one node of the local category tree. ParentID forms a tree
// rooted at the app's top menu; MgnID is the stamped remote id (0 = not yet
// exported/bound).
type CatalogMenu struct {
	MenuID          uint   `gorm:"column:menu_id;primaryKey;autoIncrement" json:"menu_id,omitempty"`
	AppID           uint   `gorm:"column:app_id;index" json:"app_id,omitempty"`
	MgnID           uint   `gorm:"column:mgn_id;index" json:"mgn_id,omitempty"`
	ParentID        *uint  `gorm:"column:parent_id;index" json:"parent_id,omitempty"`
	Name            string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Active          bool   `gorm:"column:active;not null;default:true" json:"active"`
	DefaultSortBy   string `gorm:"column:default_sort_by;type:varchar(32)" json:"default_sort_by,omitempty"`
	Slug            string `gorm:"column:slug;type:varchar(255)" json:"slug,omitempty"`
	Description     string `gorm:"column:description;type:text" json:"description,omitempty"`
	MetaTitle       string `gorm:"column:metatitle;type:varchar(255)" json:"metatitle,omitempty"`
	MetaDescription string `gorm:"column:metadescription;type:varchar(255)" json:"metadescription,omitempty"`
	MetaKeyword     string `gorm:"column:metakeyword;type:varchar(255)" json:"metakeyword,omitempty"`
	IncludeInMenu   bool   `gorm:"column:include_in_menu;not null;default:true" json:"include_in_menu"`
	Sequence        int    `gorm:"column:sequence;not null;default:0" json:"sequence"`

	Langs []CatalogMenuLang `gorm:"foreignKey:MenuID" json:"langs,omitempty"`
}

func (CatalogMenu) TableName() string {
	return "esale_catalog_menu"
}

// CatalogMenuLang is the per-language overlay of a menu's translatable
// fields. The app's default language writes the base CatalogMenu columns;
// every other configured language writes one of these rows.
type CatalogMenuLang struct {
	MenuLangID      uint   `gorm:"column:menu_lang_id;primaryKey;autoIncrement" json:"menu_lang_id,omitempty"`
	MenuID          uint   `gorm:"column:menu_id;not null;uniqueIndex:idx_menu_lang" json:"menu_id"`
	Lang            string `gorm:"column:lang;type:varchar(8);not null;uniqueIndex:idx_menu_lang" json:"lang"`
	Name            string `gorm:"column:name;type:varchar(255)" json:"name,omitempty"`
	Slug            string `gorm:"column:slug;type:varchar(255)" json:"slug,omitempty"`
	Description     string `gorm:"column:description;type:text" json:"description,omitempty"`
	MetaTitle       string `gorm:"column:metatitle;type:varchar(255)" json:"metatitle,omitempty"`
	MetaDescription string `gorm:"column:metadescription;type:varchar(255)" json:"metadescription,omitempty"`
	MetaKeyword     string `gorm:"column:metakeyword;type:varchar(255)" json:"metakeyword,omitempty"`
}

func (CatalogMenuLang) TableName() string {
	return "esale_catalog_menu_lang"
}
