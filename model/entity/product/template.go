package product

import (
	"time"

	"magesync.GO/model/entity/catalog"
)

// Product visibility on the remote catalog.
const (
	VisibilityNone    = "none"
	VisibilityCatalog = "catalog"
	VisibilitySearch  = "search"
	VisibilityAll     = "all"
)

// ProductTemplate is the shared product view: one template per SKU family,
// carrying prices, SEO fields and the e-sale flags. Variants hang off it.
type ProductTemplate struct {
	TemplateID         uint    `gorm:"column:template_id;primaryKey;autoIncrement" json:"template_id,omitempty"`
	Name               string  `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Code               string  `gorm:"column:code;type:varchar(64);not null;uniqueIndex" json:"code"`
	ListPrice          float64 `gorm:"column:list_price;type:decimal(16,4);not null;default:0" json:"list_price"`
	CostPrice          float64 `gorm:"column:cost_price;type:decimal(16,4);not null;default:0" json:"cost_price"`
	TaxClassID         string  `gorm:"column:tax_class_id;type:varchar(16)" json:"tax_class_id,omitempty"`
	CustomerTaxes      string  `gorm:"column:customer_taxes;type:varchar(255)" json:"customer_taxes,omitempty"`
	MagentoProductType string  `gorm:"column:magento_product_type;type:varchar(32)" json:"magento_product_type,omitempty"`
	MagentoGroupPrice  bool    `gorm:"column:magento_group_price;not null;default:false" json:"magento_group_price"`

	EsaleAvailable        bool   `gorm:"column:esale_available;not null;default:false" json:"esale_available"`
	EsaleActive           bool   `gorm:"column:esale_active;not null;default:false" json:"esale_active"`
	EsaleVisibility       string `gorm:"column:esale_visibility;type:varchar(16);default:all" json:"esale_visibility"`
	EsaleSlug             string `gorm:"column:esale_slug;type:varchar(255)" json:"esale_slug,omitempty"`
	EsaleShortDescription string `gorm:"column:esale_shortdescription;type:text" json:"esale_shortdescription,omitempty"`
	EsaleDescription      string `gorm:"column:esale_description;type:text" json:"esale_description,omitempty"`
	EsaleMetaTitle        string `gorm:"column:esale_metatitle;type:varchar(255)" json:"esale_metatitle,omitempty"`
	EsaleMetaDescription  string `gorm:"column:esale_metadescription;type:varchar(255)" json:"esale_metadescription,omitempty"`
	EsaleMetaKeyword      string `gorm:"column:esale_metakeyword;type:varchar(255)" json:"esale_metakeyword,omitempty"`
	EsaleManageStock      bool   `gorm:"column:esale_manage_stock;not null;default:true" json:"esale_manage_stock"`

	SpecialPrice     *float64   `gorm:"column:special_price;type:decimal(16,4)" json:"special_price,omitempty"`
	SpecialPriceFrom *time.Time `gorm:"column:special_price_from" json:"special_price_from,omitempty"`
	SpecialPriceTo   *time.Time `gorm:"column:special_price_to" json:"special_price_to,omitempty"`

	Products      []Product                      `gorm:"foreignKey:TemplateID" json:"products,omitempty"`
	Attachments   []Attachment                   `gorm:"foreignKey:TemplateID" json:"attachments,omitempty"`
	Langs         []ProductTemplateLang          `gorm:"foreignKey:TemplateID" json:"langs,omitempty"`
	Menus         []catalog.CatalogMenu          `gorm:"many2many:product_template_menu;foreignKey:TemplateID;joinForeignKey:TemplateID;References:MenuID;joinReferences:MenuID" json:"menus,omitempty"`
	Websites      []TemplateWebsite              `gorm:"foreignKey:TemplateID" json:"websites,omitempty"`
	Configurables []MagentoAttributeConfigurable `gorm:"many2many:product_tpl_mgn_attribute_configurable;foreignKey:TemplateID;joinForeignKey:TemplateID;References:ConfigurableID;joinReferences:ConfigurableID" json:"configurables,omitempty"`
}

func (ProductTemplate) TableName() string {
	return "product_template"
}

// ProductTemplateLang is the per-language overlay of a template's
// translatable fields, same base/overlay convention as catalog menus.
type ProductTemplateLang struct {
	TemplateLangID        uint   `gorm:"column:template_lang_id;primaryKey;autoIncrement" json:"template_lang_id,omitempty"`
	TemplateID            uint   `gorm:"column:template_id;not null;uniqueIndex:idx_template_lang" json:"template_id"`
	Lang                  string `gorm:"column:lang;type:varchar(8);not null;uniqueIndex:idx_template_lang" json:"lang"`
	Name                  string `gorm:"column:name;type:varchar(255)" json:"name,omitempty"`
	EsaleSlug             string `gorm:"column:esale_slug;type:varchar(255)" json:"esale_slug,omitempty"`
	EsaleShortDescription string `gorm:"column:esale_shortdescription;type:text" json:"esale_shortdescription,omitempty"`
	EsaleDescription      string `gorm:"column:esale_description;type:text" json:"esale_description,omitempty"`
	EsaleMetaTitle        string `gorm:"column:esale_metatitle;type:varchar(255)" json:"esale_metatitle,omitempty"`
	EsaleMetaDescription  string `gorm:"column:esale_metadescription;type:varchar(255)" json:"esale_metadescription,omitempty"`
	EsaleMetaKeyword      string `gorm:"column:esale_metakeyword;type:varchar(255)" json:"esale_metakeyword,omitempty"`
}

func (ProductTemplateLang) TableName() string {
	return "product_template_lang"
}

// TemplateWebsite attaches a template to one remote website scope.
type TemplateWebsite struct {
	TemplateWebsiteID uint `gorm:"column:template_website_id;primaryKey;autoIncrement" json:"template_website_id,omitempty"`
	TemplateID        uint `gorm:"column:template_id;not null;uniqueIndex:idx_template_website" json:"template_id"`
	WebsiteID         uint `gorm:"column:website_id;not null;uniqueIndex:idx_template_website" json:"website_id"`
}

func (TemplateWebsite) TableName() string {
	return "product_template_website"
}
