package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Catalog price scopes (Magento Configuration/Catalog/Price).
const (
	CatalogPriceGlobal  = "global"
	CatalogPriceWebsite = "website"
)

// MagentoApp is one configured connection profile to a remote Magento
// instance. Created and edited by an operator; read-only to the sync
// operations except for the product import watermark fields.
type MagentoApp struct {
	AppID    uint   `gorm:"column:app_id;primaryKey;autoIncrement" json:"app_id,omitempty"`
	Code     string `gorm:"column:code;type:varchar(32);not null;uniqueIndex" json:"code"`
	Name     string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	URI      string `gorm:"column:uri;type:varchar(255);not null" json:"uri"`
	Username string `gorm:"column:username;type:varchar(64);not null" json:"username"`
	Password string `gorm:"column:password;type:varchar(64);not null" json:"-"`
	Active   bool   `gorm:"column:active;not null;default:true" json:"active"`

	// Product import watermark: date range has priority over ID range.
	FromDateProducts *time.Time `gorm:"column:from_date_products" json:"from_date_products,omitempty"`
	ToDateProducts   *time.Time `gorm:"column:to_date_products" json:"to_date_products,omitempty"`
	FromIDProducts   *uint      `gorm:"column:from_id_products" json:"from_id_products,omitempty"`
	ToIDProducts     *uint      `gorm:"column:to_id_products" json:"to_id_products,omitempty"`

	CategoryRootID uint   `gorm:"column:category_root_id" json:"category_root_id"`
	TopMenuID      *uint  `gorm:"column:top_menu_id" json:"top_menu_id,omitempty"`
	TaxInclude     bool   `gorm:"column:tax_include;not null;default:false" json:"tax_include"`
	CatalogPrice   string `gorm:"column:catalog_price;type:varchar(16);not null;default:global" json:"catalog_price"`
	Wikimarkup     bool   `gorm:"column:wikimarkup;not null;default:true" json:"wikimarkup"`
	Debug          bool   `gorm:"column:debug;not null;default:false" json:"debug"`

	Settings datatypes.JSON `gorm:"column:settings" json:"settings,omitempty"`

	Languages []MagentoAppLanguage `gorm:"foreignKey:AppID" json:"languages,omitempty"`
	Websites  []MagentoWebsite     `gorm:"foreignKey:AppID" json:"websites,omitempty"`
}

func (MagentoApp) TableName() string {
	return "magento_app"
}

// DefaultLanguage returns the language triple marked default, if any.
func (a *MagentoApp) DefaultLanguage() *MagentoAppLanguage {
	for i := range a.Languages {
		if a.Languages[i].IsDefault {
			return &a.Languages[i]
		}
	}
	return nil
}

// ExtraLanguages returns every configured language except the default one.
func (a *MagentoApp) ExtraLanguages() []MagentoAppLanguage {
	var out []MagentoAppLanguage
	for _, l := range a.Languages {
		if !l.IsDefault {
			out = append(out, l)
		}
	}
	return out
}

// MagentoAppLanguage is one (language, store view, default?) triple.
// At most one triple per app is marked default.
type MagentoAppLanguage struct {
	LanguageID uint   `gorm:"column:language_id;primaryKey;autoIncrement" json:"language_id,omitempty"`
	AppID      uint   `gorm:"column:app_id;not null;index" json:"app_id"`
	Lang       string `gorm:"column:lang;type:varchar(8);not null" json:"lang"`
	StoreView  string `gorm:"column:store_view;type:varchar(32);not null" json:"store_view"`
	IsDefault  bool   `gorm:"column:is_default;not null;default:false" json:"is_default"`
}

func (MagentoAppLanguage) TableName() string {
	return "magento_app_language"
}

// MagentoWebsite is a local mirror of one remote website scope. The remote
// counterpart is bound through the external referential.
type MagentoWebsite struct {
	WebsiteID uint   `gorm:"column:website_id;primaryKey;autoIncrement" json:"website_id,omitempty"`
	AppID     uint   `gorm:"column:app_id;not null;index" json:"app_id"`
	Code      string `gorm:"column:code;type:varchar(32);not null" json:"code"`
	Name      string `gorm:"column:name;type:varchar(255)" json:"name"`
}

func (MagentoWebsite) TableName() string {
	return "magento_website"
}

// MagentoGroupPrice maps a remote customer group to a price adjustment,
// applied when the app's catalog price scope is per-website.
type MagentoGroupPrice struct {
	GroupPriceID  uint    `gorm:"column:group_price_id;primaryKey;autoIncrement" json:"group_price_id,omitempty"`
	AppID         uint    `gorm:"column:app_id;not null;index" json:"app_id"`
	CustomerGroup string  `gorm:"column:customer_group;type:varchar(64);not null" json:"customer_group"`
	Percent       float64 `gorm:"column:percent;type:decimal(5,2);not null;default:0" json:"percent"`
}

func (MagentoGroupPrice) TableName() string {
	return "magento_sale_group_price"
}
