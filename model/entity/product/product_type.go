package product

// MagentoProductType is the lookup table of known remote product type codes
// (simple, configurable, grouped, ...). Extended by type import, never
// hardcoded in the sync paths.
type MagentoProductType struct {
	TypeID uint   `gorm:"column:type_id;primaryKey;autoIncrement" json:"type_id,omitempty"`
	Name   string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Code   string `gorm:"column:code;type:varchar(32);not null;uniqueIndex" json:"code"`
	Active bool   `gorm:"column:active;not null;default:true" json:"active"`
}

func (MagentoProductType) TableName() string {
	return "magento_product_type"
}

// EsaleAttributeGroup is the flat lookup of remote attribute sets, bound to
// the remote set id through the external referential.
type EsaleAttributeGroup struct {
	GroupID uint   `gorm:"column:group_id;primaryKey;autoIncrement" json:"group_id,omitempty"`
	Name    string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Code    string `gorm:"column:code;type:varchar(255);not null;uniqueIndex" json:"code"`
}

func (EsaleAttributeGroup) TableName() string {
	return "esale_attribute_group"
}

// ProductAttribute is a local attribute; for selection attributes the
// Selection column holds the full newline-joined "value:label" option list.
type ProductAttribute struct {
	AttributeID uint   `gorm:"column:attribute_id;primaryKey;autoIncrement" json:"attribute_id,omitempty"`
	Name        string `gorm:"column:name;type:varchar(255);not null;uniqueIndex" json:"name"`
	Selection   string `gorm:"column:selection;type:text" json:"selection,omitempty"`
}

func (ProductAttribute) TableName() string {
	return "product_attribute"
}

// MagentoAttributeConfigurable is one attribute a configurable template
// varies on, e.g. color or size.
type MagentoAttributeConfigurable struct {
	ConfigurableID uint   `gorm:"column:configurable_id;primaryKey;autoIncrement" json:"configurable_id,omitempty"`
	AppID          uint   `gorm:"column:app_id;not null;index" json:"app_id"`
	Name           string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Code           string `gorm:"column:code;type:varchar(64);not null" json:"code"`
	MgnID          string `gorm:"column:mgn_id;type:varchar(32);not null" json:"mgn_id"`
	Active         bool   `gorm:"column:active;not null;default:true" json:"active"`
}

func (MagentoAttributeConfigurable) TableName() string {
	return "magento_attribute_configurable"
}
