package entity

// Resource types used in the external referential. Scoped per app: the same
// local record can map to different remote ids on different apps.
const (
	ResourceMenu           = "catalog.menu"
	ResourceProduct        = "product.product"
	ResourceTemplate       = "product.template"
	ResourceWebsite        = "magento.website"
	ResourceAttributeGroup = "attribute.group"
)

// MagentoExternalReferential binds a local record to its remote counterpart.
// For a given (app, resource) the pair is unique in both directions; bindings
// are never deleted automatically.
type MagentoExternalReferential struct {
	RefID    uint   `gorm:"column:ref_id;primaryKey;autoIncrement" json:"ref_id,omitempty"`
	AppID    uint   `gorm:"column:app_id;not null;uniqueIndex:idx_extref_local;uniqueIndex:idx_extref_mgn" json:"app_id"`
	Resource string `gorm:"column:resource;type:varchar(64);not null;uniqueIndex:idx_extref_local;uniqueIndex:idx_extref_mgn" json:"resource"`
	LocalID  uint   `gorm:"column:local_id;not null;uniqueIndex:idx_extref_local" json:"local_id"`
	MgnID    uint   `gorm:"column:mgn_id;not null;uniqueIndex:idx_extref_mgn" json:"mgn_id"`
}

func (MagentoExternalReferential) TableName() string {
	return "magento_external_referential"
}
