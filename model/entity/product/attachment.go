package product

// Attachment is one image attached to a template. Identity for
// update-vs-create during import is the filename within the owning template.
type Attachment struct {
	AttachmentID uint   `gorm:"column:attachment_id;primaryKey;autoIncrement" json:"attachment_id,omitempty"`
	TemplateID   uint   `gorm:"column:template_id;not null;index" json:"template_id"`
	Name         string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Data         []byte `gorm:"column:data;type:mediumblob" json:"-"`
	Digest       string `gorm:"column:digest;type:varchar(64)" json:"digest,omitempty"`
	Description  string `gorm:"column:description;type:varchar(255)" json:"description,omitempty"`

	EsaleAvailable  bool `gorm:"column:esale_available;not null;default:false" json:"esale_available"`
	EsaleBaseImage  bool `gorm:"column:esale_base_image;not null;default:false" json:"esale_base_image"`
	EsaleSmallImage bool `gorm:"column:esale_small_image;not null;default:false" json:"esale_small_image"`
	EsaleThumbnail  bool `gorm:"column:esale_thumbnail;not null;default:false" json:"esale_thumbnail"`
	EsaleExclude    bool `gorm:"column:esale_exclude;not null;default:false" json:"esale_exclude"`
	EsalePosition   int  `gorm:"column:esale_position;not null;default:0" json:"esale_position"`
}

func (Attachment) TableName() string {
	return "product_attachment"
}
