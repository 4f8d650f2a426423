package product

// Product is one sellable variant of a template. For simple products there is
// exactly one variant carrying the same code as its template.
type Product struct {
	ProductID  uint   `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id,omitempty"`
	TemplateID uint   `gorm:"column:template_id;not null;index" json:"template_id"`
	Code       string `gorm:"column:code;type:varchar(64);not null;index" json:"code"`
	Active     bool   `gorm:"column:active;not null;default:true" json:"active"`

	Template *ProductTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

func (Product) TableName() string {
	return "product_product"
}

// StockItem holds the quantity view for one template.
type StockItem struct {
	StockID    uint    `gorm:"column:stock_id;primaryKey;autoIncrement" json:"stock_id,omitempty"`
	TemplateID uint    `gorm:"column:template_id;not null;uniqueIndex" json:"template_id"`
	Quantity   float64 `gorm:"column:quantity;type:decimal(12,4);not null;default:0" json:"quantity"`
}

func (StockItem) TableName() string {
	return "product_stock_item"
}
