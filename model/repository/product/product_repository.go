package product

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	productEntity "magesync.GO/model/entity/product"
)

// ProductRepository reads and writes templates, variants, attachments and
// language overlays.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindVariantByCode looks up a variant by SKU among active and inactive
// records.
func (r *ProductRepository) FindVariantByCode(code string) (*productEntity.Product, bool) {
	var prod productEntity.Product
	err := r.db.Where("code = ?", code).First(&prod).Error
	if err != nil {
		return nil, false
	}
	return &prod, true
}

// FindTemplateByCode looks up a template by SKU with its variants preloaded.
func (r *ProductRepository) FindTemplateByCode(code string) (*productEntity.ProductTemplate, bool) {
	var tpl productEntity.ProductTemplate
	err := r.db.Preload("Products").Where("code = ?", code).First(&tpl).Error
	if err != nil {
		return nil, false
	}
	return &tpl, true
}

// GetTemplate fetches a template with the associations the export paths need.
func (r *ProductRepository) GetTemplate(templateID uint) (*productEntity.ProductTemplate, error) {
	var tpl productEntity.ProductTemplate
	err := r.db.
		Preload("Products").
		Preload("Attachments").
		Preload("Menus").
		Preload("Websites").
		Preload("Configurables").
		First(&tpl, templateID).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Save creates or updates a template.
func (r *ProductRepository) Save(tpl *productEntity.ProductTemplate) error {
	return r.db.Save(tpl).Error
}

// WriteLang upserts the language overlay row for (template, lang).
func (r *ProductRepository) WriteLang(row *productEntity.ProductTemplateLang) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "template_id"}, {Name: "lang"}},
		UpdateAll: true,
	}).Create(row).Error
}

// Lang returns the overlay row for (template, lang) if present.
func (r *ProductRepository) Lang(templateID uint, lang string) (*productEntity.ProductTemplateLang, bool) {
	var row productEntity.ProductTemplateLang
	err := r.db.Where("template_id = ? AND lang = ?", templateID, lang).First(&row).Error
	if err != nil {
		return nil, false
	}
	return &row, true
}

// FindAttachment resolves an attachment by filename within one template.
func (r *ProductRepository) FindAttachment(templateID uint, name string) (*productEntity.Attachment, bool) {
	var att productEntity.Attachment
	err := r.db.Where("template_id = ? AND name = ?", templateID, name).First(&att).Error
	if err != nil {
		return nil, false
	}
	return &att, true
}

// SaveAttachment creates or updates an attachment.
func (r *ProductRepository) SaveAttachment(att *productEntity.Attachment) error {
	return r.db.Save(att).Error
}

// ReplaceMenus rewrites the template's category membership.
func (r *ProductRepository) ReplaceMenus(tpl *productEntity.ProductTemplate, menuIDs []uint) error {
	if err := r.db.Exec("DELETE FROM product_template_menu WHERE template_id = ?", tpl.TemplateID).Error; err != nil {
		return err
	}
	for _, id := range menuIDs {
		err := r.db.Exec("INSERT INTO product_template_menu (template_id, menu_id) VALUES (?, ?)",
			tpl.TemplateID, id).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// AttachWebsites adds website scopes to a template, skipping existing rows.
func (r *ProductRepository) AttachWebsites(templateID uint, websiteIDs []uint) error {
	for _, id := range websiteIDs {
		row := productEntity.TemplateWebsite{TemplateID: templateID, WebsiteID: id}
		err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Quantities sums stock per template for a batch of templates.
func (r *ProductRepository) Quantities(templateIDs []uint) (map[uint]float64, error) {
	var rows []productEntity.StockItem
	if err := r.db.Where("template_id IN ?", templateIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]float64, len(templateIDs))
	for _, s := range rows {
		out[s.TemplateID] += s.Quantity
	}
	return out, nil
}

// WithTx returns a repository bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}
