package sync

import (
	"fmt"
	"log"
	"strconv"

	"gorm.io/gorm"

	"magesync.GO/magento"
	entity "magesync.GO/model/entity"
	productEntity "magesync.GO/model/entity/product"
	"magesync.GO/tools"
)

// defaultAttributeSet is the remote attribute set used when creating
// products that have no bound attribute group.
const defaultAttributeSet = "4"

// ExportProducts pushes every available template to the remote side:
// one remote product per variant, or one per template for configurable
// products. Per-record remote failures are logged and the walk continues.
func (s *Service) ExportProducts(app *entity.MagentoApp) (*Result, error) {
	res := newResult(app, "products:export")
	run := s.startRun(app, res.Operation)

	err := s.exportProducts(app, res)
	s.finishRun(run, res, err)
	return res, err
}

func (s *Service) exportProducts(app *entity.MagentoApp, res *Result) error {
	log.Printf("Magento %s. Start export products", app.Code)
	def := app.DefaultLanguage()
	if def == nil {
		return ErrNoStoreView
	}

	api, err := s.dial(app)
	if err != nil {
		return err
	}
	productAPI := api.Product()

	var ids []uint
	err = s.db.Model(&productEntity.ProductTemplate{}).
		Where("esale_available = ?", true).
		Order("template_id").
		Pluck("template_id", &ids).Error
	if err != nil {
		return err
	}

	for _, id := range ids {
		tpl, err := s.products.GetTemplate(id)
		if err != nil {
			return err
		}
		if tpl.MagentoProductType == "configurable" {
			s.exportConfigurable(app, productAPI, tpl, res)
			continue
		}
		for i := range tpl.Products {
			s.exportVariant(app, productAPI, tpl, &tpl.Products[i], res)
		}
	}
	log.Printf("Magento %s. End export products", app.Code)
	return nil
}

// exportVariant pushes one variant, creating and binding it on first export.
func (s *Service) exportVariant(app *entity.MagentoApp, api magento.ProductAPI, tpl *productEntity.ProductTemplate, variant *productEntity.Product, res *Result) {
	values, warnings, err := s.ProductValues(app, tpl, variant, "")
	res.Warnings = append(res.Warnings, warnings...)
	if err != nil {
		res.Failed++
		log.Printf("Magento %s. Error export product %s: %v", app.Code, variant.Code, err)
		return
	}
	if app.Debug {
		log.Printf("Magento %s. Product: %+v", app.Code, values)
	}

	mgnID, bound := s.extref.GetRemote(app.AppID, entity.ResourceProduct, variant.ProductID)
	if bound {
		if err := api.Update(strconv.FormatUint(uint64(mgnID), 10), values, ""); err != nil {
			res.Failed++
			log.Printf("Magento %s. Error export product %s: %v", app.Code, variant.Code, err)
			return
		}
		res.Updated++
	} else {
		newID, err := api.Create(tpl.MagentoProductType, defaultAttributeSet, variant.Code, values)
		if err != nil {
			res.Failed++
			log.Printf("Magento %s. Error export product %s: %v", app.Code, variant.Code, err)
			return
		}
		err = s.db.Transaction(func(tx *gorm.DB) error {
			return s.extref.WithTx(tx).Bind(app.AppID, entity.ResourceProduct, variant.ProductID, newID)
		})
		if err != nil {
			res.Failed++
			log.Printf("Magento %s. Error binding product %s: %v", app.Code, variant.Code, err)
			return
		}
		mgnID = newID
		res.Created++
	}
	log.Printf("Magento %s. Export product %s (%d)", app.Code, variant.Code, variant.ProductID)

	s.exportProductLanguages(app, api, tpl, variant, mgnID, res)
}

// exportConfigurable pushes one remote product keyed on the shared template.
func (s *Service) exportConfigurable(app *entity.MagentoApp, api magento.ProductAPI, tpl *productEntity.ProductTemplate, res *Result) {
	values, warnings, err := s.ProductValues(app, tpl, nil, "")
	res.Warnings = append(res.Warnings, warnings...)
	if err != nil {
		res.Failed++
		log.Printf("Magento %s. Error export configurable %s: %v", app.Code, tpl.Code, err)
		return
	}

	mgnID, bound := s.extref.GetRemote(app.AppID, entity.ResourceTemplate, tpl.TemplateID)
	if bound {
		if err := api.Update(strconv.FormatUint(uint64(mgnID), 10), values, ""); err != nil {
			res.Failed++
			log.Printf("Magento %s. Error export configurable %s: %v", app.Code, tpl.Code, err)
			return
		}
		res.Updated++
	} else {
		newID, err := api.Create("configurable", defaultAttributeSet, tpl.Code, values)
		if err != nil {
			res.Failed++
			log.Printf("Magento %s. Error export configurable %s: %v", app.Code, tpl.Code, err)
			return
		}
		err = s.db.Transaction(func(tx *gorm.DB) error {
			return s.extref.WithTx(tx).Bind(app.AppID, entity.ResourceTemplate, tpl.TemplateID, newID)
		})
		if err != nil {
			res.Failed++
			log.Printf("Magento %s. Error binding configurable %s: %v", app.Code, tpl.Code, err)
			return
		}
		mgnID = newID
		res.Created++
	}
	log.Printf("Magento %s. Export configurable %s (%d)", app.Code, tpl.Code, tpl.TemplateID)

	s.exportProductLanguages(app, api, tpl, nil, mgnID, res)
}

// exportProductLanguages runs the update-only passes against each extra
// language's store view.
func (s *Service) exportProductLanguages(app *entity.MagentoApp, api magento.ProductAPI, tpl *productEntity.ProductTemplate, variant *productEntity.Product, mgnID uint, res *Result) {
	for _, lang := range app.ExtraLanguages() {
		values, warnings, err := s.ProductValues(app, tpl, variant, lang.Lang)
		res.Warnings = append(res.Warnings, warnings...)
		if err != nil {
			res.Failed++
			log.Printf("Magento %s. Error export product lang %d: %v", app.Code, tpl.TemplateID, err)
			continue
		}
		if err := api.Update(strconv.FormatUint(uint64(mgnID), 10), values, lang.StoreView); err != nil {
			res.Failed++
			log.Printf("Magento %s. Error export product lang %d: %v", app.Code, tpl.TemplateID, err)
			continue
		}
		log.Printf("Magento %s. Update product: %s (%s)", app.Code, tpl.Code, lang.Lang)
	}
}

// ProductValues builds the remote value set for a template (configurable
// path when variant is nil). lang selects the language overlay; empty lang
// means the base fields. Categories and websites resolve through the
// external referential under the service's unmapped policy.
func (s *Service) ProductValues(app *entity.MagentoApp, tpl *productEntity.ProductTemplate, variant *productEntity.Product, lang string) (magento.ProductValues, []string, error) {
	name := tpl.Name
	slug := tpl.EsaleSlug
	shortDescription := tpl.EsaleShortDescription
	description := tpl.EsaleDescription
	metaTitle := tpl.EsaleMetaTitle
	metaDescription := tpl.EsaleMetaDescription
	metaKeyword := tpl.EsaleMetaKeyword

	if lang != "" {
		if row, ok := s.products.Lang(tpl.TemplateID, lang); ok {
			if row.Name != "" {
				name = row.Name
			}
			if row.EsaleSlug != "" {
				slug = row.EsaleSlug
			}
			if row.EsaleShortDescription != "" {
				shortDescription = row.EsaleShortDescription
			}
			if row.EsaleDescription != "" {
				description = row.EsaleDescription
			}
			if row.EsaleMetaTitle != "" {
				metaTitle = row.EsaleMetaTitle
			}
			if row.EsaleMetaDescription != "" {
				metaDescription = row.EsaleMetaDescription
			}
			if row.EsaleMetaKeyword != "" {
				metaKeyword = row.EsaleMetaKeyword
			}
		}
	}

	if app.Wikimarkup {
		shortDescription = tools.MarkupToHTML(shortDescription)
		description = tools.MarkupToHTML(description)
	}

	sku := tpl.Code
	if variant != nil {
		sku = variant.Code
	}

	status := "2"
	if tpl.EsaleActive {
		status = "1"
	}

	var warnings []string

	var categories []uint
	for _, menu := range tpl.Menus {
		if menu.AppID != app.AppID {
			continue
		}
		mgnID := s.remoteMenuID(app, &menu)
		if mgnID == 0 {
			switch s.onUnmapped {
			case UnmappedFail:
				return magento.ProductValues{}, warnings, fmt.Errorf("category %d has no remote binding", menu.MenuID)
			case UnmappedWarn:
				warnings = append(warnings, fmt.Sprintf("Magento %s. Drop unmapped category %d on %s", app.Code, menu.MenuID, sku))
			}
			continue
		}
		categories = append(categories, mgnID)
	}

	var websites []uint
	for _, tw := range tpl.Websites {
		mgnID, ok := s.extref.GetRemote(app.AppID, entity.ResourceWebsite, tw.WebsiteID)
		if !ok {
			switch s.onUnmapped {
			case UnmappedFail:
				return magento.ProductValues{}, warnings, fmt.Errorf("website %d has no remote binding", tw.WebsiteID)
			case UnmappedWarn:
				warnings = append(warnings, fmt.Sprintf("Magento %s. Drop unmapped website %d on %s", app.Code, tw.WebsiteID, sku))
			}
			continue
		}
		websites = append(websites, mgnID)
	}

	price := s.prices.Price(app, tpl.ListPrice)

	return magento.ProductValues{
		Name:             name,
		SKU:              sku,
		TypeID:           tpl.MagentoProductType,
		URLKey:           slug,
		Price:            strconv.FormatFloat(price, 'f', 4, 64),
		Cost:             strconv.FormatFloat(tpl.CostPrice, 'f', 4, 64),
		TaxClassID:       tpl.TaxClassID,
		Visibility:       visibilityToCode(tpl.EsaleVisibility),
		Status:           status,
		ShortDescription: shortDescription,
		Description:      description,
		MetaTitle:        metaTitle,
		MetaKeyword:      metaKeyword,
		MetaDescription:  metaDescription,
		Categories:       categories,
		Websites:         websites,
	}, warnings, nil
}
