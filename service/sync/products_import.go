package sync

import (
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"magesync.GO/magento"
	entity "magesync.GO/model/entity"
	productEntity "magesync.GO/model/entity/product"
	"magesync.GO/tools"
)

const mgnTimeLayout = "2006-01-02 15:04:05"

// ImportProducts pulls remote products selected by the app's date or id
// range. The watermark is advanced and persisted before any record is
// processed: a crash mid-batch does not re-process the batch, and cannot
// resume it either. One commit per product.
func (s *Service) ImportProducts(app *entity.MagentoApp) (*Result, error) {
	res := newResult(app, "products:import")
	run := s.startRun(app, res.Operation)

	err := s.importProducts(app, res)
	s.finishRun(run, res, err)
	return res, err
}

func (s *Service) importProducts(app *entity.MagentoApp, res *Result) error {
	log.Printf("Magento %s. Start import products", app.Code)
	if len(app.Websites) == 0 {
		return ErrNoWebsites
	}

	api, err := s.dial(app)
	if err != nil {
		return err
	}
	productAPI := api.Product()

	summaries, err := s.listProductCandidates(app, productAPI)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		return ErrNoProducts
	}
	log.Printf("Magento %s. Import %d products", app.Code, len(summaries))

	// Advance the watermark before touching any record.
	if err := s.advanceWatermark(app, res); err != nil {
		return err
	}

	for i := range summaries {
		if err := s.importProduct(app, api, &summaries[i], res); err != nil {
			return err
		}
	}
	log.Printf("Magento %s. End import products", app.Code)
	return nil
}

// listProductCandidates evaluates the range filters. Date range has priority;
// the two strategies are never combined.
func (s *Service) listProductCandidates(app *entity.MagentoApp, api magento.ProductAPI) ([]magento.ProductSummary, error) {
	if app.FromDateProducts != nil && app.ToDateProducts != nil {
		from := app.FromDateProducts.Format(mgnTimeLayout)
		to := app.ToDateProducts.Format(mgnTimeLayout)
		created, err := api.List(magento.Filter{
			"created_at": magento.RangeFilter{From: from, To: to},
		})
		if err != nil {
			return nil, err
		}
		updated, err := api.List(magento.Filter{
			"updated_at": magento.RangeFilter{From: from, To: to},
		})
		if err != nil {
			return nil, err
		}
		return dedupeSummaries(append(created, updated...)), nil
	}
	if app.FromIDProducts != nil && app.ToIDProducts != nil {
		return api.List(magento.Filter{
			"entity_id": magento.RangeFilter{From: *app.FromIDProducts, To: *app.ToIDProducts},
		})
	}
	return nil, nil
}

func dedupeSummaries(in []magento.ProductSummary) []magento.ProductSummary {
	seen := make(map[uint]bool, len(in))
	out := in[:0]
	for _, p := range in {
		if seen[p.ProductID] {
			continue
		}
		seen[p.ProductID] = true
		out = append(out, p)
	}
	return out
}

// advanceWatermark stores the next range's lower bound on the app profile:
// the old upper bound becomes the new lower bound (plus one for id ranges)
// and the upper bound is cleared.
func (s *Service) advanceWatermark(app *entity.MagentoApp, res *Result) error {
	updates := map[string]interface{}{}
	if app.FromDateProducts != nil && app.ToDateProducts != nil {
		next := *app.ToDateProducts
		updates["from_date_products"] = next
		updates["to_date_products"] = nil
		app.FromDateProducts = &next
		app.ToDateProducts = nil
		res.NextFromDate = &next
	} else if app.FromIDProducts != nil && app.ToIDProducts != nil {
		next := *app.ToIDProducts + 1
		updates["from_id_products"] = next
		updates["to_id_products"] = nil
		app.FromIDProducts = &next
		app.ToIDProducts = nil
		res.NextFromID = &next
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.Model(&entity.MagentoApp{}).Where("app_id = ?", app.AppID).Updates(updates).Error
}

// importProduct resolves the local identity of one remote product and saves
// it, its language overlays and its images inside one transaction.
func (s *Service) importProduct(app *entity.MagentoApp, api magento.API, summary *magento.ProductSummary, res *Result) error {
	variant, skip := s.resolveProductIdentity(app, summary, res)
	if skip {
		return nil
	}

	info, err := api.Product().Info(strconv.FormatUint(uint64(summary.ProductID), 10), "")
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)

		tpl, created, err := s.saveProduct(tx, app, info, variant)
		if err != nil {
			return err
		}
		if created {
			res.Created++
			log.Printf("Magento %s. Create product %s (%d)", app.Code, info.SKU, tpl.TemplateID)
		} else {
			res.Updated++
			log.Printf("Magento %s. Update product %s (%d)", app.Code, info.SKU, tpl.TemplateID)
		}

		// Language fan-out: re-fetch under each extra language's store view
		// and write its overlay.
		for _, lang := range app.ExtraLanguages() {
			langInfo, err := api.Product().Info(info.SKU, lang.StoreView)
			if err != nil {
				return err
			}
			row := productLangOverlay(tpl.TemplateID, lang.Lang, langInfo)
			if err := products.WriteLang(row); err != nil {
				return err
			}
			log.Printf("Magento %s. Update product %s (%d-%s)", app.Code, info.SKU, tpl.TemplateID, lang.Lang)
		}

		return s.saveProductImages(tx, app, tpl, strconv.FormatUint(uint64(summary.ProductID), 10), api.ProductImages())
	})
}

// resolveProductIdentity finds the local variant for a remote product:
// external referential first, then variant by SKU, then template by SKU
// taking its first variant. skip is true for templates with no variants.
func (s *Service) resolveProductIdentity(app *entity.MagentoApp, summary *magento.ProductSummary, res *Result) (*productEntity.Product, bool) {
	if localID, ok := s.extref.GetLocal(app.AppID, entity.ResourceProduct, summary.ProductID); ok {
		var prod productEntity.Product
		if err := s.db.First(&prod, localID).Error; err == nil {
			return &prod, false
		}
	}
	if prod, ok := s.products.FindVariantByCode(summary.SKU); ok {
		return prod, false
	}
	if tpl, ok := s.products.FindTemplateByCode(summary.SKU); ok {
		if len(tpl.Products) == 0 {
			res.warnf("Magento %s. Template %d has no variants, skip %s", app.Code, tpl.TemplateID, summary.SKU)
			res.Skipped++
			return nil, true
		}
		return &tpl.Products[0], false
	}
	return nil, false
}

// saveProduct creates or updates the template behind variant (nil = new
// product) from the remote record.
func (s *Service) saveProduct(tx *gorm.DB, app *entity.MagentoApp, rec *magento.ProductRecord, variant *productEntity.Product) (*productEntity.ProductTemplate, bool, error) {
	products := s.products.WithTx(tx)

	var tpl *productEntity.ProductTemplate
	if variant != nil {
		var found productEntity.ProductTemplate
		if err := tx.First(&found, variant.TemplateID).Error; err != nil {
			return nil, false, err
		}
		tpl = &found
	}

	created := tpl == nil
	if created {
		tpl = &productEntity.ProductTemplate{Code: rec.SKU}
	}
	applyProductRecord(tpl, rec, created)

	if created {
		// Taxes and prices with or without taxes; fall back to the raw
		// remote price when the resolver yields nothing.
		listPrice, costPrice := 0.0, 0.0
		if s.taxes != nil {
			taxes, lp, cp, ok := s.taxes.Resolve(app, rec, app.TaxInclude)
			if ok {
				tpl.CustomerTaxes = taxes
				listPrice, costPrice = lp, cp
			}
		}
		if listPrice == 0 {
			listPrice, _ = strconv.ParseFloat(rec.Price, 64)
		}
		if costPrice == 0 {
			costPrice, _ = strconv.ParseFloat(rec.Cost, 64)
			if costPrice == 0 {
				costPrice = listPrice
			}
		}
		tpl.ListPrice = listPrice
		tpl.CostPrice = costPrice
	}

	if err := products.Save(tpl); err != nil {
		return nil, false, err
	}

	if created {
		newVariant := productEntity.Product{TemplateID: tpl.TemplateID, Code: rec.SKU, Active: true}
		if err := tx.Create(&newVariant).Error; err != nil {
			return nil, false, err
		}
		if err := products.AttachWebsites(tpl.TemplateID, s.resolveWebsites(app, rec)); err != nil {
			return nil, false, err
		}
		if rec.ProductID != 0 {
			if err := s.extref.WithTx(tx).Bind(app.AppID, entity.ResourceProduct, newVariant.ProductID, rec.ProductID); err != nil {
				return nil, false, err
			}
		}
	}

	// Declared categories resolve through the external referential;
	// unresolved remote ids are dropped.
	var menuIDs []uint
	for _, mgnCat := range rec.Categories {
		if localID, ok := s.extref.GetLocal(app.AppID, entity.ResourceMenu, mgnCat); ok {
			menuIDs = append(menuIDs, localID)
		}
	}
	if err := products.ReplaceMenus(tpl, menuIDs); err != nil {
		return nil, false, err
	}

	return tpl, created, nil
}

// resolveWebsites maps the record's remote website ids onto configured local
// websites; when none match, every configured website is attached.
func (s *Service) resolveWebsites(app *entity.MagentoApp, rec *magento.ProductRecord) []uint {
	var out []uint
	for _, mgnSite := range rec.Websites {
		if localID, ok := s.extref.GetLocal(app.AppID, entity.ResourceWebsite, mgnSite); ok {
			out = append(out, localID)
		}
	}
	if len(out) == 0 {
		for _, w := range app.Websites {
			out = append(out, w.WebsiteID)
		}
	}
	return out
}

// applyProductRecord maps the remote record onto the base template fields.
// On update the product type is never touched: changing a product's
// fundamental type through import is unsafe.
func applyProductRecord(tpl *productEntity.ProductTemplate, rec *magento.ProductRecord, create bool) {
	tpl.Name = rec.Name
	tpl.EsaleActive = true
	tpl.EsaleAvailable = rec.Status == "1"
	tpl.EsaleVisibility = visibilityFromCode(rec.Visibility)
	tpl.EsaleSlug = rec.URLKey
	tpl.EsaleShortDescription = rec.ShortDescription
	tpl.EsaleDescription = rec.Description
	tpl.EsaleMetaTitle = seoOrEmpty(rec.MetaTitle)
	tpl.EsaleMetaDescription = seoOrEmpty(rec.MetaDescription)
	tpl.EsaleMetaKeyword = seoOrEmpty(rec.MetaKeyword)
	tpl.TaxClassID = rec.TaxClassID
	if create {
		tpl.MagentoProductType = rec.TypeID
	}
	if rec.SpecialPrice != "" {
		if sp, err := strconv.ParseFloat(rec.SpecialPrice, 64); err == nil {
			tpl.SpecialPrice = &sp
		}
		if rec.SpecialFromDate != "" {
			if t, err := time.Parse(mgnTimeLayout, rec.SpecialFromDate); err == nil {
				tpl.SpecialPriceFrom = &t
			}
		}
		if rec.SpecialToDate != "" {
			if t, err := time.Parse(mgnTimeLayout, rec.SpecialToDate); err == nil {
				tpl.SpecialPriceTo = &t
			}
		}
	}
	if tpl.EsaleSlug == "" {
		tpl.EsaleSlug = tools.Slugify(rec.Name)
	}
}

// productLangOverlay maps a store-view-scoped record onto a template
// language overlay row.
func productLangOverlay(templateID uint, lang string, rec *magento.ProductRecord) *productEntity.ProductTemplateLang {
	return &productEntity.ProductTemplateLang{
		TemplateID:            templateID,
		Lang:                  lang,
		Name:                  rec.Name,
		EsaleSlug:             rec.URLKey,
		EsaleShortDescription: rec.ShortDescription,
		EsaleDescription:      rec.Description,
		EsaleMetaTitle:        seoOrEmpty(rec.MetaTitle),
		EsaleMetaDescription:  seoOrEmpty(rec.MetaDescription),
		EsaleMetaKeyword:      seoOrEmpty(rec.MetaKeyword),
	}
}

// visibilityFromCode maps remote visibility codes; anything unrecognized
// means fully visible.
func visibilityFromCode(code string) string {
	switch code {
	case "1":
		return productEntity.VisibilityNone
	case "2":
		return productEntity.VisibilityCatalog
	case "3":
		return productEntity.VisibilitySearch
	default:
		return productEntity.VisibilityAll
	}
}

// visibilityToCode is the export mirror; unknown local values export as all.
func visibilityToCode(v string) string {
	switch v {
	case productEntity.VisibilityNone:
		return "1"
	case productEntity.VisibilityCatalog:
		return "2"
	case productEntity.VisibilitySearch:
		return "3"
	default:
		return "4"
	}
}
