package sync

import (
	"log"

	"gorm.io/gorm"

	"magesync.GO/magento"
	entity "magesync.GO/model/entity"
	catalogEntity "magesync.GO/model/entity/catalog"
	"magesync.GO/tools"
)

// ExportCategories pushes every descendant of the app's top menu to the
// remote side. Brand-new nodes are created under their parent's remote id and
// the returned remote id is bound and stamped locally; bound nodes are
// updated. Per-node remote failures are logged and the walk continues.
func (s *Service) ExportCategories(app *entity.MagentoApp) (*Result, error) {
	res := newResult(app, "categories:export")
	run := s.startRun(app, res.Operation)

	err := s.exportCategories(app, res)
	s.finishRun(run, res, err)
	return res, err
}

func (s *Service) exportCategories(app *entity.MagentoApp, res *Result) error {
	log.Printf("Magento %s. Start export categories", app.Code)
	if app.TopMenuID == nil {
		return ErrNoTopMenu
	}
	def := app.DefaultLanguage()
	if def == nil {
		return ErrNoStoreView
	}

	api, err := s.dial(app)
	if err != nil {
		return err
	}
	categoryAPI := api.Category()

	// Breadth-first: parents are exported before their children, so a
	// brand-new child always finds its parent's remote id.
	menus, err := s.menus.AllChildren(*app.TopMenuID)
	if err != nil {
		return err
	}

	for i := range menus {
		menu := &menus[i]
		s.exportCategoryNode(app, categoryAPI, menu, def.StoreView, res)
	}
	log.Printf("Magento %s. End export categories", app.Code)
	return nil
}

// exportCategoryNode pushes one node plus its language passes. Failures are
// recorded on the result, never returned: one broken node must not stop the
// rest of the tree.
func (s *Service) exportCategoryNode(app *entity.MagentoApp, api magento.CategoryAPI, menu *catalogEntity.CatalogMenu, defaultStoreView string, res *Result) {
	values := s.categoryValues(app, menu, "")
	if app.Debug {
		log.Printf("Magento %s. Category: %+v", app.Code, values)
	}

	mgnID := s.remoteMenuID(app, menu)
	if mgnID != 0 {
		if err := api.Update(mgnID, values, ""); err != nil {
			res.Failed++
			log.Printf("Magento %s. Error export category ID %d: %v", app.Code, menu.MenuID, err)
			return
		}
		res.Updated++
		log.Printf("Magento %s. Update category: %s (%d)", app.Code, menu.Name, menu.MenuID)
	} else {
		if menu.ParentID == nil {
			res.Failed++
			log.Printf("Magento %s. Error export category ID %d: no parent", app.Code, menu.MenuID)
			return
		}
		parent, err := s.menus.Get(*menu.ParentID)
		if err != nil {
			res.Failed++
			log.Printf("Magento %s. Error export category ID %d: %v", app.Code, menu.MenuID, err)
			return
		}
		parentMgnID := s.remoteMenuID(app, parent)
		if parentMgnID == 0 {
			parentMgnID = app.CategoryRootID
		}
		newID, err := api.Create(parentMgnID, values, defaultStoreView)
		if err != nil {
			res.Failed++
			log.Printf("Magento %s. Error export category ID %d: %v", app.Code, menu.MenuID, err)
			return
		}
		// Stamp and bind right away so a later failure cannot lose the id.
		err = s.db.Transaction(func(tx *gorm.DB) error {
			menu.MgnID = newID
			menu.AppID = app.AppID
			if err := s.menus.WithTx(tx).Save(menu); err != nil {
				return err
			}
			return s.extref.WithTx(tx).Bind(app.AppID, entity.ResourceMenu, menu.MenuID, newID)
		})
		if err != nil {
			res.Failed++
			log.Printf("Magento %s. Error export category ID %d: %v", app.Code, menu.MenuID, err)
			return
		}
		mgnID = newID
		res.Created++
		log.Printf("Magento %s. Create category: %s (%d)", app.Code, menu.Name, menu.MenuID)
	}

	// Language passes: update only, never create, against each extra
	// language's store view.
	for _, lang := range app.ExtraLanguages() {
		langValues := s.categoryValues(app, menu, lang.Lang)
		if err := api.Update(mgnID, langValues, lang.StoreView); err != nil {
			res.Failed++
			log.Printf("Magento %s. Error export category lang ID %d: %v", app.Code, menu.MenuID, err)
			continue
		}
		log.Printf("Magento %s. Update category: %s (%s)", app.Code, menu.Name, lang.Lang)
	}
}

// remoteMenuID resolves a node's remote id, preferring the external
// referential over the stamped column.
func (s *Service) remoteMenuID(app *entity.MagentoApp, menu *catalogEntity.CatalogMenu) uint {
	if id, ok := s.extref.GetRemote(app.AppID, entity.ResourceMenu, menu.MenuID); ok {
		return id
	}
	return menu.MgnID
}

// categoryValues builds the export value set for one node. lang selects the
// language overlay; empty lang means the base (default language) fields.
func (s *Service) categoryValues(app *entity.MagentoApp, menu *catalogEntity.CatalogMenu, lang string) magento.CategoryValues {
	name := menu.Name
	slug := menu.Slug
	description := menu.Description
	metaTitle := menu.MetaTitle
	metaDescription := menu.MetaDescription
	metaKeyword := menu.MetaKeyword

	if lang != "" {
		if row, ok := s.menus.Lang(menu.MenuID, lang); ok {
			if row.Name != "" {
				name = row.Name
			}
			if row.Slug != "" {
				slug = row.Slug
			}
			if row.Description != "" {
				description = row.Description
			}
			if row.MetaTitle != "" {
				metaTitle = row.MetaTitle
			}
			if row.MetaDescription != "" {
				metaDescription = row.MetaDescription
			}
			if row.MetaKeyword != "" {
				metaKeyword = row.MetaKeyword
			}
		}
	}

	sortBy := menu.DefaultSortBy
	if sortBy == "" {
		sortBy = "name"
	}
	if app.Wikimarkup {
		description = tools.MarkupToHTML(description)
	}

	return magento.CategoryValues{
		Name:            name,
		IsActive:        boolFlag(menu.Active),
		AvailableSortBy: sortBy,
		DefaultSortBy:   sortBy,
		Description:     description,
		MetaTitle:       metaTitle,
		MetaDescription: metaDescription,
		MetaKeywords:    metaKeyword,
		URLKey:          slug,
		IncludeInMenu:   boolFlag(menu.IncludeInMenu),
	}
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
