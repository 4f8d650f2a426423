package sync

import (
	"log"

	"gorm.io/gorm"

	"magesync.GO/magento"
	entity "magesync.GO/model/entity"
	catalogEntity "magesync.GO/model/entity/catalog"
	"magesync.GO/tools"
)

// ImportCategories pulls the remote category subtree rooted at the app's
// configured root into the local catalog menu tree. Create or update only,
// never delete. Running it twice against an unchanged remote tree is a no-op
// on the second run (update path, identical values).
func (s *Service) ImportCategories(app *entity.MagentoApp) (*Result, error) {
	res := newResult(app, "categories:import")
	run := s.startRun(app, res.Operation)

	err := s.importCategories(app, res)
	s.finishRun(run, res, err)
	if err != nil {
		return res, err
	}
	return res, nil
}

func (s *Service) importCategories(app *entity.MagentoApp, res *Result) error {
	log.Printf("Magento %s. Start import categories", app.Code)
	if app.CategoryRootID == 0 {
		return ErrNoCategoryRoot
	}

	api, err := s.dial(app)
	if err != nil {
		return err
	}
	categoryAPI := api.Category()

	tree, err := categoryAPI.Tree(app.CategoryRootID)
	if err != nil {
		return err
	}

	// Resolve or create the local root from the remote root's default data.
	root, err := s.saveCategoryNode(app, categoryAPI, tree.CategoryID, nil, res)
	if err != nil {
		return err
	}
	if !root.Active {
		root.Active = true
		if err := s.menus.Save(root); err != nil {
			return err
		}
	}

	if err := s.childrenCategories(app, categoryAPI, root.MenuID, tree, res); err != nil {
		return err
	}
	log.Printf("Magento %s. End import categories", app.Code)
	return nil
}

// childrenCategories walks the remote tree depth-first, creating or updating
// the local node for each child, then its language overlays, then recursing.
func (s *Service) childrenCategories(app *entity.MagentoApp, api magento.CategoryAPI, parentID uint, data *magento.CategoryTree, res *Result) error {
	for i := range data.Children {
		child := &data.Children[i]
		menu, err := s.saveCategoryNode(app, api, child.CategoryID, &parentID, res)
		if err != nil {
			return err
		}
		if len(child.Children) > 0 {
			if err := s.childrenCategories(app, api, menu.MenuID, child, res); err != nil {
				return err
			}
		}
	}
	return nil
}

// saveCategoryNode fetches the full remote record, creates or updates the
// local node under parentID, binds new nodes in the external referential and
// applies every extra language's overlay. One commit per node.
func (s *Service) saveCategoryNode(app *entity.MagentoApp, api magento.CategoryAPI, mgnID uint, parentID *uint, res *Result) (*catalogEntity.CatalogMenu, error) {
	info, err := api.Info(mgnID, "")
	if err != nil {
		return nil, err
	}

	var menu *catalogEntity.CatalogMenu
	bound := false
	if localID, ok := s.extref.GetLocal(app.AppID, entity.ResourceMenu, mgnID); ok {
		menu, err = s.menus.Get(localID)
		if err != nil {
			return nil, err
		}
		bound = true
	} else if found, ok := s.menus.FindByMgnID(app.AppID, mgnID); ok {
		// Stamped by an earlier export but never bound: adopt the node
		// instead of creating a duplicate.
		menu = found
	}

	created := menu == nil
	if created {
		menu = &catalogEntity.CatalogMenu{}
	}
	applyCategoryRecord(menu, info)
	menu.AppID = app.AppID
	menu.MgnID = info.CategoryID
	menu.ParentID = parentID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.menus.WithTx(tx).Save(menu); err != nil {
			return err
		}
		if !bound {
			return s.extref.WithTx(tx).Bind(app.AppID, entity.ResourceMenu, menu.MenuID, info.CategoryID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if created {
		res.Created++
		log.Printf("Magento %s. Create category %s (%d)", app.Code, menu.Name, menu.MenuID)
	} else {
		res.Updated++
		log.Printf("Magento %s. Update category %s (%d)", app.Code, menu.Name, menu.MenuID)
	}

	// The default language already wrote the base fields; every other
	// configured language writes a language-scoped overlay.
	for _, lang := range app.ExtraLanguages() {
		langInfo, err := api.Info(mgnID, lang.StoreView)
		if err != nil {
			return nil, err
		}
		row := categoryLangOverlay(menu.MenuID, lang.Lang, langInfo)
		if err := s.menus.WriteLang(row); err != nil {
			return nil, err
		}
		log.Printf("Magento %s. Update category %s (%d-%s)", app.Code, langInfo.Name, menu.MenuID, lang.Lang)
	}
	return menu, nil
}

// applyCategoryRecord maps the remote record onto the base (default
// language) fields of a node. Enumerated assignments, no open field dict.
func applyCategoryRecord(menu *catalogEntity.CatalogMenu, data *magento.CategoryRecord) {
	sortBy := data.DefaultSortBy
	if sortBy == "None" {
		sortBy = ""
	}
	slug := data.URLKey
	if slug == "" {
		slug = tools.Slugify(data.Name)
	}
	menu.Name = data.Name
	menu.Active = data.IsActive == "1"
	menu.DefaultSortBy = sortBy
	menu.Slug = slug
	menu.Description = data.Description
	menu.MetaTitle = seoOrEmpty(data.MetaTitle)
	menu.MetaDescription = seoOrEmpty(data.MetaDescription)
	menu.MetaKeyword = seoOrEmpty(data.MetaKeywords)
	menu.IncludeInMenu = data.IncludeInMenu != "0"
	menu.Sequence = data.Position
}

// categoryLangOverlay maps the store-view-scoped record onto an overlay row.
// Store views inherit unset values from the default scope remotely, so every
// field is written exactly as returned, empty or not.
func categoryLangOverlay(menuID uint, lang string, data *magento.CategoryRecord) *catalogEntity.CatalogMenuLang {
	row := &catalogEntity.CatalogMenuLang{MenuID: menuID, Lang: lang}
	row.Name = data.Name
	row.Slug = data.URLKey
	row.Description = data.Description
	row.MetaTitle = seoOrEmpty(data.MetaTitle)
	row.MetaDescription = seoOrEmpty(data.MetaDescription)
	row.MetaKeyword = seoOrEmpty(data.MetaKeywords)
	return row
}

func seoOrEmpty(s string) string {
	if s == "" {
		return ""
	}
	return tools.SEOLenght(s)
}
