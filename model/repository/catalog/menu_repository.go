package catalog

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogEntity "magesync.GO/model/entity/catalog"
)

// MenuRepository reads and writes catalog menu nodes and their language
// overlays.
type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// FindByMgnID looks up a node by its remote id within one app, including
// inactive nodes.
func (r *MenuRepository) FindByMgnID(appID, mgnID uint) (*catalogEntity.CatalogMenu, bool) {
	var menu catalogEntity.CatalogMenu
	err := r.db.Where("app_id = ? AND mgn_id = ?", appID, mgnID).First(&menu).Error
	if err != nil {
		return nil, false
	}
	return &menu, true
}

// Get fetches one node by local id.
func (r *MenuRepository) Get(menuID uint) (*catalogEntity.CatalogMenu, error) {
	var menu catalogEntity.CatalogMenu
	if err := r.db.First(&menu, menuID).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

// Save creates or updates a node.
func (r *MenuRepository) Save(menu *catalogEntity.CatalogMenu) error {
	return r.db.Save(menu).Error
}

// WriteLang upserts the language overlay row for (menu, lang).
func (r *MenuRepository) WriteLang(row *catalogEntity.CatalogMenuLang) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "menu_id"}, {Name: "lang"}},
		UpdateAll: true,
	}).Create(row).Error
}

// Lang returns the overlay row for (menu, lang) if present.
func (r *MenuRepository) Lang(menuID uint, lang string) (*catalogEntity.CatalogMenuLang, bool) {
	var row catalogEntity.CatalogMenuLang
	err := r.db.Where("menu_id = ? AND lang = ?", menuID, lang).First(&row).Error
	if err != nil {
		return nil, false
	}
	return &row, true
}

// AllChildren returns every descendant of the top node in breadth-first
// order, so parents always come before their children. The top node itself is
// not included.
func (r *MenuRepository) AllChildren(topID uint) ([]catalogEntity.CatalogMenu, error) {
	var out []catalogEntity.CatalogMenu
	frontier := []uint{topID}
	for len(frontier) > 0 {
		var level []catalogEntity.CatalogMenu
		if err := r.db.Where("parent_id IN ?", frontier).Order("sequence, menu_id").Find(&level).Error; err != nil {
			return nil, err
		}
		if len(level) == 0 {
			break
		}
		out = append(out, level...)
		frontier = frontier[:0]
		for _, m := range level {
			frontier = append(frontier, m.MenuID)
		}
	}
	return out, nil
}

// WithTx returns a repository bound to tx.
func (r *MenuRepository) WithTx(tx *gorm.DB) *MenuRepository {
	return &MenuRepository{db: tx}
}
