package sync

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"magesync.GO/magento"
	entity "magesync.GO/model/entity"
	catalogEntity "magesync.GO/model/entity/catalog"
	productEntity "magesync.GO/model/entity/product"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&entity.MagentoApp{},
		&entity.MagentoAppLanguage{},
		&entity.MagentoWebsite{},
		&entity.MagentoGroupPrice{},
		&entity.MagentoExternalReferential{},
		&entity.MagentoSyncRun{},
		&catalogEntity.CatalogMenu{},
		&catalogEntity.CatalogMenuLang{},
		&productEntity.ProductTemplate{},
		&productEntity.ProductTemplateLang{},
		&productEntity.TemplateWebsite{},
		&productEntity.Product{},
		&productEntity.StockItem{},
		&productEntity.Attachment{},
		&productEntity.MagentoProductType{},
		&productEntity.EsaleAttributeGroup{},
		&productEntity.ProductAttribute{},
		&productEntity.MagentoAttributeConfigurable{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// testApp persists an app profile with a default language and one website.
func testApp(t *testing.T, db *gorm.DB, extraLangs ...string) *entity.MagentoApp {
	t.Helper()
	app := entity.MagentoApp{
		Code:           "shop",
		Name:           "Test shop",
		URI:            "http://shop.example/api",
		Username:       "sync",
		Password:       "secret",
		Active:         true,
		CategoryRootID: 300,
		CatalogPrice:   entity.CatalogPriceGlobal,
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("create app: %v", err)
	}
	langs := []entity.MagentoAppLanguage{
		{AppID: app.AppID, Lang: "es", StoreView: "es-view", IsDefault: true},
	}
	for _, l := range extraLangs {
		langs = append(langs, entity.MagentoAppLanguage{
			AppID: app.AppID, Lang: l, StoreView: l + "-view",
		})
	}
	if err := db.Create(&langs).Error; err != nil {
		t.Fatalf("create languages: %v", err)
	}
	site := entity.MagentoWebsite{AppID: app.AppID, Code: "base", Name: "Base"}
	if err := db.Create(&site).Error; err != nil {
		t.Fatalf("create website: %v", err)
	}
	app.Languages = langs
	app.Websites = []entity.MagentoWebsite{site}
	return &app
}

// fakeRemote is an in-memory stand-in for the remote endpoint. Category and
// product stores are keyed "id|storeView"; a missing store view key falls
// back to the default-store record, like the remote side does.
type fakeRemote struct {
	tree          *magento.CategoryTree
	categories    map[string]*magento.CategoryRecord
	nextCatID     uint
	catParents    map[uint]uint
	catUpdates    map[string]int
	failCatNames  map[string]bool

	products     []magento.ProductSummary
	productInfos map[string]*magento.ProductRecord
	images       map[string][]magento.ImageRecord
	nextProdID   uint
	prodCreates  map[string]magento.ProductValues
	prodUpdates  map[string]magento.ProductValues
	failSKUs     map[string]bool

	types      []magento.TypeRecord
	sets       []magento.AttributeSetRecord
	attributes map[uint][]magento.AttributeRecord
	options    map[string][]magento.OptionRecord
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		categories:   map[string]*magento.CategoryRecord{},
		nextCatID:    1000,
		catParents:   map[uint]uint{},
		catUpdates:   map[string]int{},
		failCatNames: map[string]bool{},
		productInfos: map[string]*magento.ProductRecord{},
		images:       map[string][]magento.ImageRecord{},
		nextProdID:   2000,
		prodCreates:  map[string]magento.ProductValues{},
		prodUpdates:  map[string]magento.ProductValues{},
		failSKUs:     map[string]bool{},
		attributes:   map[uint][]magento.AttributeRecord{},
		options:      map[string][]magento.OptionRecord{},
	}
}

func (f *fakeRemote) dial(_ *entity.MagentoApp) (magento.API, error) { return f, nil }

func (f *fakeRemote) addCategory(rec *magento.CategoryRecord, storeView string) {
	f.categories[catKey(rec.CategoryID, storeView)] = rec
}

func catKey(id uint, storeView string) string {
	return fmt.Sprintf("%d|%s", id, storeView)
}

func (f *fakeRemote) Category() magento.CategoryAPI                     { return fakeCategoryAPI{f} }
func (f *fakeRemote) Product() magento.ProductAPI                       { return fakeProductAPI{f} }
func (f *fakeRemote) ProductImages() magento.ProductImagesAPI           { return fakeImagesAPI{f} }
func (f *fakeRemote) ProductTypes() magento.ProductTypesAPI             { return fakeTypesAPI{f} }
func (f *fakeRemote) ProductAttributeSet() magento.ProductAttributeSetAPI { return fakeSetAPI{f} }
func (f *fakeRemote) ProductAttribute() magento.ProductAttributeAPI     { return fakeAttributeAPI{f} }

type fakeCategoryAPI struct{ f *fakeRemote }

func (a fakeCategoryAPI) Tree(parentID uint) (*magento.CategoryTree, error) {
	if a.f.tree == nil {
		return nil, fmt.Errorf("no tree under %d", parentID)
	}
	return a.f.tree, nil
}

func (a fakeCategoryAPI) Info(id uint, storeView string) (*magento.CategoryRecord, error) {
	if rec, ok := a.f.categories[catKey(id, storeView)]; ok {
		return rec, nil
	}
	if rec, ok := a.f.categories[catKey(id, "")]; ok {
		return rec, nil
	}
	return nil, fmt.Errorf("category %d not found", id)
}

func (a fakeCategoryAPI) Create(parentID uint, values magento.CategoryValues, storeView string) (uint, error) {
	if a.f.failCatNames[values.Name] {
		return 0, fmt.Errorf("remote rejected category %q", values.Name)
	}
	a.f.nextCatID++
	id := a.f.nextCatID
	a.f.catParents[id] = parentID
	a.f.categories[catKey(id, "")] = &magento.CategoryRecord{
		CategoryID: id,
		ParentID:   parentID,
		Name:       values.Name,
		IsActive:   values.IsActive,
		URLKey:     values.URLKey,
	}
	return id, nil
}

func (a fakeCategoryAPI) Update(id uint, values magento.CategoryValues, storeView string) error {
	if _, ok := a.f.categories[catKey(id, "")]; !ok {
		return fmt.Errorf("category %d not found", id)
	}
	a.f.catUpdates[catKey(id, storeView)]++
	return nil
}

type fakeProductAPI struct{ f *fakeRemote }

func (a fakeProductAPI) List(filter magento.Filter) ([]magento.ProductSummary, error) {
	return a.f.products, nil
}

func (a fakeProductAPI) Info(idOrSKU string, storeView string) (*magento.ProductRecord, error) {
	if rec, ok := a.f.productInfos[idOrSKU+"|"+storeView]; ok {
		return rec, nil
	}
	if rec, ok := a.f.productInfos[idOrSKU+"|"]; ok {
		return rec, nil
	}
	return nil, fmt.Errorf("product %s not found", idOrSKU)
}

func (a fakeProductAPI) Create(typeID, set, sku string, values magento.ProductValues) (uint, error) {
	if a.f.failSKUs[sku] {
		return 0, fmt.Errorf("remote rejected product %q", sku)
	}
	a.f.nextProdID++
	a.f.prodCreates[sku] = values
	return a.f.nextProdID, nil
}

func (a fakeProductAPI) Update(idOrSKU string, values magento.ProductValues, storeView string) error {
	if a.f.failSKUs[idOrSKU] {
		return fmt.Errorf("remote rejected product %q", idOrSKU)
	}
	a.f.prodUpdates[idOrSKU+"|"+storeView] = values
	return nil
}

type fakeImagesAPI struct{ f *fakeRemote }

func (a fakeImagesAPI) List(idOrSKU string) ([]magento.ImageRecord, error) {
	return a.f.images[idOrSKU], nil
}

type fakeTypesAPI struct{ f *fakeRemote }

func (a fakeTypesAPI) List() ([]magento.TypeRecord, error) { return a.f.types, nil }

type fakeSetAPI struct{ f *fakeRemote }

func (a fakeSetAPI) List() ([]magento.AttributeSetRecord, error) { return a.f.sets, nil }

type fakeAttributeAPI struct{ f *fakeRemote }

func (a fakeAttributeAPI) List(setID uint) ([]magento.AttributeRecord, error) {
	return a.f.attributes[setID], nil
}

func (a fakeAttributeAPI) Options(attribute string) ([]magento.OptionRecord, error) {
	return a.f.options[attribute], nil
}

func newTestService(db *gorm.DB, f *fakeRemote) *Service {
	return NewService(db, Config{Dial: f.dial})
}
