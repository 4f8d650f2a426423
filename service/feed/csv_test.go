package feed

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	entity "magesync.GO/model/entity"
	catalogEntity "magesync.GO/model/entity/catalog"
	productEntity "magesync.GO/model/entity/product"
	syncService "magesync.GO/service/sync"
	"magesync.GO/tools"
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
		&entity.MagentoExternalReferential{},
		&entity.MagentoSyncRun{},
		&catalogEntity.CatalogMenu{},
		&catalogEntity.CatalogMenuLang{},
		&productEntity.MagentoAttributeConfigurable{},
		&productEntity.ProductTemplate{},
		&productEntity.ProductTemplateLang{},
		&productEntity.TemplateWebsite{},
		&productEntity.Product{},
		&productEntity.StockItem{},
		&productEntity.Attachment{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedFeedFixture(t *testing.T, db *gorm.DB) *entity.MagentoApp {
	t.Helper()
	app := entity.MagentoApp{
		Code: "shop", Name: "Shop", URI: "http://shop.example/api",
		Username: "sync", Password: "secret", Active: true,
		CatalogPrice: entity.CatalogPriceGlobal,
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatal(err)
	}
	langs := []entity.MagentoAppLanguage{
		{AppID: app.AppID, Lang: "es", StoreView: "es-view", IsDefault: true},
		{AppID: app.AppID, Lang: "en", StoreView: "en-view"},
	}
	if err := db.Create(&langs).Error; err != nil {
		t.Fatal(err)
	}
	app.Languages = langs

	tpl := productEntity.ProductTemplate{
		Name:               "Nórdico",
		Code:               "NORD",
		ListPrice:          49.5,
		MagentoProductType: "simple",
		EsaleAvailable:     true,
		EsaleActive:        true,
		EsaleVisibility:    productEntity.VisibilityAll,
		EsaleManageStock:   true,
	}
	if err := db.Create(&tpl).Error; err != nil {
		t.Fatal(err)
	}
	variant := productEntity.Product{TemplateID: tpl.TemplateID, Code: "NORD", Active: true}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatal(err)
	}
	overlay := productEntity.ProductTemplateLang{
		TemplateID: tpl.TemplateID, Lang: "en",
		Name: "Nordic duvet", EsaleSlug: "nordic-duvet",
	}
	if err := db.Create(&overlay).Error; err != nil {
		t.Fatal(err)
	}
	stock := productEntity.StockItem{TemplateID: tpl.TemplateID, Quantity: 5}
	if err := db.Create(&stock).Error; err != nil {
		t.Fatal(err)
	}

	main := productEntity.Attachment{
		TemplateID: tpl.TemplateID, Name: "photo.jpg", Digest: "abc123",
		Description:    "Édredon",
		EsaleAvailable: true, EsaleBaseImage: true, EsaleSmallImage: true,
	}
	hidden := productEntity.Attachment{
		TemplateID: tpl.TemplateID, Name: "hidden.jpg", Digest: "def456",
		EsaleAvailable: true, EsaleThumbnail: true, EsaleExclude: true,
	}
	if err := db.Create(&main).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&hidden).Error; err != nil {
		t.Fatal(err)
	}
	return &app
}

func TestExportCSV(t *testing.T) {
	db := testDB(t)
	app := seedFeedFixture(t, db)
	sync := syncService.NewService(db, syncService.Config{})
	svc := NewService(db, sync, Config{MediaURI: "/media/catalog/product/", BatchSize: 1})

	var buf bytes.Buffer
	if err := svc.ExportCSV(app, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	raw := buf.String()

	records, err := csv.NewReader(strings.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2 rows", len(records))
	}
	header := records[0]
	if !sort.StringsAreSorted(header) {
		t.Errorf("header not sorted: %v", header)
	}

	// Every field is quoted, including empty ones.
	firstLine := raw[:strings.Index(raw, "\r\n")]
	if got := strings.Count(firstLine, `"`); got < 2*len(header) {
		t.Errorf("header quotes = %d, want %d", got, 2*len(header))
	}

	index := func(record []string) map[string]string {
		row := make(map[string]string, len(header))
		for i, k := range header {
			row[k] = record[i]
		}
		return row
	}

	var def, lang map[string]string
	for _, rec := range records[1:] {
		row := index(rec)
		if row["store"] == "" {
			def = row
		} else {
			lang = row
		}
	}
	if def == nil || lang == nil {
		t.Fatal("missing default or localized row")
	}

	if def["sku"] != "NORD" || def["set"] != "4" {
		t.Errorf("default row sku/set = %q/%q", def["sku"], def["set"])
	}
	if def["price"] != "49.5000" {
		t.Errorf("price = %q", def["price"])
	}
	if def["qty"] != "5" || def["is_in_stock"] != "1" || def["manage_stock"] != "1" {
		t.Errorf("stock columns = %q/%q/%q", def["qty"], def["is_in_stock"], def["manage_stock"])
	}

	mainRef := "/media/catalog/product/abc123/" + tools.Slugify("photo.jpg") + "::" + tools.Unaccent("Édredon")
	if def["image"] != mainRef {
		t.Errorf("image = %q, want %q", def["image"], mainRef)
	}
	if def["small_image"] != mainRef {
		t.Errorf("small_image = %q, want %q", def["small_image"], mainRef)
	}
	// The excluded image still serves its role, dash-prefixed, and the label
	// falls back to the template name.
	hiddenRef := "-/media/catalog/product/def456/" + tools.Slugify("hidden.jpg") + "::" + tools.Unaccent("Nórdico")
	if def["thumbnail"] != hiddenRef {
		t.Errorf("thumbnail = %q, want %q", def["thumbnail"], hiddenRef)
	}
	// Excluded images stay out of the gallery.
	if def["media_gallery"] != mainRef {
		t.Errorf("media_gallery = %q, want %q", def["media_gallery"], mainRef)
	}

	if lang["store"] != "en-view" {
		t.Errorf("store = %q, want en-view", lang["store"])
	}
	if lang["name"] != "Nordic duvet" || lang["url_key"] != "nordic-duvet" {
		t.Errorf("localized row = %q/%q", lang["name"], lang["url_key"])
	}
	// Localized rows carry no stock columns.
	if lang["qty"] != "" {
		t.Errorf("localized qty = %q, want empty", lang["qty"])
	}
}

func TestExportCSVRequiresDefaultLanguage(t *testing.T) {
	db := testDB(t)
	app := entity.MagentoApp{
		Code: "bare", Name: "Bare", URI: "http://x", Username: "u", Password: "p",
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatal(err)
	}
	svc := NewService(db, syncService.NewService(db, syncService.Config{}), Config{})

	var buf bytes.Buffer
	if err := svc.ExportCSV(&app, &buf); err != syncService.ErrNoStoreView {
		t.Errorf("err = %v, want ErrNoStoreView", err)
	}
}
