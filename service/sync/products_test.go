package sync

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"magesync.GO/magento"
	entity "magesync.GO/model/entity"
	catalogEntity "magesync.GO/model/entity/catalog"
	productEntity "magesync.GO/model/entity/product"
)

func seedRemoteProduct(f *fakeRemote) {
	f.products = []magento.ProductSummary{
		{ProductID: 150, SKU: "TSHIRT", Name: "Camiseta", TypeID: "simple"},
	}
	f.productInfos["150|"] = &magento.ProductRecord{
		ProductID:        150,
		SKU:              "TSHIRT",
		Name:             "Camiseta",
		TypeID:           "simple",
		Status:           "1",
		Visibility:       "2",
		Price:            "19.99",
		ShortDescription: "Camiseta de algodón",
		Categories:       []uint{555, 999},
	}
	f.productInfos["TSHIRT|en-view"] = &magento.ProductRecord{
		ProductID: 150,
		SKU:       "TSHIRT",
		Name:      "T-Shirt",
		URLKey:    "t-shirt",
	}
}

func TestImportProductsAdvancesIDRange(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db, "en")
	f := newFakeRemote()
	seedRemoteProduct(f)
	svc := newTestService(db, f)

	// One bound category; 999 stays unresolved and is dropped.
	menu := catalogEntity.CatalogMenu{AppID: app.AppID, Name: "Shirts", Active: true}
	if err := db.Create(&menu).Error; err != nil {
		t.Fatal(err)
	}
	if err := svc.extref.Bind(app.AppID, entity.ResourceMenu, menu.MenuID, 555); err != nil {
		t.Fatal(err)
	}

	from, to := uint(10), uint(20)
	app.FromIDProducts, app.ToIDProducts = &from, &to
	err := db.Model(&entity.MagentoApp{}).Where("app_id = ?", app.AppID).
		Updates(map[string]interface{}{"from_id_products": from, "to_id_products": to}).Error
	if err != nil {
		t.Fatal(err)
	}

	res, err := svc.ImportProducts(app)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Created != 1 || res.Updated != 0 {
		t.Errorf("created=%d updated=%d, want 1/0", res.Created, res.Updated)
	}
	if res.NextFromID == nil || *res.NextFromID != 21 {
		t.Errorf("NextFromID = %v, want 21", res.NextFromID)
	}

	// The watermark is persisted: old upper bound + 1 becomes the new lower
	// bound, the upper bound is cleared.
	var stored entity.MagentoApp
	if err := db.First(&stored, app.AppID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.FromIDProducts == nil || *stored.FromIDProducts != 21 {
		t.Errorf("stored from = %v, want 21", stored.FromIDProducts)
	}
	if stored.ToIDProducts != nil {
		t.Errorf("stored to = %v, want nil", stored.ToIDProducts)
	}

	tpl, ok := svc.products.FindTemplateByCode("TSHIRT")
	if !ok {
		t.Fatal("template not created")
	}
	if tpl.EsaleVisibility != productEntity.VisibilityCatalog {
		t.Errorf("visibility = %q, want catalog", tpl.EsaleVisibility)
	}
	if !tpl.EsaleAvailable {
		t.Error("status 1 should mark the template available")
	}
	if tpl.ListPrice != 19.99 {
		t.Errorf("list price = %v, want 19.99", tpl.ListPrice)
	}
	if tpl.EsaleSlug != "camiseta" {
		t.Errorf("slug = %q, want slugified name", tpl.EsaleSlug)
	}
	if len(tpl.Products) != 1 {
		t.Fatalf("variants = %d, want 1", len(tpl.Products))
	}

	localID, ok := svc.extref.GetLocal(app.AppID, entity.ResourceProduct, 150)
	if !ok || localID != tpl.Products[0].ProductID {
		t.Errorf("binding local = %d/%v, want variant %d", localID, ok, tpl.Products[0].ProductID)
	}

	// Extra language wrote an overlay, websites fell back to the app's
	// configured site, the resolvable category was attached.
	row, ok := svc.products.Lang(tpl.TemplateID, "en")
	if !ok || row.Name != "T-Shirt" {
		t.Errorf("overlay = %+v", row)
	}
	var sites []productEntity.TemplateWebsite
	db.Where("template_id = ?", tpl.TemplateID).Find(&sites)
	if len(sites) != 1 || sites[0].WebsiteID != app.Websites[0].WebsiteID {
		t.Errorf("websites = %+v", sites)
	}
	var menuCount int64
	db.Table("product_template_menu").Where("template_id = ?", tpl.TemplateID).Count(&menuCount)
	if menuCount != 1 {
		t.Errorf("attached menus = %d, want 1", menuCount)
	}

	// Cleared range: nothing to import.
	reloaded, err := svc.App(app.Code)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ImportProducts(reloaded); !errors.Is(err, ErrNoProducts) {
		t.Errorf("err = %v, want ErrNoProducts", err)
	}

	// Re-running with a fresh range finds the binding and updates in place.
	app.FromIDProducts, app.ToIDProducts = &from, &to
	res, err = svc.ImportProducts(app)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if res.Created != 0 || res.Updated != 1 {
		t.Errorf("re-import created=%d updated=%d, want 0/1", res.Created, res.Updated)
	}
	var tplCount int64
	db.Model(&productEntity.ProductTemplate{}).Count(&tplCount)
	if tplCount != 1 {
		t.Errorf("template count = %d, want 1", tplCount)
	}
}

func TestImportProductsAdvancesDateRange(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)
	f := newFakeRemote()
	seedRemoteProduct(f)
	svc := newTestService(db, f)

	fromDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	toDate := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	app.FromDateProducts, app.ToDateProducts = &fromDate, &toDate

	res, err := svc.ImportProducts(app)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	// The list is fetched by created_at and updated_at; the same product on
	// both lists is imported once.
	if res.Created != 1 {
		t.Errorf("created = %d, want 1", res.Created)
	}
	if res.NextFromDate == nil || !res.NextFromDate.Equal(toDate) {
		t.Errorf("NextFromDate = %v, want %v", res.NextFromDate, toDate)
	}

	var stored entity.MagentoApp
	if err := db.First(&stored, app.AppID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.FromDateProducts == nil || stored.FromDateProducts.Unix() != toDate.Unix() {
		t.Errorf("stored from = %v, want %v", stored.FromDateProducts, toDate)
	}
	if stored.ToDateProducts != nil {
		t.Errorf("stored to = %v, want nil", stored.ToDateProducts)
	}
}

func TestImportProductsRequiresWebsites(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)
	app.Websites = nil
	svc := newTestService(db, newFakeRemote())

	if _, err := svc.ImportProducts(app); !errors.Is(err, ErrNoWebsites) {
		t.Errorf("err = %v, want ErrNoWebsites", err)
	}
}

func TestExportProductsCreateBindUpdate(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)
	f := newFakeRemote()
	svc := newTestService(db, f)

	tpl := productEntity.ProductTemplate{
		Name:               "Camiseta",
		Code:               "TSHIRT",
		ListPrice:          10,
		MagentoProductType: "simple",
		EsaleAvailable:     true,
		EsaleActive:        true,
		EsaleVisibility:    productEntity.VisibilityAll,
	}
	if err := db.Create(&tpl).Error; err != nil {
		t.Fatal(err)
	}
	v1 := productEntity.Product{TemplateID: tpl.TemplateID, Code: "TSHIRT-S", Active: true}
	v2 := productEntity.Product{TemplateID: tpl.TemplateID, Code: "TSHIRT-M", Active: true}
	if err := db.Create(&v1).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&v2).Error; err != nil {
		t.Fatal(err)
	}

	// The second variant is rejected on the first run; the rest goes through.
	f.failSKUs["TSHIRT-M"] = true

	res, err := svc.ExportProducts(app)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Created != 1 || res.Failed != 1 {
		t.Errorf("created=%d failed=%d, want 1/1", res.Created, res.Failed)
	}

	mgnID, ok := svc.extref.GetRemote(app.AppID, entity.ResourceProduct, v1.ProductID)
	if !ok || mgnID == 0 {
		t.Fatal("first variant not bound after create")
	}
	values, ok := f.prodCreates["TSHIRT-S"]
	if !ok {
		t.Fatal("no create payload recorded")
	}
	if values.Price != "10.0000" {
		t.Errorf("price = %q, want 10.0000", values.Price)
	}
	if values.Status != "1" {
		t.Errorf("status = %q, want 1", values.Status)
	}
	if values.Visibility != "4" {
		t.Errorf("visibility = %q, want 4", values.Visibility)
	}

	// Second run: the bound variant updates in place, the failed one recovers.
	delete(f.failSKUs, "TSHIRT-M")
	res, err = svc.ExportProducts(app)
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if res.Created != 1 || res.Updated != 1 || res.Failed != 0 {
		t.Errorf("second run created=%d updated=%d failed=%d, want 1/1/0", res.Created, res.Updated, res.Failed)
	}
	if _, ok := f.prodUpdates[strconv.FormatUint(uint64(mgnID), 10)+"|"]; !ok {
		t.Error("bound variant was not updated by remote id")
	}
}

func TestExportProductsUnmappedPolicy(t *testing.T) {
	// The template carries one bound and one unbound menu and website; what
	// happens to the unbound half depends on the configured policy.
	setup := func(t *testing.T, policy UnmappedPolicy) (*Service, *fakeRemote, *entity.MagentoApp) {
		t.Helper()
		db := testDB(t)
		app := testApp(t, db)
		f := newFakeRemote()
		svc := NewService(db, Config{Dial: f.dial, OnUnmapped: policy})

		boundMenu := catalogEntity.CatalogMenu{Name: "Bound", Active: true, AppID: app.AppID}
		unboundMenu := catalogEntity.CatalogMenu{Name: "Unbound", Active: true, AppID: app.AppID}
		if err := db.Create(&boundMenu).Error; err != nil {
			t.Fatal(err)
		}
		if err := db.Create(&unboundMenu).Error; err != nil {
			t.Fatal(err)
		}
		if err := svc.extref.Bind(app.AppID, entity.ResourceMenu, boundMenu.MenuID, 777); err != nil {
			t.Fatal(err)
		}
		orphanSite := entity.MagentoWebsite{AppID: app.AppID, Code: "extra", Name: "Extra"}
		if err := db.Create(&orphanSite).Error; err != nil {
			t.Fatal(err)
		}
		if err := svc.extref.Bind(app.AppID, entity.ResourceWebsite, app.Websites[0].WebsiteID, 11); err != nil {
			t.Fatal(err)
		}

		tpl := productEntity.ProductTemplate{
			Name:               "Camiseta",
			Code:               "TSHIRT",
			ListPrice:          10,
			MagentoProductType: "simple",
			EsaleAvailable:     true,
			EsaleActive:        true,
			EsaleVisibility:    productEntity.VisibilityAll,
		}
		if err := db.Create(&tpl).Error; err != nil {
			t.Fatal(err)
		}
		if err := db.Model(&tpl).Association("Menus").Append(&boundMenu, &unboundMenu); err != nil {
			t.Fatal(err)
		}
		sites := []productEntity.TemplateWebsite{
			{TemplateID: tpl.TemplateID, WebsiteID: app.Websites[0].WebsiteID},
			{TemplateID: tpl.TemplateID, WebsiteID: orphanSite.WebsiteID},
		}
		if err := db.Create(&sites).Error; err != nil {
			t.Fatal(err)
		}
		v := productEntity.Product{TemplateID: tpl.TemplateID, Code: "TSHIRT-1", Active: true}
		if err := db.Create(&v).Error; err != nil {
			t.Fatal(err)
		}
		return svc, f, app
	}

	t.Run("drop", func(t *testing.T) {
		svc, f, app := setup(t, UnmappedDrop)

		res, err := svc.ExportProducts(app)
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		if res.Created != 1 || res.Failed != 0 {
			t.Errorf("created=%d failed=%d, want 1/0", res.Created, res.Failed)
		}
		if len(res.Warnings) != 0 {
			t.Errorf("warnings = %v, want none", res.Warnings)
		}
		values, ok := f.prodCreates["TSHIRT-1"]
		if !ok {
			t.Fatal("no create payload recorded")
		}
		if len(values.Categories) != 1 || values.Categories[0] != 777 {
			t.Errorf("categories = %v, want [777]", values.Categories)
		}
		if len(values.Websites) != 1 || values.Websites[0] != 11 {
			t.Errorf("websites = %v, want [11]", values.Websites)
		}
	})

	t.Run("warn", func(t *testing.T) {
		svc, f, app := setup(t, UnmappedWarn)

		res, err := svc.ExportProducts(app)
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		if res.Created != 1 || res.Failed != 0 {
			t.Errorf("created=%d failed=%d, want 1/0", res.Created, res.Failed)
		}
		// One warning per unbound reference; the values are dropped the same
		// way as under the silent policy.
		if len(res.Warnings) != 2 {
			t.Fatalf("warnings = %v, want 2", res.Warnings)
		}
		joined := strings.Join(res.Warnings, "\n")
		if !strings.Contains(joined, "category") || !strings.Contains(joined, "website") {
			t.Errorf("warnings = %v, want one per unmapped category and website", res.Warnings)
		}
		values := f.prodCreates["TSHIRT-1"]
		if len(values.Categories) != 1 || len(values.Websites) != 1 {
			t.Errorf("categories=%v websites=%v, want the bound ids only", values.Categories, values.Websites)
		}
	})

	t.Run("fail", func(t *testing.T) {
		svc, f, app := setup(t, UnmappedFail)

		// A second template without unbound references, exported after the
		// failing one.
		clean := productEntity.ProductTemplate{
			Name:               "Gorra",
			Code:               "GORRA",
			ListPrice:          5,
			MagentoProductType: "simple",
			EsaleAvailable:     true,
			EsaleActive:        true,
			EsaleVisibility:    productEntity.VisibilityAll,
		}
		if err := svc.db.Create(&clean).Error; err != nil {
			t.Fatal(err)
		}
		cv := productEntity.Product{TemplateID: clean.TemplateID, Code: "GORRA-1", Active: true}
		if err := svc.db.Create(&cv).Error; err != nil {
			t.Fatal(err)
		}

		res, err := svc.ExportProducts(app)
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		if res.Created != 1 || res.Failed != 1 {
			t.Errorf("created=%d failed=%d, want 1/1", res.Created, res.Failed)
		}
		if _, ok := f.prodCreates["TSHIRT-1"]; ok {
			t.Error("record with an unbound reference was exported under the fail policy")
		}
		if _, ok := f.prodCreates["GORRA-1"]; !ok {
			t.Error("failure did not leave the rest of the walk running")
		}
	})
}

func TestExportConfigurableUsesTemplateBinding(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)
	f := newFakeRemote()
	svc := newTestService(db, f)

	tpl := productEntity.ProductTemplate{
		Name:               "Nórdico",
		Code:               "NORD",
		ListPrice:          49.5,
		MagentoProductType: "configurable",
		EsaleAvailable:     true,
		EsaleActive:        true,
		EsaleVisibility:    productEntity.VisibilityAll,
	}
	if err := db.Create(&tpl).Error; err != nil {
		t.Fatal(err)
	}
	v1 := productEntity.Product{TemplateID: tpl.TemplateID, Code: "NORD-150", Active: true}
	if err := db.Create(&v1).Error; err != nil {
		t.Fatal(err)
	}

	res, err := svc.ExportProducts(app)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Created != 1 {
		t.Errorf("created = %d, want 1", res.Created)
	}

	// One remote product per template, keyed on the template, not the variants.
	if _, ok := f.prodCreates["NORD"]; !ok {
		t.Error("configurable not created under the template code")
	}
	if _, ok := f.prodCreates["NORD-150"]; ok {
		t.Error("variant of a configurable exported on its own")
	}
	if _, ok := svc.extref.GetRemote(app.AppID, entity.ResourceTemplate, tpl.TemplateID); !ok {
		t.Error("template not bound")
	}
	if _, ok := svc.extref.GetRemote(app.AppID, entity.ResourceProduct, v1.ProductID); ok {
		t.Error("variant bound for a configurable export")
	}
}

func TestVisibilityCodes(t *testing.T) {
	cases := map[string]string{
		"1": productEntity.VisibilityNone,
		"2": productEntity.VisibilityCatalog,
		"3": productEntity.VisibilitySearch,
		"4": productEntity.VisibilityAll,
		"9": productEntity.VisibilityAll,
	}
	for code, want := range cases {
		if got := visibilityFromCode(code); got != want {
			t.Errorf("visibilityFromCode(%q) = %q, want %q", code, got, want)
		}
	}
	for _, v := range []string{
		productEntity.VisibilityNone,
		productEntity.VisibilityCatalog,
		productEntity.VisibilitySearch,
		productEntity.VisibilityAll,
	} {
		if v == productEntity.VisibilityAll {
			continue
		}
		if got := visibilityFromCode(visibilityToCode(v)); got != v {
			t.Errorf("round trip %q -> %q", v, got)
		}
	}
	if visibilityToCode("whatever") != "4" {
		t.Error("unknown local visibility should export as 4")
	}
}

func TestImportProductLinksNotAvailable(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)
	svc := newTestService(db, newFakeRemote())

	if _, err := svc.ImportProductLinks(app); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("err = %v, want ErrNotAvailable", err)
	}
}
