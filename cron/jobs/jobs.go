package jobs

import (
	"log"

	entity "magesync.GO/model/entity"
	syncService "magesync.GO/service/sync"
)

// runForApps runs one sync operation over the requested apps, or every active
// app when no codes are given. One app's precondition failure does not stop
// the others.
func runForApps(operation string, run func(*syncService.Service, *entity.MagentoApp) (*syncService.Result, error), codes ...string) {
	db, err := newDB()
	if err != nil {
		log.Printf("Cron %s: database connection failed: %v", operation, err)
		return
	}
	svc := syncService.NewDefaultService(db)

	var apps []entity.MagentoApp
	if len(codes) > 0 {
		for _, code := range codes {
			app, err := svc.App(code)
			if err != nil {
				log.Printf("Cron %s: %v", operation, err)
				continue
			}
			apps = append(apps, *app)
		}
	} else {
		apps, err = svc.ActiveApps()
		if err != nil {
			log.Printf("Cron %s: %v", operation, err)
			return
		}
	}

	for i := range apps {
		res, err := run(svc, &apps[i])
		if err != nil {
			log.Printf("Cron %s: app %s: %v", operation, apps[i].Code, err)
			continue
		}
		log.Printf("Cron %s: app %s: created=%d updated=%d skipped=%d failed=%d",
			operation, res.App, res.Created, res.Updated, res.Skipped, res.Failed)
	}
}

func CategoriesImportJob(args ...string) {
	runForApps("categories:import", (*syncService.Service).ImportCategories, args...)
}

func CategoriesExportJob(args ...string) {
	runForApps("categories:export", (*syncService.Service).ExportCategories, args...)
}

func ProductsImportJob(args ...string) {
	runForApps("products:import", (*syncService.Service).ImportProducts, args...)
}

func ProductsExportJob(args ...string) {
	runForApps("products:export", (*syncService.Service).ExportProducts, args...)
}
