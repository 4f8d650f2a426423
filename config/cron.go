package config

import (
	"magesync.GO/cron/jobs"
)

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

var CronJobs = map[string]CronJob{
	"categoriesimport": {Schedule: "0 2 * * *", Job: jobs.CategoriesImportJob},
	"categoriesexport": {Schedule: "30 2 * * *", Job: jobs.CategoriesExportJob},
	"productsimport":   {Schedule: "0 3 * * *", Job: jobs.ProductsImportJob},
	"productsexport":   {Schedule: "0 4 * * *", Job: jobs.ProductsExportJob},
	// Add more jobs here
}
