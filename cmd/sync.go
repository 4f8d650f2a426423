package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"magesync.GO/config"
	entity "magesync.GO/model/entity"
	syncService "magesync.GO/service/sync"
)

// syncOperations maps each sync command to its service entry point.
var syncOperations = []struct {
	use   string
	short string
	run   func(*syncService.Service, *entity.MagentoApp) (*syncService.Result, error)
}{
	{"categories:import", "Import the remote category tree into the local catalog menus", (*syncService.Service).ImportCategories},
	{"categories:export", "Export the local catalog menus to the remote category tree", (*syncService.Service).ExportCategories},
	{"products:import", "Import remote products by date or id range", (*syncService.Service).ImportProducts},
	{"products:export", "Export available templates and variants to the remote catalog", (*syncService.Service).ExportProducts},
	{"links:import", "Import product links (related/upsell/crosssell)", (*syncService.Service).ImportProductLinks},
	{"types:import", "Import remote product type codes", (*syncService.Service).ImportProductTypes},
	{"attributes:import", "Import remote attribute sets as attribute groups", (*syncService.Service).ImportAttributeGroups},
	{"options:import", "Refresh selection attribute options from the remote side", (*syncService.Service).ImportAttributeOptions},
}

func runSync(run func(*syncService.Service, *entity.MagentoApp) (*syncService.Result, error), appFlag *string) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}
		svc := syncService.NewDefaultService(db)

		var apps []entity.MagentoApp
		if *appFlag != "" {
			app, err := svc.App(*appFlag)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			apps = []entity.MagentoApp{*app}
		} else {
			apps, err = svc.ActiveApps()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		}
		if len(apps) == 0 {
			fmt.Println("No active apps configured")
			return
		}

		for i := range apps {
			res, err := run(svc, &apps[i])
			if err != nil {
				fmt.Printf("App %s: %v\n", apps[i].Code, err)
				continue
			}
			fmt.Printf("App %s: created=%d updated=%d skipped=%d failed=%d\n",
				res.App, res.Created, res.Updated, res.Skipped, res.Failed)
			for _, w := range res.Warnings {
				fmt.Printf("  [warn] %s\n", w)
			}
		}
	}
}

func init() {
	for _, op := range syncOperations {
		// Each command gets its own flag variable.
		appFlag := new(string)
		c := &cobra.Command{
			Use:   op.use,
			Short: op.short,
			Run:   runSync(op.run, appFlag),
		}
		c.Flags().StringVarP(appFlag, "app", "a", "", "App code (default: all active apps)")
		rootCmd.AddCommand(c)
	}
}
