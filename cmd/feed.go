package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"magesync.GO/config"
	feedService "magesync.GO/service/feed"
	syncService "magesync.GO/service/sync"
)

var (
	feedApp    string
	feedOutput string
	feedBatch  int
	feedIndex  bool
)

var feedCmd = &cobra.Command{
	Use:   "feed:csv",
	Short: "Write the bulk product CSV feed for one app",
	Run: func(cmd *cobra.Command, args []string) {
		config.LoadAppConfig()
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}
		svc := syncService.NewDefaultService(db)
		app, err := svc.App(feedApp)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		batch := feedBatch
		if batch <= 0 {
			batch = config.AppConfig.FeedBatchSize
		}
		cfg := feedService.Config{
			MediaURI:  config.AppConfig.MediaURI,
			BatchSize: batch,
		}
		if feedIndex {
			cfg.Indexer = feedService.GetIndexer()
		}
		feed := feedService.NewService(db, svc, cfg)

		out := os.Stdout
		if feedOutput != "" {
			f, err := os.Create(feedOutput)
			if err != nil {
				fmt.Printf("Cannot create %s: %v\n", feedOutput, err)
				return
			}
			defer f.Close()
			out = f
		}
		if err := feed.ExportCSV(app, out); err != nil {
			fmt.Printf("Feed failed: %v\n", err)
		}
	},
}

func init() {
	feedCmd.Flags().StringVarP(&feedApp, "app", "a", "", "App code (required)")
	feedCmd.MarkFlagRequired("app")
	feedCmd.Flags().StringVarP(&feedOutput, "output", "o", "", "Output file (default stdout)")
	feedCmd.Flags().IntVar(&feedBatch, "batch-size", 0, "Stock batch size (default from config)")
	feedCmd.Flags().BoolVar(&feedIndex, "index", false, "Also bulk-index rows into Elasticsearch")
	rootCmd.AddCommand(feedCmd)
}
