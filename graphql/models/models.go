// Package models holds the GraphQL view types for the sync-state schema.
package models

type App struct {
	Code         string
	Name         string
	URI          string
	Active       bool
	CatalogPrice string
	Wikimarkup   bool
	Languages    []AppLanguage
	Websites     []Website
}

type AppLanguage struct {
	Lang      string
	StoreView string
	IsDefault bool
}

type Website struct {
	Code string
	Name string
}

type SyncRun struct {
	RunID      int32
	App        string
	Operation  string
	Status     string
	Created    int32
	Updated    int32
	Skipped    int32
	Failed     int32
	Error      *string
	StartedAt  string
	FinishedAt *string
}

type Mapping struct {
	App      string
	Resource string
	LocalID  int32
	MgnID    int32
}
