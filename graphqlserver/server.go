package graphqlserver

import (
	"context"
	"encoding/json"
	"time"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"magesync.GO/core/cache"
	"magesync.GO/graphql"
	gqlmodels "magesync.GO/graphql/models"
	"magesync.GO/graphql/registry"
	entity "magesync.GO/model/entity"
)

const appCodesCacheKey = "graphql:app-codes"

// RootResolver is the root for graphql-go.
type RootResolver struct {
	DB *gorm.DB
}

// Query returns the query resolver.
func (r *RootResolver) Query() *QueryResolver {
	return &QueryResolver{db: r.DB}
}

// QueryResolver implements the sync-state Query fields.
type QueryResolver struct {
	db *gorm.DB
}

func (r *QueryResolver) Apps(ctx context.Context) ([]*gqlmodels.App, error) {
	var apps []entity.MagentoApp
	err := r.db.Preload("Languages").Preload("Websites").Find(&apps).Error
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.App, 0, len(apps))
	for i := range apps {
		out = append(out, appModel(&apps[i]))
	}
	return out, nil
}

// SyncRunsArgs matches the syncRuns query arguments.
type SyncRunsArgs struct {
	App   *string
	Limit *int32
}

func (r *QueryResolver) SyncRuns(ctx context.Context, args SyncRunsArgs) ([]*gqlmodels.SyncRun, error) {
	limit := 50
	if args.Limit != nil && *args.Limit > 0 {
		limit = int(*args.Limit)
	}
	q := r.db.Model(&entity.MagentoSyncRun{}).Order("run_id DESC").Limit(limit)

	codes, err := r.appCodes()
	if err != nil {
		return nil, err
	}
	if args.App != nil && *args.App != "" {
		var app entity.MagentoApp
		if err := r.db.Where("code = ?", *args.App).First(&app).Error; err != nil {
			return nil, err
		}
		q = q.Where("app_id = ?", app.AppID)
	}

	var runs []entity.MagentoSyncRun
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.SyncRun, 0, len(runs))
	for i := range runs {
		out = append(out, runModel(&runs[i], codes))
	}
	return out, nil
}

// MappingsArgs matches the mappings query arguments.
type MappingsArgs struct {
	App      *string
	Resource *string
}

func (r *QueryResolver) Mappings(ctx context.Context, args MappingsArgs) ([]*gqlmodels.Mapping, error) {
	q := r.db.Model(&entity.MagentoExternalReferential{}).Order("ref_id")
	codes, err := r.appCodes()
	if err != nil {
		return nil, err
	}
	if args.App != nil && *args.App != "" {
		var app entity.MagentoApp
		if err := r.db.Where("code = ?", *args.App).First(&app).Error; err != nil {
			return nil, err
		}
		q = q.Where("app_id = ?", app.AppID)
	}
	if args.Resource != nil && *args.Resource != "" {
		q = q.Where("resource = ?", *args.Resource)
	}

	var refs []entity.MagentoExternalReferential
	if err := q.Find(&refs).Error; err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.Mapping, 0, len(refs))
	for _, ref := range refs {
		out = append(out, &gqlmodels.Mapping{
			App:      codes[ref.AppID],
			Resource: ref.Resource,
			LocalID:  int32(ref.LocalID),
			MgnID:    int32(ref.MgnID),
		})
	}
	return out, nil
}

// ExtensionArgs for extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	var m map[string]interface{}
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	if m == nil {
		m = make(map[string]interface{})
	}
	out, err := registry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// appCodes maps app ids to codes for run and mapping rows. Cached briefly:
// every syncRuns/mappings query needs it and app profiles rarely change.
func (r *QueryResolver) appCodes() (map[uint]string, error) {
	if v, ok := cache.GetInstance().Get(appCodesCacheKey); ok {
		return v.(map[uint]string), nil
	}
	var apps []entity.MagentoApp
	if err := r.db.Find(&apps).Error; err != nil {
		return nil, err
	}
	codes := make(map[uint]string, len(apps))
	for _, a := range apps {
		codes[a.AppID] = a.Code
	}
	cache.GetInstance().Set(appCodesCacheKey, codes, 60, []string{"apps"})
	return codes, nil
}

func appModel(app *entity.MagentoApp) *gqlmodels.App {
	out := &gqlmodels.App{
		Code:         app.Code,
		Name:         app.Name,
		URI:          app.URI,
		Active:       app.Active,
		CatalogPrice: app.CatalogPrice,
		Wikimarkup:   app.Wikimarkup,
		Languages:    []gqlmodels.AppLanguage{},
		Websites:     []gqlmodels.Website{},
	}
	for _, l := range app.Languages {
		out.Languages = append(out.Languages, gqlmodels.AppLanguage{
			Lang:      l.Lang,
			StoreView: l.StoreView,
			IsDefault: l.IsDefault,
		})
	}
	for _, w := range app.Websites {
		out.Websites = append(out.Websites, gqlmodels.Website{Code: w.Code, Name: w.Name})
	}
	return out
}

func runModel(run *entity.MagentoSyncRun, codes map[uint]string) *gqlmodels.SyncRun {
	out := &gqlmodels.SyncRun{
		RunID:     int32(run.RunID),
		App:       codes[run.AppID],
		Operation: run.Operation,
		Status:    run.Status,
		Created:   int32(run.Created),
		Updated:   int32(run.Updated),
		Skipped:   int32(run.Skipped),
		Failed:    int32(run.Failed),
		StartedAt: run.StartedAt.Format(time.RFC3339),
	}
	if run.Error != "" {
		e := run.Error
		out.Error = &e
	}
	if run.FinishedAt != nil {
		f := run.FinishedAt.Format(time.RFC3339)
		out.FinishedAt = &f
	}
	return out
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{DB: db}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
