package sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"magesync.GO/magento"
	entity "magesync.GO/model/entity"
	catalogRepo "magesync.GO/model/repository/catalog"
	extrefRepo "magesync.GO/model/repository/extref"
	productRepo "magesync.GO/model/repository/product"
)

// Precondition failures. They abort the current app's operation but callers
// iterating several apps keep going.
var (
	ErrNoCategoryRoot = errors.New("app has no remote category root configured")
	ErrNoTopMenu      = errors.New("app has no top menu configured")
	ErrNoStoreView    = errors.New("app has no default store view configured")
	ErrNoWebsites     = errors.New("app has no website configured")
	ErrNoProducts     = errors.New("no products to import (check the date/id range filters)")

	// ErrNotAvailable marks operations the remote API does not support yet.
	ErrNotAvailable = errors.New("magento: operation not available")
)

// UnmappedPolicy decides what happens when a category or website has no
// binding in the external referential during export.
type UnmappedPolicy string

const (
	UnmappedDrop UnmappedPolicy = "drop"
	UnmappedWarn UnmappedPolicy = "warn"
	UnmappedFail UnmappedPolicy = "fail"
)

// Dialer opens a remote API connection for one app profile.
type Dialer func(app *entity.MagentoApp) (magento.API, error)

// TaxResolver resolves local taxes and prices for a remote product on
// create. Returning ok=false falls back to the remote raw price.
type TaxResolver interface {
	Resolve(app *entity.MagentoApp, rec *magento.ProductRecord, taxInclude bool) (taxes string, listPrice, costPrice float64, ok bool)
}

// PriceResolver resolves the price pushed on product export. The default
// implementation returns the flat list price; a group-price aware one applies
// the app's customer group adjustments.
type PriceResolver interface {
	Price(app *entity.MagentoApp, listPrice float64) float64
}

// BinaryFetch downloads one URL, used for image payloads.
type BinaryFetch func(url string) ([]byte, error)

// Config wires the collaborators of a Service. Zero fields get defaults,
// except Dial which is required.
type Config struct {
	Dial       Dialer
	Taxes      TaxResolver
	Prices     PriceResolver
	Fetch      BinaryFetch
	Images     ImageResolver
	OnUnmapped UnmappedPolicy
}

// Service runs the synchronization operations for one database. Invocations
// are assumed non-overlapping per app: do not run two operations for the same
// app concurrently.
type Service struct {
	db         *gorm.DB
	dial       Dialer
	taxes      TaxResolver
	prices     PriceResolver
	fetch      BinaryFetch
	images     ImageResolver
	onUnmapped UnmappedPolicy

	extref   *extrefRepo.Repository
	menus    *catalogRepo.MenuRepository
	products *productRepo.ProductRepository
}

func NewService(db *gorm.DB, cfg Config) *Service {
	s := &Service{
		db:         db,
		dial:       cfg.Dial,
		taxes:      cfg.Taxes,
		prices:     cfg.Prices,
		fetch:      cfg.Fetch,
		images:     cfg.Images,
		onUnmapped: cfg.OnUnmapped,
		extref:     extrefRepo.NewRepository(db),
		menus:      catalogRepo.NewMenuRepository(db),
		products:   productRepo.NewProductRepository(db),
	}
	if s.onUnmapped == "" {
		s.onUnmapped = UnmappedDrop
	}
	if s.fetch == nil {
		s.fetch = httpFetch
	}
	if s.images == nil {
		s.images = &FilenameResolver{Products: s.products}
	}
	if s.prices == nil {
		s.prices = flatPrice{}
	}
	return s
}

func httpFetch(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

type flatPrice struct{}

func (flatPrice) Price(_ *entity.MagentoApp, listPrice float64) float64 { return listPrice }

// GroupPrices applies the largest configured customer-group discount when the
// app prices per website.
type GroupPrices struct {
	DB *gorm.DB
}

func (g GroupPrices) Price(app *entity.MagentoApp, listPrice float64) float64 {
	if app.CatalogPrice != entity.CatalogPriceWebsite {
		return listPrice
	}
	var rows []entity.MagentoGroupPrice
	if err := g.DB.Where("app_id = ?", app.AppID).Find(&rows).Error; err != nil || len(rows) == 0 {
		return listPrice
	}
	best := 0.0
	for _, r := range rows {
		if r.Percent > best {
			best = r.Percent
		}
	}
	return listPrice * (100 - best) / 100
}

// Result holds counters from one operation run for one app.
type Result struct {
	App       string     `json:"app"`
	Operation string     `json:"operation"`
	Created   int        `json:"created"`
	Updated   int        `json:"updated"`
	Skipped   int        `json:"skipped"`
	Failed    int        `json:"failed"`
	Warnings  []string   `json:"warnings,omitempty"`
	// Advanced watermark after a product import, already persisted on the
	// app but exposed so callers can see the cursor move.
	NextFromDate *time.Time `json:"next_from_date,omitempty"`
	NextFromID   *uint      `json:"next_from_id,omitempty"`
}

func newResult(app *entity.MagentoApp, operation string) *Result {
	return &Result{App: app.Code, Operation: operation}
}

func (r *Result) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Print(msg)
	r.Warnings = append(r.Warnings, msg)
}

// startRun opens a sync run row; finishRun closes it with the counters.
func (s *Service) startRun(app *entity.MagentoApp, operation string) *entity.MagentoSyncRun {
	run := &entity.MagentoSyncRun{
		AppID:     app.AppID,
		Operation: operation,
		Status:    entity.SyncRunRunning,
		StartedAt: time.Now(),
	}
	if err := s.db.Create(run).Error; err != nil {
		log.Printf("Magento %s. Cannot record sync run: %v", app.Code, err)
	}
	return run
}

func (s *Service) finishRun(run *entity.MagentoSyncRun, res *Result, opErr error) {
	now := time.Now()
	run.FinishedAt = &now
	run.Created = res.Created
	run.Updated = res.Updated
	run.Skipped = res.Skipped
	run.Failed = res.Failed
	switch {
	case opErr != nil:
		run.Status = entity.SyncRunFailed
		run.Error = opErr.Error()
	case res.Failed > 0:
		run.Status = entity.SyncRunPartial
	default:
		run.Status = entity.SyncRunSuccess
	}
	if stats, err := json.Marshal(res); err == nil {
		run.Stats = datatypes.JSON(stats)
	}
	if err := s.db.Save(run).Error; err != nil {
		log.Printf("Cannot close sync run %d: %v", run.RunID, err)
	}
}

// App loads one app profile by code with its languages and websites.
// At most one language may be marked default.
func (s *Service) App(code string) (*entity.MagentoApp, error) {
	var app entity.MagentoApp
	err := s.db.Preload("Languages").Preload("Websites").
		Where("code = ?", code).First(&app).Error
	if err != nil {
		return nil, fmt.Errorf("app %q: %w", code, err)
	}
	defaults := 0
	for _, l := range app.Languages {
		if l.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return nil, fmt.Errorf("app %q: %d languages marked default", code, defaults)
	}
	return &app, nil
}

// ActiveApps loads every active app profile.
func (s *Service) ActiveApps() ([]entity.MagentoApp, error) {
	var apps []entity.MagentoApp
	err := s.db.Preload("Languages").Preload("Websites").
		Where("active = ?", true).Find(&apps).Error
	return apps, err
}

// ImportProductLinks is not implemented by the remote API client yet.
func (s *Service) ImportProductLinks(app *entity.MagentoApp) (*Result, error) {
	return nil, ErrNotAvailable
}
