package feed

import (
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"magesync.GO/magento"
	entity "magesync.GO/model/entity"
	productEntity "magesync.GO/model/entity/product"
	productRepo "magesync.GO/model/repository/product"
	syncService "magesync.GO/service/sync"
	"magesync.GO/tools"
)

// DefaultBatchSize bounds how many templates are loaded per chunk when the
// feed computes stock quantities.
const DefaultBatchSize = 50

// StockProvider computes sellable quantity per template for a batch.
type StockProvider interface {
	Quantities(templateIDs []uint) (map[uint]float64, error)
}

// Config wires a feed Service. Zero fields get defaults.
type Config struct {
	// MediaURI is the base URI prefixed to every image reference in the feed.
	MediaURI string
	// BatchSize is the chunk size for stock computation, DefaultBatchSize
	// when zero.
	BatchSize int
	Stock     StockProvider
	// Indexer, when non-nil, receives every generated row after the CSV is
	// written.
	Indexer *Indexer
}

// Service produces the bulk product feed: a CSV with one full row per variant
// in the default language plus one localized row per extra language.
type Service struct {
	db        *gorm.DB
	sync      *syncService.Service
	products  *productRepo.ProductRepository
	stock     StockProvider
	mediaURI  string
	batchSize int
	indexer   *Indexer
}

func NewService(db *gorm.DB, sync *syncService.Service, cfg Config) *Service {
	s := &Service{
		db:        db,
		sync:      sync,
		products:  productRepo.NewProductRepository(db),
		stock:     cfg.Stock,
		mediaURI:  cfg.MediaURI,
		batchSize: cfg.BatchSize,
		indexer:   cfg.Indexer,
	}
	if s.batchSize <= 0 {
		s.batchSize = DefaultBatchSize
	}
	if s.stock == nil {
		s.stock = s.products
	}
	return s
}

// ExportCSV writes the feed for one app to w. The header is the sorted union
// of every key seen across all rows, so default-language and localized rows
// share one well-defined layout; every field is quoted.
func (s *Service) ExportCSV(app *entity.MagentoApp, w io.Writer) error {
	log.Printf("Magento %s. Start export csv", app.Code)
	def := app.DefaultLanguage()
	if def == nil {
		return syncService.ErrNoStoreView
	}

	var ids []uint
	err := s.db.Model(&productEntity.ProductTemplate{}).
		Where("esale_available = ?", true).
		Order("template_id").
		Pluck("template_id", &ids).Error
	if err != nil {
		return err
	}

	var rows []map[string]string
	keys := map[string]bool{}

	for start := 0; start < len(ids); start += s.batchSize {
		end := start + s.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		quantities, err := s.stock.Quantities(chunk)
		if err != nil {
			return err
		}

		for _, id := range chunk {
			tpl, err := s.products.GetTemplate(id)
			if err != nil {
				return err
			}
			for i := range tpl.Products {
				variant := &tpl.Products[i]
				row, err := s.defaultRow(app, tpl, variant, quantities[id])
				if err != nil {
					return err
				}
				rows = collect(rows, keys, row)

				for _, lang := range app.ExtraLanguages() {
					langRow, err := s.langRow(app, tpl, variant, lang)
					if err != nil {
						return err
					}
					rows = collect(rows, keys, langRow)
				}
			}
		}
	}

	if err := writeCSV(w, keys, rows); err != nil {
		return err
	}
	if s.indexer != nil {
		if err := s.indexer.IndexRows(app, rows); err != nil {
			log.Printf("Magento %s. Feed indexing failed: %v", app.Code, err)
		}
	}
	log.Printf("Magento %s. End export csv (%d rows)", app.Code, len(rows))
	return nil
}

func collect(rows []map[string]string, keys map[string]bool, row map[string]string) []map[string]string {
	for k := range row {
		keys[k] = true
	}
	return append(rows, row)
}

// defaultRow is the full default-language row: mapped fields plus computed
// stock and the flattened image columns.
func (s *Service) defaultRow(app *entity.MagentoApp, tpl *productEntity.ProductTemplate, variant *productEntity.Product, quantity float64) (map[string]string, error) {
	values, warnings, err := s.sync.ProductValues(app, tpl, variant, "")
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Print(w)
	}

	row := baseRow(values)
	categories := make([]string, 0, len(values.Categories))
	for _, id := range values.Categories {
		categories = append(categories, strconv.FormatUint(uint64(id), 10))
	}
	row["category_ids"] = strings.Join(categories, ", ")

	row["qty"] = strconv.FormatFloat(quantity, 'f', -1, 64)
	row["is_in_stock"] = boolFlag(quantity > 0)
	row["manage_stock"] = boolFlag(tpl.EsaleManageStock)

	image, smallImage, thumbnail, gallery := s.imageColumns(tpl)
	row["image"] = image
	row["small_image"] = smallImage
	row["thumbnail"] = thumbnail
	row["media_gallery"] = gallery
	return row, nil
}

// langRow carries only the localized fields plus the store-view code.
func (s *Service) langRow(app *entity.MagentoApp, tpl *productEntity.ProductTemplate, variant *productEntity.Product, lang entity.MagentoAppLanguage) (map[string]string, error) {
	values, _, err := s.sync.ProductValues(app, tpl, variant, lang.Lang)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"sku":               values.SKU,
		"store":             lang.StoreView,
		"name":              values.Name,
		"url_key":           values.URLKey,
		"short_description": values.ShortDescription,
		"description":       values.Description,
		"meta_title":        values.MetaTitle,
		"meta_keyword":      values.MetaKeyword,
		"meta_description":  values.MetaDescription,
	}, nil
}

func baseRow(values magento.ProductValues) map[string]string {
	return map[string]string{
		"name":              values.Name,
		"sku":               values.SKU,
		"url_key":           values.URLKey,
		"price":             values.Price,
		"cost":              values.Cost,
		"tax_class_id":      values.TaxClassID,
		"visibility":        values.Visibility,
		"set":               "4",
		"status":            values.Status,
		"short_description": values.ShortDescription,
		"description":       values.Description,
		"meta_title":        values.MetaTitle,
		"meta_keyword":      values.MetaKeyword,
		"meta_description":  values.MetaDescription,
	}
}

// imageColumns builds the magmi-style image references: the first qualifying
// image wins each role, non-excluded images join the gallery. Excluded images
// carry a leading dash.
func (s *Service) imageColumns(tpl *productEntity.ProductTemplate) (image, smallImage, thumbnail, gallery string) {
	var parts []string
	for i := range tpl.Attachments {
		att := &tpl.Attachments[i]
		if !att.EsaleAvailable {
			continue
		}
		label := att.Description
		if label == "" {
			label = tpl.Name
		}
		ref := s.mediaURI + att.Digest + "/" + tools.Slugify(att.Name) + "::" + tools.Unaccent(label)
		if att.EsaleExclude {
			ref = "-" + ref
		}
		if att.EsaleBaseImage && image == "" {
			image = ref
		}
		if att.EsaleSmallImage && smallImage == "" {
			smallImage = ref
		}
		if att.EsaleThumbnail && thumbnail == "" {
			thumbnail = ref
		}
		if !att.EsaleExclude {
			parts = append(parts, ref)
		}
	}
	return image, smallImage, thumbnail, strings.Join(parts, ";")
}

// writeCSV emits the header and rows with every field quoted, missing keys as
// empty strings.
func writeCSV(w io.Writer, keys map[string]bool, rows []map[string]string) error {
	header := make([]string, 0, len(keys))
	for k := range keys {
		header = append(header, k)
	}
	sort.Strings(header)

	if err := writeRecord(w, header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(header))
		for i, k := range header {
			record[i] = row[k]
		}
		if err := writeRecord(w, record); err != nil {
			return err
		}
	}
	return nil
}

func writeRecord(w io.Writer, fields []string) error {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
