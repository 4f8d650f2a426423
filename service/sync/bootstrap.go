package sync

import (
	"gorm.io/gorm"

	"magesync.GO/magento"
	entity "magesync.GO/model/entity"
)

// DialApp opens the HTTP API client for one app profile.
func DialApp(app *entity.MagentoApp) (magento.API, error) {
	return magento.NewClient(app.URI, app.Username, app.Password), nil
}

// NewDefaultService wires a Service with the HTTP client and group-price
// resolution, the setup the CLI, cron and API surfaces share.
func NewDefaultService(db *gorm.DB) *Service {
	return NewService(db, Config{
		Dial:   DialApp,
		Prices: GroupPrices{DB: db},
	})
}
