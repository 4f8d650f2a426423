package sync

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"magesync.GO/api"
	"magesync.GO/config"
	entity "magesync.GO/model/entity"
	syncService "magesync.GO/service/sync"
)

func init() {
	api.RegisterModule(RegisterSyncRoutes)
}

// operations maps the trigger path segment to the service entry point.
var operations = map[string]func(*syncService.Service, *entity.MagentoApp) (*syncService.Result, error){
	"categories-import": (*syncService.Service).ImportCategories,
	"categories-export": (*syncService.Service).ExportCategories,
	"products-import":   (*syncService.Service).ImportProducts,
	"products-export":   (*syncService.Service).ExportProducts,
	"types-import":      (*syncService.Service).ImportProductTypes,
	"attributes-import": (*syncService.Service).ImportAttributeGroups,
	"options-import":    (*syncService.Service).ImportAttributeOptions,
	"links-import":      (*syncService.Service).ImportProductLinks,
}

func RegisterSyncRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/sync")

	// POST /api/sync/:operation/:app – run one operation for one app
	g.POST("/:operation/:app", func(c echo.Context) error {
		start := time.Now()
		run, ok := operations[c.Param("operation")]
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown operation"})
		}

		svc := syncService.NewDefaultService(db)
		app, err := svc.App(c.Param("app"))
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}

		res, err := run(svc, app)
		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error(), "request_duration_ms": duration})
		}

		cacheLastRun(c.Param("operation"), res)
		return c.JSON(http.StatusOK, echo.Map{"result": res, "request_duration_ms": duration})
	})

	// GET /api/sync/last/:operation – last cached result for an operation
	g.GET("/last/:operation", func(c echo.Context) error {
		if config.RedisClient == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "redis not configured"})
		}
		raw, err := config.RedisClient.Get(config.RedisCtx(), lastRunKey(c.Param("operation"))).Result()
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no cached run"})
		}
		return c.JSONBlob(http.StatusOK, []byte(raw))
	})

	// GET /api/sync/apps – configured app profiles
	g.GET("/apps", func(c echo.Context) error {
		var apps []entity.MagentoApp
		if err := db.Preload("Languages").Preload("Websites").Find(&apps).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"apps": apps})
	})

	// GET /api/sync/runs?app=&limit= – recent sync runs, newest first
	g.GET("/runs", func(c echo.Context) error {
		limit := 50
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		q := db.Model(&entity.MagentoSyncRun{}).Order("run_id DESC").Limit(limit)
		if appCode := c.QueryParam("app"); appCode != "" {
			var app entity.MagentoApp
			if err := db.Where("code = ?", appCode).First(&app).Error; err != nil {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown app"})
			}
			q = q.Where("app_id = ?", app.AppID)
		}
		var runs []entity.MagentoSyncRun
		if err := q.Find(&runs).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"runs": runs})
	})

	// GET /api/sync/mappings?app=&resource= – external referential bindings
	g.GET("/mappings", func(c echo.Context) error {
		q := db.Model(&entity.MagentoExternalReferential{}).Order("ref_id")
		if appCode := c.QueryParam("app"); appCode != "" {
			var app entity.MagentoApp
			if err := db.Where("code = ?", appCode).First(&app).Error; err != nil {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown app"})
			}
			q = q.Where("app_id = ?", app.AppID)
		}
		if resource := c.QueryParam("resource"); resource != "" {
			q = q.Where("resource = ?", resource)
		}
		var refs []entity.MagentoExternalReferential
		if err := q.Find(&refs).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"mappings": refs})
	})
}

func lastRunKey(operation string) string {
	return "sync:last:" + operation
}

// cacheLastRun stores the result in redis when available, 24h TTL.
func cacheLastRun(operation string, res *syncService.Result) {
	if config.RedisClient == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	config.RedisClient.Set(config.RedisCtx(), lastRunKey(operation), data, 24*time.Hour)
}
