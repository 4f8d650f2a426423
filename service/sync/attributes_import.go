package sync

import (
	"log"
	"strings"

	"gorm.io/gorm"

	entity "magesync.GO/model/entity"
	productEntity "magesync.GO/model/entity/product"
	"magesync.GO/tools"
)

// ImportProductTypes refreshes the local lookup of remote product type codes.
// Types are matched by code; known codes are left untouched.
func (s *Service) ImportProductTypes(app *entity.MagentoApp) (*Result, error) {
	res := newResult(app, "product-types:import")
	run := s.startRun(app, res.Operation)

	err := s.importProductTypes(app, res)
	s.finishRun(run, res, err)
	return res, err
}

func (s *Service) importProductTypes(app *entity.MagentoApp, res *Result) error {
	log.Printf("Magento %s. Start import product types", app.Code)
	api, err := s.dial(app)
	if err != nil {
		return err
	}
	types, err := api.ProductTypes().List()
	if err != nil {
		return err
	}

	for _, t := range types {
		var existing productEntity.MagentoProductType
		err := s.db.Where("code = ?", t.Type).First(&existing).Error
		if err == nil {
			res.Skipped++
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		row := productEntity.MagentoProductType{
			Name:   t.Label,
			Code:   t.Type,
			Active: true,
		}
		if err := s.db.Create(&row).Error; err != nil {
			return err
		}
		res.Created++
		log.Printf("Magento %s. Create product type: %s", app.Code, t.Type)
	}
	log.Printf("Magento %s. End import product types", app.Code)
	return nil
}

// ImportAttributeGroups imports the remote attribute sets as local attribute
// groups, bound by the remote set id through the external referential.
func (s *Service) ImportAttributeGroups(app *entity.MagentoApp) (*Result, error) {
	res := newResult(app, "attribute-groups:import")
	run := s.startRun(app, res.Operation)

	err := s.importAttributeGroups(app, res)
	s.finishRun(run, res, err)
	return res, err
}

func (s *Service) importAttributeGroups(app *entity.MagentoApp, res *Result) error {
	log.Printf("Magento %s. Start import attribute groups", app.Code)
	api, err := s.dial(app)
	if err != nil {
		return err
	}
	sets, err := api.ProductAttributeSet().List()
	if err != nil {
		return err
	}

	for _, set := range sets {
		if _, ok := s.extref.GetLocal(app.AppID, entity.ResourceAttributeGroup, set.SetID); ok {
			res.Skipped++
			continue
		}
		group := productEntity.EsaleAttributeGroup{
			Name: set.Name,
			Code: tools.Slugify(set.Name),
		}
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&group).Error; err != nil {
				return err
			}
			return s.extref.WithTx(tx).Bind(app.AppID, entity.ResourceAttributeGroup, group.GroupID, set.SetID)
		})
		if err != nil {
			return err
		}
		res.Created++
		log.Printf("Magento %s. Create attribute group: %s (%d)", app.Code, set.Name, set.SetID)
	}
	log.Printf("Magento %s. End import attribute groups", app.Code)
	return nil
}

// ImportAttributeOptions refreshes the option lists of selection attributes.
// For every bound attribute set, each select-type remote attribute whose code
// names a local attribute gets its selection overwritten with the remote
// options, one "value:label" per line.
func (s *Service) ImportAttributeOptions(app *entity.MagentoApp) (*Result, error) {
	res := newResult(app, "attribute-options:import")
	run := s.startRun(app, res.Operation)

	err := s.importAttributeOptions(app, res)
	s.finishRun(run, res, err)
	return res, err
}

func (s *Service) importAttributeOptions(app *entity.MagentoApp, res *Result) error {
	log.Printf("Magento %s. Start import attribute options", app.Code)
	api, err := s.dial(app)
	if err != nil {
		return err
	}
	attributeAPI := api.ProductAttribute()

	var refs []entity.MagentoExternalReferential
	err = s.db.Where("app_id = ? AND resource = ?", app.AppID, entity.ResourceAttributeGroup).
		Find(&refs).Error
	if err != nil {
		return err
	}

	for _, ref := range refs {
		attributes, err := attributeAPI.List(ref.MgnID)
		if err != nil {
			return err
		}
		for _, attr := range attributes {
			if attr.Type != "select" {
				continue
			}
			var local productEntity.ProductAttribute
			err := s.db.Where("name = ?", attr.Code).First(&local).Error
			if err == gorm.ErrRecordNotFound {
				res.Skipped++
				continue
			}
			if err != nil {
				return err
			}
			options, err := attributeAPI.Options(attr.Code)
			if err != nil {
				return err
			}
			lines := make([]string, 0, len(options))
			for _, opt := range options {
				if opt.Value == "" {
					continue
				}
				lines = append(lines, opt.Value+":"+opt.Label)
			}
			local.Selection = strings.Join(lines, "\n")
			if err := s.db.Save(&local).Error; err != nil {
				return err
			}
			res.Updated++
			log.Printf("Magento %s. Update attribute options: %s", app.Code, attr.Code)
		}
	}
	log.Printf("Magento %s. End import attribute options", app.Code)
	return nil
}
