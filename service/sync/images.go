package sync

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"log"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"gorm.io/gorm"

	"magesync.GO/magento"
	entity "magesync.GO/model/entity"
	productEntity "magesync.GO/model/entity/product"
	productRepo "magesync.GO/model/repository/product"
)

// ImageResolver decides which local attachment a remote image descriptor
// refers to, so the matching strategy can change without touching the sync.
type ImageResolver interface {
	Resolve(products *productRepo.ProductRepository, templateID uint, name string) (*productEntity.Attachment, bool)
}

// FilenameResolver matches by filename within the owning template. Fragile
// when remote filenames change, but it is what the remote side gives us:
// image descriptors carry no stable id usable across store views.
type FilenameResolver struct {
	Products *productRepo.ProductRepository
}

func (r *FilenameResolver) Resolve(products *productRepo.ProductRepository, templateID uint, name string) (*productEntity.Attachment, bool) {
	return products.FindAttachment(templateID, name)
}

// saveProductImages creates or updates the template's attachments from the
// remote media list: download the payload, validate it decodes, set role
// flags and position.
func (s *Service) saveProductImages(tx *gorm.DB, app *entity.MagentoApp, tpl *productEntity.ProductTemplate, idOrSKU string, api magento.ProductImagesAPI) error {
	products := s.products.WithTx(tx)

	images, err := api.List(idOrSKU)
	if err != nil {
		return err
	}
	for i := range images {
		img := &images[i]
		url := img.URL
		if url == "" {
			// magento >= 1.4 exposes filename instead of url
			url = img.Filename
		}
		if url == "" {
			continue
		}
		name := imageName(url)

		att, found := s.images.Resolve(products, tpl.TemplateID, name)
		action := "Update"
		if !found {
			att = &productEntity.Attachment{TemplateID: tpl.TemplateID, Name: name}
			action = "Create"
		}

		data, err := s.fetch(url)
		if err != nil {
			return err
		}
		if err := validateImage(name, data); err != nil {
			log.Printf("Magento %s. Skip image %s: %v", app.Code, name, err)
			continue
		}
		digest := sha1.Sum(data)

		att.Data = data
		att.Digest = hex.EncodeToString(digest[:])
		att.Description = img.Label
		att.EsaleAvailable = true
		att.EsaleBaseImage = hasType(img.Types, "image")
		att.EsaleSmallImage = hasType(img.Types, "small_image")
		att.EsaleThumbnail = hasType(img.Types, "thumbnail")
		att.EsaleExclude = img.Exclude == "1"
		att.EsalePosition = img.Position

		if err := products.SaveAttachment(att); err != nil {
			return err
		}
		log.Printf("Magento %s. %s image %s (%d)", app.Code, action, name, att.AttachmentID)
	}
	return nil
}

// validateImage checks the payload actually decodes as an image before it is
// stored. webp needs its own decoder; everything else goes through imaging.
func validateImage(name string, data []byte) error {
	if strings.HasSuffix(strings.ToLower(name), ".webp") {
		_, err := webp.Decode(bytes.NewReader(data))
		return err
	}
	_, err := imaging.Decode(bytes.NewReader(data))
	return err
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

// imageName returns the last path segment of an image URL or filename.
func imageName(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
