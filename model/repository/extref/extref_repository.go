package extref

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	entity "magesync.GO/model/entity"
)

// ErrConflict is returned by Bind when either side of the pair is already
// bound to a different counterpart for the same (app, resource).
var ErrConflict = errors.New("external referential: already bound")

// Repository resolves and creates local<->remote id bindings. Bindings are
// permanent for the lifetime of the app profile; there is no delete.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetLocal resolves a remote id to its local counterpart.
func (r *Repository) GetLocal(appID uint, resource string, mgnID uint) (uint, bool) {
	var ref entity.MagentoExternalReferential
	err := r.db.Where("app_id = ? AND resource = ? AND mgn_id = ?", appID, resource, mgnID).
		First(&ref).Error
	if err != nil {
		return 0, false
	}
	return ref.LocalID, true
}

// GetRemote resolves a local id to its remote counterpart.
func (r *Repository) GetRemote(appID uint, resource string, localID uint) (uint, bool) {
	var ref entity.MagentoExternalReferential
	err := r.db.Where("app_id = ? AND resource = ? AND local_id = ?", appID, resource, localID).
		First(&ref).Error
	if err != nil {
		return 0, false
	}
	return ref.MgnID, true
}

// Bind creates the (local, remote) pair. Rebinding the same pair is a no-op;
// binding either side to a different counterpart fails with ErrConflict.
func (r *Repository) Bind(appID uint, resource string, localID, mgnID uint) error {
	if existing, ok := r.GetRemote(appID, resource, localID); ok {
		if existing == mgnID {
			return nil
		}
		return fmt.Errorf("%w: local %d -> mgn %d (wanted %d)", ErrConflict, localID, existing, mgnID)
	}
	if existing, ok := r.GetLocal(appID, resource, mgnID); ok {
		return fmt.Errorf("%w: mgn %d -> local %d (wanted %d)", ErrConflict, mgnID, existing, localID)
	}
	ref := entity.MagentoExternalReferential{
		AppID:    appID,
		Resource: resource,
		LocalID:  localID,
		MgnID:    mgnID,
	}
	return r.db.Create(&ref).Error
}

// WithTx returns a repository bound to tx, for bindings that must commit with
// the record they belong to.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}
