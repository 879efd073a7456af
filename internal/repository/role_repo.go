package repository

import (
	"errors"

	"go-catalog-admin/internal/model"

	"gorm.io/gorm"
)

var ErrRoleNotFound = errors.New("role not found")

type RoleRepository interface {
	FindAll() ([]model.Role, error)
	FindByID(id uint) (*model.Role, error)
	FindByCode(code string) (*model.Role, error)
	Create(role *model.Role) error
	AssignPrivileges(role *model.Role, privileges []model.Privilege) error
	SeedDefaults() error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll() ([]model.Role, error) {
	var roles []model.Role
	err := r.db.Preload("Privileges").Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) find(query interface{}, args ...interface{}) (*model.Role, error) {
	var role model.Role
	err := r.db.Preload("Privileges").Where(query, args...).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByID(id uint) (*model.Role, error) {
	return r.find("id = ?", id)
}

func (r *roleRepo) FindByCode(code string) (*model.Role, error) {
	return r.find("code = ?", code)
}

func (r *roleRepo) Create(role *model.Role) error {
	return r.db.Create(role).Error
}

func (r *roleRepo) AssignPrivileges(role *model.Role, privileges []model.Privilege) error {
	if err := r.db.Model(role).Association("Privileges").Replace(privileges); err != nil {
		return err
	}
	role.Privileges = privileges
	return nil
}

// SeedDefaults creates the built-in roles that are missing.
func (r *roleRepo) SeedDefaults() error {
	for _, def := range model.DefaultRoles {
		role := def
		if err := r.db.Where(model.Role{Code: role.Code}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
