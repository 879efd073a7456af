package main

import (
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// seedPrivilegesRolesAndAdmin creates default privileges, roles, the admin
// user and the starter sizes, colors and categories if they don't exist.
func seedPrivilegesRolesAndAdmin(db *gorm.DB, log *zap.Logger) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Warn("Failed to seed privileges", zap.Error(err))
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Warn("Failed to seed roles", zap.Error(err))
	}

	// 3. Assign privileges to roles
	allPrivileges, err := privilegeRepo.FindAll()
	if err != nil {
		log.Warn("Failed to load privileges", zap.Error(err))
		return
	}

	// MASTER_ADMIN always holds every privilege, including ones added later.
	// Other roles get their default grant once and are edited by hand after.
	for _, def := range model.DefaultRoles {
		role, err := roleRepo.FindByCode(def.Code)
		if err != nil {
			log.Warn("Role missing after seed", zap.String("role", def.Code), zap.Error(err))
			continue
		}
		grant := model.DefaultGrant(role.Code, allPrivileges)
		if len(role.Privileges) == len(grant) || (len(role.Privileges) > 0 && role.Code != model.RoleMasterAdmin) {
			continue
		}
		if err := roleRepo.AssignPrivileges(role, grant); err != nil {
			log.Warn("Failed to assign role privileges", zap.String("role", role.Code), zap.Error(err))
			continue
		}
		log.Info("Role privileges assigned", zap.String("role", role.Code), zap.Int("privileges", len(grant)))
	}

	// 4. Starter catalog vocabulary
	if err := repository.SeedTaxonomy(db); err != nil {
		log.Warn("Failed to seed sizes, colors and categories", zap.Error(err))
	}

	// 5. Create default admin user with MASTER_ADMIN role
	if _, err := userRepo.FindByEmail("admin@example.com"); err == nil {
		return
	}
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err != nil {
		log.Warn("MASTER_ADMIN role missing, admin user not created", zap.Error(err))
		return
	}

	admin := &model.User{
		Email:    "admin@example.com",
		FullName: "Master Administrator",
		RoleID:   &masterRole.ID,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword("admin123"); err != nil {
		log.Warn("Failed to hash admin password", zap.Error(err))
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Warn("Failed to create admin user", zap.Error(err))
		return
	}
	log.Info("Admin user created", zap.String("email", admin.Email), zap.String("role", model.RoleMasterAdmin))
}
