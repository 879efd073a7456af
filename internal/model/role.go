package model

import "strings"

// Role groups the privileges a user starts with. Users may hold extra
// privileges of their own on top of their role's.
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleMasterAdmin   = "MASTER_ADMIN"
	RoleAdmin         = "ADMIN"
	RoleCatalogEditor = "CATALOG_EDITOR"
)

var DefaultRoles = []Role{
	{
		Code:        RoleMasterAdmin,
		Name:        "Master Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Runs the shop: catalog, storefront, reviews and orders, but not user accounts",
	},
	{
		Code:        RoleCatalogEditor,
		Name:        "Catalog Editor",
		Description: "Maintains products, their variants and images, and the size, color and category lists",
	},
}

// catalogEditorPrivileges is the fixed grant of RoleCatalogEditor.
var catalogEditorPrivileges = map[string]bool{
	"product:view":   true,
	"product:create": true,
	"product:update": true,
	"catalog:manage": true,
	"dashboard:view": true,
}

// DefaultGrant picks the privileges out of all that the role code receives on
// first seed. Unknown codes get nothing.
func DefaultGrant(roleCode string, all []Privilege) []Privilege {
	grant := make([]Privilege, 0, len(all))
	for _, p := range all {
		switch roleCode {
		case RoleMasterAdmin:
			grant = append(grant, p)
		case RoleAdmin:
			if !strings.HasPrefix(p.Code, "user:") {
				grant = append(grant, p)
			}
		case RoleCatalogEditor:
			if catalogEditorPrivileges[p.Code] {
				grant = append(grant, p)
			}
		}
	}
	return grant
}
