package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is the closed set of person types known to the system. Authorization
// decisions compare against these constants, never against free-form strings.
type Role string

const (
	RoleAdmin                Role = "admin"
	RoleHarvestFlowManager   Role = "harvestflow_manager"
	RoleFlavorCoreManager    Role = "flavorcore_manager"
	RoleFlavorCoreSupervisor Role = "flavorcore_supervisor"
	RoleVendor               Role = "vendor"
	RoleDriver               Role = "driver"
	RoleWorker               Role = "worker"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleHarvestFlowManager, RoleFlavorCoreManager,
		RoleFlavorCoreSupervisor, RoleVendor, RoleDriver, RoleWorker:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// ManagerRoles are the recipients of geofence alerts and the roles allowed
// to view dispatch tracking history.
var ManagerRoles = []Role{RoleAdmin, RoleHarvestFlowManager, RoleFlavorCoreManager}

func (r Role) IsManager() bool {
	for _, m := range ManagerRoles {
		if r == m {
			return true
		}
	}
	return false
}

const PersonStatusActive = "active"

type Person struct {
	ID            uuid.UUID `json:"id"`
	StaffID       string    `json:"staff_id"`
	FullName      string    `json:"full_name"`
	ContactNumber string    `json:"contact_number,omitempty"`
	Role          Role      `json:"role"`
	Status        string    `json:"status"`
}

func (p *Person) IsActive() bool {
	return p.Status == PersonStatusActive
}
