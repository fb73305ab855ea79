package scopes

// ============================================================================
// COMMON SCOPES - account administration
// ============================================================================

const (
	// Super scope - full access to everything
	ScopeAll = "*"

	// RH account management scopes
	ScopeUsersAll           = "users:*"
	ScopeUsersRead          = "users:read"
	ScopeUsersWrite         = "users:write"
	ScopeUsersDelete        = "users:delete"
	ScopeUsersResetPassword = "users:reset_password"

	// Maintenance (purge sweep, health details)
	ScopeMaintenanceAll   = "maintenance:*"
	ScopeMaintenancePurge = "maintenance:purge"
)

// CommonScopeCategories organizes common scopes by domain
var CommonScopeCategories = map[string][]string{
	"Administration": {
		ScopeAll,
	},
	"Users": {
		ScopeUsersAll,
		ScopeUsersRead,
		ScopeUsersWrite,
		ScopeUsersDelete,
		ScopeUsersResetPassword,
	},
	"Maintenance": {
		ScopeMaintenanceAll,
		ScopeMaintenancePurge,
	},
}

// CommonScopeDescriptions provides human-readable descriptions
var CommonScopeDescriptions = map[string]string{
	ScopeAll: "Acesso total ao sistema",

	ScopeUsersAll:           "Gestão completa de contas de RH",
	ScopeUsersRead:          "Ver contas de RH",
	ScopeUsersWrite:         "Editar papel e regiões de contas de RH",
	ScopeUsersDelete:        "Excluir contas de RH",
	ScopeUsersResetPassword: "Redefinir senha de contas de RH",

	ScopeMaintenanceAll:   "Tarefas de manutenção",
	ScopeMaintenancePurge: "Expurgar vagas excluídas há mais de 30 dias",
}
