package model

// Roles assignable through access codes. Closed set.
const (
	RoleAdmin  = "admin"
	RoleMedico = "medico"
)

// AccessCode is a pre-provisioned registration code (table codigos_acceso).
// Presenting an active code at registration grants its role. Static reference
// data: the application only reads it, cmd/seed writes it.
type AccessCode struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Code   string `json:"codigo" gorm:"column:codigo;uniqueIndex;size:64;not null"`
	Role   string `json:"tipo_usuario" gorm:"column:tipo_usuario;size:20;not null"`
	Active bool   `json:"activo" gorm:"column:activo;default:true"`
}

// TableName overrides the gorm default to match the existing schema.
func (AccessCode) TableName() string {
	return "codigos_acceso"
}
