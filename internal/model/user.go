package model

import "time"

// User represents an application user (table usuarios). The role is not
// stored on the row, it is derived by joining the referenced access code.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"nombre_usuario" gorm:"column:nombre_usuario;uniqueIndex;size:100;not null"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;size:255;not null"` // Never expose in JSON
	AccessCodeID uint       `json:"-" gorm:"column:codigo_acceso_id;not null;index"`
	AccessCode   AccessCode `json:"-" gorm:"foreignKey:AccessCodeID"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName overrides the gorm default to match the existing schema.
func (User) TableName() string {
	return "usuarios"
}

// UserWithRole is the listing/edit projection of a user joined with the role
// granted by its access code.
type UserWithRole struct {
	ID       uint   `json:"id"`
	Username string `json:"nombre_usuario" gorm:"column:nombre_usuario"`
	Role     string `json:"tipo_usuario" gorm:"column:tipo_usuario"`
}
