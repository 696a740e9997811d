package models

// Cliente entity, mapped onto the clientes table.
type Cliente struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Nombre    string `gorm:"size:100;not null;index" json:"nombre"`
	Direccion string `json:"direccion"`
	Telefono  string `gorm:"size:20" json:"telefono"`
	Email     string `gorm:"size:100" json:"email"`
}
