package models

// Secuencia is the counter fallback for stores without native sequences
// (sqlite in tests and local dev). On postgres the factura_numero_seq
// sequence object is used instead and this table stays empty.
type Secuencia struct {
	Nombre string `gorm:"size:50;primaryKey"`
	Valor  int64  `gorm:"not null"`
}

// TableName maps to the secuencias table (matching the SQL migrations);
// gorm's pluralizer leaves "-ia" words unchanged, so the default would
// be "secuencia".
func (Secuencia) TableName() string {
	return "secuencias"
}
