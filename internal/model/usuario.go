package model

// Usuario is a scanning-app account. Email is unique.
type Usuario struct {
	ID           uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Nombre       string `gorm:"column:nombre;not null"`
	Email        string `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
}

func (Usuario) TableName() string { return "usuarios" }
