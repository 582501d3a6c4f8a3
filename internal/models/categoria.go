package models

import "time"

// Categoria groups events under a thematic label.
type Categoria struct {
	ID          string    `db:"id" json:"id"`
	Nombre      string    `db:"nombre" json:"nombre"`
	Descripcion string    `db:"descripcion" json:"descripcion"`
	Icono       string    `db:"icono" json:"icono"`
	Color       string    `db:"color" json:"color"`
	Activo      bool      `db:"activo" json:"activo"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// CategoriaRequest is the payload for creating or replacing a category.
type CategoriaRequest struct {
	Nombre      string `json:"nombre" validate:"required,min=2,max=50"`
	Descripcion string `json:"descripcion" validate:"max=255"`
	Icono       string `json:"icono" validate:"max=50"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Activo      *bool  `json:"activo"`
}
