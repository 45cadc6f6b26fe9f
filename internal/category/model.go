package category

import "time"

type Category struct {
	ID          uint      `json:"id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	Active      bool      `json:"activa"`
	CreatedAt   time.Time `json:"fecha_creacion"`
}

type CreateInput struct {
	Name        string
	Description string
}
