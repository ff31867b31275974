package dto

import "time"

// RegisterMovementRequest body para POST /api/movements.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"` // ENTRADA | SALIDA
	Quantity  int    `json:"quantity"`
}

// MovementResponse salida de un movimiento. ProductName y UserName son copias al momento del registro.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	SoftDeleteInfo
}

// MovementListResponse lista de movimientos, más reciente primero.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Total int                `json:"total"`
}
