package models

// MovementType distinguishes stock entering or leaving inventory.
type MovementType string

const (
	MovementIn  MovementType = "ENTRADA"
	MovementOut MovementType = "SALIDA"
)

// InventoryMovement is a stock adjustment served by /api/inventario.
type InventoryMovement struct {
	ID        int          `json:"id,omitempty"`
	ProductID int          `json:"productoId"`
	Product   *Product     `json:"producto,omitempty"`
	Type      MovementType `json:"tipo"`
	Quantity  int          `json:"cantidad"`
	Date      string       `json:"fecha,omitempty"`
	Note      string       `json:"observacion,omitempty"`
	UserID    *int         `json:"usuarioId,omitempty"`
}
