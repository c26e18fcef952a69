package api

import (
	"context"
	"fmt"

	"transrural/internal/domain"
)

// ParcelInput creates a parcel on a departure. The price is not part of the
// input: the server derives it from weight and the route's per-kg rate.
type ParcelInput struct {
	Description    string  `json:"descripcion"`
	SenderName     string  `json:"remitente_nombre"`
	SenderPhone    string  `json:"remitente_telefono"`
	RecipientName  string  `json:"destinatario_nombre"`
	RecipientPhone string  `json:"destinatario_telefono"`
	WeightKG       float64 `json:"peso_kg"`
}

func (c *Client) DepartureParcels(ctx context.Context, id domain.ID) ([]domain.Parcel, error) {
	var out []domain.Parcel
	err := c.get(ctx, fmt.Sprintf("/api/salida/%d/encomiendas/", id), &out)
	return out, err
}

func (c *Client) CreateParcel(ctx context.Context, id domain.ID, in ParcelInput) (domain.Parcel, error) {
	var out domain.Parcel
	err := c.post(ctx, fmt.Sprintf("/api/salida/%d/encomienda/", id), in, &out)
	return out, err
}

// DeliverParcel marks a parcel as handed to its recipient.
func (c *Client) DeliverParcel(ctx context.Context, parcelID domain.ID) error {
	return c.put(ctx, fmt.Sprintf("/api/encomienda/%d/entregar/", parcelID), nil, nil)
}
