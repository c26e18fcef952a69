package api

import (
	"context"
	"fmt"

	"transrural/internal/domain"
)

// ManifestData is the raw material for the manifest builder: the departure
// plus every ticket and parcel riding on it. Totals are computed locally.
type ManifestData struct {
	Departure domain.Departure `json:"salida"`
	Tickets   []domain.Ticket  `json:"pasajes"`
	Parcels   []domain.Parcel  `json:"encomiendas"`
}

func (c *Client) Manifest(ctx context.Context, id domain.ID) (ManifestData, error) {
	var out ManifestData
	err := c.get(ctx, fmt.Sprintf("/api/salida/%d/manifiesto/", id), &out)
	return out, err
}
