package api

import (
	"context"
	"net/http"

	"github.com/seastream/aiswatch/internal/models"
)

// Counts fetches the dashboard statistics.
func (c *Client) Counts(ctx context.Context) (models.Statistics, error) {
	var stats models.Statistics
	if err := c.do(ctx, http.MethodGet, "/api/statistics/counts", nil, &stats); err != nil {
		return models.Statistics{}, err
	}
	return stats, nil
}
