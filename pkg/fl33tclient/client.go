package fl33tclient

import (
	"fmt"
	"strings"

	"github.com/fl33t/fl33t-go/internal/client"
	"github.com/fl33t/fl33t-go/pkg/fl33t"
)

// New creates a new fl33t API client scoped to the configured team.
func New(config *fl33t.Config) (fl33t.Client, error) {
	if config == nil {
		return nil, fl33t.ErrConfigRequired
	}

	if config.BaseURL != "" {
		// Normalize the base URL
		baseURL := strings.TrimSuffix(config.BaseURL, "/")
		if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			baseURL = "https://" + baseURL
		}

		config.BaseURL = baseURL
	}

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}
