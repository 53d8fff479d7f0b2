package models

import (
	"github.com/surgegrid/surge/pkg/api/types/misc/rfctime"
	"github.com/surgegrid/surge/pkg/api/types/status"
)

// Detail is a deployed model instance, as the platform reports it.
type Detail struct {
	ModelId string        `json:"id"`
	Name    string        `json:"name"`
	Status  status.Status `json:"status"`

	// OllamaURL is the base URL of the instance's OpenAI-compatible
	// inference endpoint. Empty while the instance is not serving yet.
	OllamaURL string `json:"ollama_url,omitempty"`

	DeployedAt rfctime.RFC3339 `json:"deployed_at"`
}

func (d Detail) Equal(o Detail) bool {
	return d.ModelId == o.ModelId &&
		d.Name == o.Name &&
		d.Status == o.Status &&
		d.OllamaURL == o.OllamaURL &&
		d.DeployedAt.Equal(o.DeployedAt)
}

// Identity implements console.Resource.
func (d Detail) Identity() string {
	return d.ModelId
}

// Settled implements console.Resource.
func (d Detail) Settled() bool {
	return d.Status.Terminal()
}
