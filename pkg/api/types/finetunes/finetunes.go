package finetunes

import (
	"github.com/surgegrid/surge/pkg/api/types/misc/rfctime"
	"github.com/surgegrid/surge/pkg/api/types/status"
)

type Summary struct {
	FinetuneId string          `json:"id"`
	Name       string          `json:"name"`
	Status     status.Status   `json:"status"`
	BaseModel  string          `json:"base_model"`
	CreatedAt  rfctime.RFC3339 `json:"created_at"`
	UpdatedAt  rfctime.RFC3339 `json:"updated_at"`
}

func (s Summary) Equal(o Summary) bool {
	return s.FinetuneId == o.FinetuneId &&
		s.Name == o.Name &&
		s.Status == o.Status &&
		s.BaseModel == o.BaseModel &&
		s.CreatedAt.Equal(o.CreatedAt) &&
		s.UpdatedAt.Equal(o.UpdatedAt)
}

type Detail struct {
	Summary
	Dataset  string  `json:"dataset,omitempty"`
	Epochs   int     `json:"epochs,omitempty"`
	GPUType  string  `json:"gpu_type,omitempty"`
	Progress float64 `json:"progress,omitempty"`
	Error    string  `json:"error,omitempty"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Summary.Equal(o.Summary) &&
		d.Dataset == o.Dataset &&
		d.Epochs == o.Epochs &&
		d.GPUType == o.GPUType &&
		d.Progress == o.Progress &&
		d.Error == o.Error
}

// Identity implements console.Resource.
func (d Detail) Identity() string {
	return d.FinetuneId
}

// Settled implements console.Resource.
func (d Detail) Settled() bool {
	return d.Status.Terminal()
}

// Spec is a request body to start a new fine-tuning job.
type Spec struct {
	Name         string  `json:"name"`
	BaseModel    string  `json:"base_model"`
	Dataset      string  `json:"dataset"`
	Epochs       int     `json:"epochs,omitempty"`
	LearningRate float64 `json:"learning_rate,omitempty"`
	GPUType      string  `json:"gpu_type,omitempty"`
}

// Deployment is the payload of a successful deploy action.
type Deployment struct {
	InstanceName string `json:"instance_name"`
}

// Artifact is the payload of a successful download action. The URL is
// presigned and short-lived; fetch it promptly.
type Artifact struct {
	DownloadURL string `json:"download_url"`
}
