package jobs

import (
	"github.com/surgegrid/surge/pkg/api/types/misc/rfctime"
	"github.com/surgegrid/surge/pkg/api/types/status"
	"k8s.io/apimachinery/pkg/api/resource"
)

// Source tells where a job gets its workload from.
type Source string

const (
	SourceHuggingFace Source = "huggingface"
	SourceDocker      Source = "docker"
)

type Summary struct {
	JobId     string          `json:"id"`
	Name      string          `json:"name"`
	Status    status.Status   `json:"status"`
	GPUType   string          `json:"gpu_type,omitempty"`
	GPUCount  int             `json:"gpu_count,omitempty"`
	CreatedAt rfctime.RFC3339 `json:"created_at"`
	UpdatedAt rfctime.RFC3339 `json:"updated_at"`
}

func (s Summary) Equal(o Summary) bool {
	return s.JobId == o.JobId &&
		s.Name == o.Name &&
		s.Status == o.Status &&
		s.GPUType == o.GPUType &&
		s.GPUCount == o.GPUCount &&
		s.CreatedAt.Equal(o.CreatedAt) &&
		s.UpdatedAt.Equal(o.UpdatedAt)
}

type Detail struct {
	Summary
	Source      Source  `json:"source,omitempty"`
	HFRepo      string  `json:"hf_repo,omitempty"`
	Image       string  `json:"image,omitempty"`
	CostPerHour float64 `json:"cost_per_hour,omitempty"`
	TotalCost   float64 `json:"total_cost,omitempty"`
	Error       string  `json:"error,omitempty"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Summary.Equal(o.Summary) &&
		d.Source == o.Source &&
		d.HFRepo == o.HFRepo &&
		d.Image == o.Image &&
		d.CostPerHour == o.CostPerHour &&
		d.TotalCost == o.TotalCost &&
		d.Error == o.Error
}

// Identity implements console.Resource.
func (d Detail) Identity() string {
	return d.JobId
}

// Settled implements console.Resource.
func (d Detail) Settled() bool {
	return d.Status.Terminal()
}

// Spec is a request body to create a new job.
type Spec struct {
	Name   string `json:"name"`
	Source Source `json:"source"`

	// exactly one of HFRepo (source=huggingface) or Image (source=docker)
	HFRepo string `json:"hf_repo,omitempty"`
	Image  string `json:"image,omitempty"`

	GPUType   string                       `json:"gpu_type,omitempty"`
	Resources map[string]resource.Quantity `json:"resources,omitempty"`
}

func (s Spec) Equal(o Spec) bool {
	if len(s.Resources) != len(o.Resources) {
		return false
	}
	for name, q := range s.Resources {
		oq, ok := o.Resources[name]
		if !ok || !q.Equal(oq) {
			return false
		}
	}
	return s.Name == o.Name &&
		s.Source == o.Source &&
		s.HFRepo == o.HFRepo &&
		s.Image == o.Image &&
		s.GPUType == o.GPUType
}
