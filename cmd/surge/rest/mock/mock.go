package mock

import (
	"context"
	"io"
	"testing"

	"github.com/surgegrid/surge/cmd/surge/rest"
	apifinetunes "github.com/surgegrid/surge/pkg/api/types/finetunes"
	apijobs "github.com/surgegrid/surge/pkg/api/types/jobs"
	apimodels "github.com/surgegrid/surge/pkg/api/types/models"
)

func New(t *testing.T) *mockSurgeClient {
	return &mockSurgeClient{t: t}
}

type mockSurgeClient struct {
	t    *testing.T
	Impl struct {
		FindJobs       func(ctx context.Context) ([]apijobs.Detail, error)
		GetJob         func(ctx context.Context, jobId string) (apijobs.Detail, error)
		CreateJob      func(ctx context.Context, spec apijobs.Spec) (apijobs.Detail, error)
		CancelJob      func(ctx context.Context, jobId string) (apijobs.Detail, error)
		JobLogs        func(ctx context.Context, jobId string, tail int) (string, error)
		FindFinetunes  func(ctx context.Context) ([]apifinetunes.Detail, error)
		GetFinetune    func(ctx context.Context, finetuneId string) (apifinetunes.Detail, error)
		CreateFinetune func(ctx context.Context, spec apifinetunes.Spec) (apifinetunes.Detail, error)
		CancelFinetune func(ctx context.Context, finetuneId string) (apifinetunes.Detail, error)
		DeployFinetune func(ctx context.Context, finetuneId string) (apifinetunes.Deployment, error)
		DownloadFinetune func(ctx context.Context, finetuneId string) (apifinetunes.Artifact, error)
		FetchArtifact  func(ctx context.Context, url string, handler func(int64, io.Reader) error) error
		FinetuneLogs   func(ctx context.Context, finetuneId string, tail int) (string, error)
		FindModels     func(ctx context.Context) ([]apimodels.Detail, error)
		RefreshModel   func(ctx context.Context, modelId string) (apimodels.Detail, error)
	}
	Calls struct {
		FindJobs       int
		CreateJob      []apijobs.Spec
		CancelJob      []string
		FindFinetunes  int
		CreateFinetune []apifinetunes.Spec
		CancelFinetune []string
		DeployFinetune []string
		DownloadFinetune []string
		FindModels     int
		RefreshModel   []string
	}
}

var _ rest.SurgeClient = &mockSurgeClient{}

func (m *mockSurgeClient) FindJobs(ctx context.Context) ([]apijobs.Detail, error) {
	m.t.Helper()
	if m.Impl.FindJobs == nil {
		m.t.Fatal("FindJobs is not ready to be called")
	}
	m.Calls.FindJobs += 1
	return m.Impl.FindJobs(ctx)
}

func (m *mockSurgeClient) GetJob(ctx context.Context, jobId string) (apijobs.Detail, error) {
	m.t.Helper()
	if m.Impl.GetJob == nil {
		m.t.Fatal("GetJob is not ready to be called")
	}
	return m.Impl.GetJob(ctx, jobId)
}

func (m *mockSurgeClient) CreateJob(ctx context.Context, spec apijobs.Spec) (apijobs.Detail, error) {
	m.t.Helper()
	if m.Impl.CreateJob == nil {
		m.t.Fatal("CreateJob is not ready to be called")
	}
	m.Calls.CreateJob = append(m.Calls.CreateJob, spec)
	return m.Impl.CreateJob(ctx, spec)
}

func (m *mockSurgeClient) CancelJob(ctx context.Context, jobId string) (apijobs.Detail, error) {
	m.t.Helper()
	if m.Impl.CancelJob == nil {
		m.t.Fatal("CancelJob is not ready to be called")
	}
	m.Calls.CancelJob = append(m.Calls.CancelJob, jobId)
	return m.Impl.CancelJob(ctx, jobId)
}

func (m *mockSurgeClient) JobLogs(ctx context.Context, jobId string, tail int) (string, error) {
	m.t.Helper()
	if m.Impl.JobLogs == nil {
		m.t.Fatal("JobLogs is not ready to be called")
	}
	return m.Impl.JobLogs(ctx, jobId, tail)
}

func (m *mockSurgeClient) FindFinetunes(ctx context.Context) ([]apifinetunes.Detail, error) {
	m.t.Helper()
	if m.Impl.FindFinetunes == nil {
		m.t.Fatal("FindFinetunes is not ready to be called")
	}
	m.Calls.FindFinetunes += 1
	return m.Impl.FindFinetunes(ctx)
}

func (m *mockSurgeClient) GetFinetune(ctx context.Context, finetuneId string) (apifinetunes.Detail, error) {
	m.t.Helper()
	if m.Impl.GetFinetune == nil {
		m.t.Fatal("GetFinetune is not ready to be called")
	}
	return m.Impl.GetFinetune(ctx, finetuneId)
}

func (m *mockSurgeClient) CreateFinetune(ctx context.Context, spec apifinetunes.Spec) (apifinetunes.Detail, error) {
	m.t.Helper()
	if m.Impl.CreateFinetune == nil {
		m.t.Fatal("CreateFinetune is not ready to be called")
	}
	m.Calls.CreateFinetune = append(m.Calls.CreateFinetune, spec)
	return m.Impl.CreateFinetune(ctx, spec)
}

func (m *mockSurgeClient) CancelFinetune(ctx context.Context, finetuneId string) (apifinetunes.Detail, error) {
	m.t.Helper()
	if m.Impl.CancelFinetune == nil {
		m.t.Fatal("CancelFinetune is not ready to be called")
	}
	m.Calls.CancelFinetune = append(m.Calls.CancelFinetune, finetuneId)
	return m.Impl.CancelFinetune(ctx, finetuneId)
}

func (m *mockSurgeClient) DeployFinetune(ctx context.Context, finetuneId string) (apifinetunes.Deployment, error) {
	m.t.Helper()
	if m.Impl.DeployFinetune == nil {
		m.t.Fatal("DeployFinetune is not ready to be called")
	}
	m.Calls.DeployFinetune = append(m.Calls.DeployFinetune, finetuneId)
	return m.Impl.DeployFinetune(ctx, finetuneId)
}

func (m *mockSurgeClient) DownloadFinetune(ctx context.Context, finetuneId string) (apifinetunes.Artifact, error) {
	m.t.Helper()
	if m.Impl.DownloadFinetune == nil {
		m.t.Fatal("DownloadFinetune is not ready to be called")
	}
	m.Calls.DownloadFinetune = append(m.Calls.DownloadFinetune, finetuneId)
	return m.Impl.DownloadFinetune(ctx, finetuneId)
}

func (m *mockSurgeClient) FetchArtifact(
	ctx context.Context, url string, handler func(int64, io.Reader) error,
) error {
	m.t.Helper()
	if m.Impl.FetchArtifact == nil {
		m.t.Fatal("FetchArtifact is not ready to be called")
	}
	return m.Impl.FetchArtifact(ctx, url, handler)
}

func (m *mockSurgeClient) FinetuneLogs(ctx context.Context, finetuneId string, tail int) (string, error) {
	m.t.Helper()
	if m.Impl.FinetuneLogs == nil {
		m.t.Fatal("FinetuneLogs is not ready to be called")
	}
	return m.Impl.FinetuneLogs(ctx, finetuneId, tail)
}

func (m *mockSurgeClient) FindModels(ctx context.Context) ([]apimodels.Detail, error) {
	m.t.Helper()
	if m.Impl.FindModels == nil {
		m.t.Fatal("FindModels is not ready to be called")
	}
	m.Calls.FindModels += 1
	return m.Impl.FindModels(ctx)
}

func (m *mockSurgeClient) RefreshModel(ctx context.Context, modelId string) (apimodels.Detail, error) {
	m.t.Helper()
	if m.Impl.RefreshModel == nil {
		m.t.Fatal("RefreshModel is not ready to be called")
	}
	m.Calls.RefreshModel = append(m.Calls.RefreshModel, modelId)
	return m.Impl.RefreshModel(ctx, modelId)
}
