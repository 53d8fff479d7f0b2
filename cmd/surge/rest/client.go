package rest

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	kprof "github.com/surgegrid/surge/cmd/surge/config/profiles"
	apifinetunes "github.com/surgegrid/surge/pkg/api/types/finetunes"
	apijobs "github.com/surgegrid/surge/pkg/api/types/jobs"
	apimodels "github.com/surgegrid/surge/pkg/api/types/models"
	"github.com/surgegrid/surge/pkg/utils"
)

// SurgeClient is the platform API, as commands and sessions consume it.
//
// Every method maps to one HTTP call. List methods return the collection
// under the envelope's known field, or an empty collection when the field
// is absent.
type SurgeClient interface {
	// FindJobs lists all jobs of the account.
	FindJobs(ctx context.Context) ([]apijobs.Detail, error)

	// GetJob gets job detail with given jobId.
	GetJob(ctx context.Context, jobId string) (apijobs.Detail, error)

	// CreateJob registers a new job. The job starts in "pending"; its
	// progress is discovered by subsequent FindJobs/GetJob calls only.
	CreateJob(ctx context.Context, spec apijobs.Spec) (apijobs.Detail, error)

	// CancelJob requests cancellation of the job with given jobId.
	CancelJob(ctx context.Context, jobId string) (apijobs.Detail, error)

	// JobLogs fetches the last tail lines of the job's log.
	// tail <= 0 means the server default.
	JobLogs(ctx context.Context, jobId string, tail int) (string, error)

	// FindFinetunes lists all fine-tuning jobs of the account.
	FindFinetunes(ctx context.Context) ([]apifinetunes.Detail, error)

	// GetFinetune gets fine-tuning job detail with given finetuneId.
	GetFinetune(ctx context.Context, finetuneId string) (apifinetunes.Detail, error)

	// CreateFinetune registers a new fine-tuning job.
	CreateFinetune(ctx context.Context, spec apifinetunes.Spec) (apifinetunes.Detail, error)

	// CancelFinetune requests cancellation of a fine-tuning job.
	CancelFinetune(ctx context.Context, finetuneId string) (apifinetunes.Detail, error)

	// DeployFinetune deploys a completed fine-tuning job's weights as a
	// model instance.
	DeployFinetune(ctx context.Context, finetuneId string) (apifinetunes.Deployment, error)

	// DownloadFinetune asks for a download URL of the tuned weights.
	DownloadFinetune(ctx context.Context, finetuneId string) (apifinetunes.Artifact, error)

	// FetchArtifact streams the content behind a download URL.
	//
	// handler receives the content length (-1 when unknown) and the raw
	// stream. If handler returns an error, fetching stops and the error
	// is returned.
	FetchArtifact(ctx context.Context, url string, handler func(contentLength int64, r io.Reader) error) error

	// FinetuneLogs fetches the last tail lines of the fine-tuning log.
	FinetuneLogs(ctx context.Context, finetuneId string, tail int) (string, error)

	// FindModels lists deployed model instances.
	FindModels(ctx context.Context) ([]apimodels.Detail, error)

	// RefreshModel asks the platform to re-probe the model instance.
	RefreshModel(ctx context.Context, modelId string) (apimodels.Detail, error)
}

type client struct {
	httpclient *http.Client
	api        string
}

// create new client for Profile.
//
// # Args
//
// - *kprof.Profile
//
// # Return
//
// - SurgeClient: created client
//
// - error: If given profile is invalid, ErrProfileInvalid is returned.
func NewClient(prof *kprof.Profile) (SurgeClient, error) {
	if err := prof.Verify(); err != nil {
		return nil, err
	}
	httpclient := new(http.Client)

	if prof.Cert.CA != "" {
		hc, err := trustCa(httpclient, []string{prof.Cert.CA})
		if err != nil {
			return nil, err
		}
		httpclient = hc
	}

	httpclient.Transport = &authorizedTransport{
		base:  httpclient.Transport,
		token: prof.Token,
	}

	c := &client{
		httpclient: httpclient,
		api:        strings.TrimSuffix(prof.ApiRoot, "/"),
	}

	return c, nil
}

// authorizedTransport attaches "Authorization: Bearer <token>" to each
// outgoing request.
//
// When token is empty the header is omitted entirely. Anonymous requests
// must stay anonymous, not carry "Bearer" with nothing behind it.
type authorizedTransport struct {
	base  http.RoundTripper
	token string
}

func (t *authorizedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.token == "" {
		return base.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	return base.RoundTrip(req)
}

// build URL with path
func (c *client) apipath(path ...string) string {
	path = utils.Map(path, func(p string) string {
		return strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/")
	})

	return strings.Join(append([]string{c.api}, path...), "/")
}

func trustCa(hc *http.Client, cacerts []string) (*http.Client, error) {
	if len(cacerts) <= 0 {
		return hc, nil
	}

	if hc.Transport == nil {
		hc.Transport = http.DefaultTransport
	}

	tran, ok := hc.Transport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("failed to add ca cert")
	}
	tran = tran.Clone()

	tcc := tran.TLSClientConfig.Clone()
	if tcc == nil {
		tcc = &tls.Config{}
	}

	rootcas := tcc.RootCAs
	if rootcas == nil {
		rootcas = x509.NewCertPool()
		tcc.RootCAs = rootcas
	}
	for _, ca := range cacerts {
		bin, err := base64.StdEncoding.DecodeString(ca)
		if err != nil {
			return nil, err
		}

		if !rootcas.AppendCertsFromPEM(bin) {
			return nil, fmt.Errorf("failed to add cert")
		}
	}

	tran.TLSClientConfig = tcc
	hc.Transport = tran
	return hc, nil
}
