package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	apijobs "github.com/surgegrid/surge/pkg/api/types/jobs"
)

func (c *client) FindJobs(ctx context.Context) ([]apijobs.Detail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apipath("jobs"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope struct {
		Jobs []apijobs.Detail `json:"jobs"`
	}
	if err := unmarshalJsonResponse(
		resp, &envelope,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot list jobs (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return nil, err
	}

	if envelope.Jobs == nil {
		return []apijobs.Detail{}, nil
	}
	return envelope.Jobs, nil
}

func (c *client) GetJob(ctx context.Context, jobId string) (apijobs.Detail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apipath("jobs", jobId), nil)
	if err != nil {
		return apijobs.Detail{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apijobs.Detail{}, err
	}
	defer resp.Body.Close()

	var job apijobs.Detail
	if err := unmarshalJsonResponse(
		resp, &job,
		MessageFor{
			Status4xx: fmt.Sprintf("job:%v is not found", jobId),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apijobs.Detail{}, err
	}
	return job, nil
}

func (c *client) CreateJob(ctx context.Context, spec apijobs.Spec) (apijobs.Detail, error) {
	body, err := json.Marshal(spec)
	if err != nil {
		return apijobs.Detail{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("jobs"), bytes.NewReader(body),
	)
	if err != nil {
		return apijobs.Detail{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	// retrying a create must not provision twice
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apijobs.Detail{}, err
	}
	defer resp.Body.Close()

	var job apijobs.Detail
	if err := unmarshalActionResponse(
		resp, &job,
		MessageFor{
			Status4xx: fmt.Sprintf("job is rejected (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apijobs.Detail{}, err
	}
	return job, nil
}

func (c *client) CancelJob(ctx context.Context, jobId string) (apijobs.Detail, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("jobs", jobId, "cancel"), nil,
	)
	if err != nil {
		return apijobs.Detail{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apijobs.Detail{}, err
	}
	defer resp.Body.Close()

	var job apijobs.Detail
	if err := unmarshalActionResponse(
		resp, &job,
		MessageFor{
			Status4xx: fmt.Sprintf("job:%v cannot be cancelled", jobId),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apijobs.Detail{}, err
	}
	return job, nil
}

func (c *client) JobLogs(ctx context.Context, jobId string, tail int) (string, error) {
	logpath := c.apipath("jobs", jobId, "logs")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logpath, nil)
	if err != nil {
		return "", err
	}
	if 0 < tail {
		q := req.URL.Query()
		q.Add("tail", strconv.Itoa(tail))
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var envelope struct {
		Logs string `json:"logs"`
	}
	if err := unmarshalJsonResponse(
		resp, &envelope,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot get log of job:%v", jobId),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return "", err
	}
	return envelope.Logs, nil
}
