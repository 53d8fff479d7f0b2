package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	apifinetunes "github.com/surgegrid/surge/pkg/api/types/finetunes"
)

func (c *client) FindFinetunes(ctx context.Context) ([]apifinetunes.Detail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apipath("finetune"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope struct {
		Finetunes []apifinetunes.Detail `json:"finetune_jobs"`
	}
	if err := unmarshalJsonResponse(
		resp, &envelope,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot list fine-tuning jobs (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return nil, err
	}

	if envelope.Finetunes == nil {
		return []apifinetunes.Detail{}, nil
	}
	return envelope.Finetunes, nil
}

func (c *client) GetFinetune(ctx context.Context, finetuneId string) (apifinetunes.Detail, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath("finetune", finetuneId), nil,
	)
	if err != nil {
		return apifinetunes.Detail{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apifinetunes.Detail{}, err
	}
	defer resp.Body.Close()

	var finetune apifinetunes.Detail
	if err := unmarshalJsonResponse(
		resp, &finetune,
		MessageFor{
			Status4xx: fmt.Sprintf("fine-tuning job:%v is not found", finetuneId),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apifinetunes.Detail{}, err
	}
	return finetune, nil
}

func (c *client) CreateFinetune(ctx context.Context, spec apifinetunes.Spec) (apifinetunes.Detail, error) {
	body, err := json.Marshal(spec)
	if err != nil {
		return apifinetunes.Detail{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("finetune"), bytes.NewReader(body),
	)
	if err != nil {
		return apifinetunes.Detail{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apifinetunes.Detail{}, err
	}
	defer resp.Body.Close()

	var finetune apifinetunes.Detail
	if err := unmarshalActionResponse(
		resp, &finetune,
		MessageFor{
			Status4xx: fmt.Sprintf("fine-tuning job is rejected (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apifinetunes.Detail{}, err
	}
	return finetune, nil
}

func (c *client) CancelFinetune(ctx context.Context, finetuneId string) (apifinetunes.Detail, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("finetune", finetuneId, "cancel"), nil,
	)
	if err != nil {
		return apifinetunes.Detail{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apifinetunes.Detail{}, err
	}
	defer resp.Body.Close()

	var finetune apifinetunes.Detail
	if err := unmarshalActionResponse(
		resp, &finetune,
		MessageFor{
			Status4xx: fmt.Sprintf("fine-tuning job:%v cannot be cancelled", finetuneId),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apifinetunes.Detail{}, err
	}
	return finetune, nil
}

func (c *client) DeployFinetune(ctx context.Context, finetuneId string) (apifinetunes.Deployment, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("finetune", finetuneId, "deploy"), nil,
	)
	if err != nil {
		return apifinetunes.Deployment{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apifinetunes.Deployment{}, err
	}
	defer resp.Body.Close()

	var deployment apifinetunes.Deployment
	if err := unmarshalActionResponse(
		resp, &deployment,
		MessageFor{
			Status4xx: fmt.Sprintf("fine-tuning job:%v cannot be deployed", finetuneId),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apifinetunes.Deployment{}, err
	}
	return deployment, nil
}

func (c *client) DownloadFinetune(ctx context.Context, finetuneId string) (apifinetunes.Artifact, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("finetune", finetuneId, "download"), nil,
	)
	if err != nil {
		return apifinetunes.Artifact{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apifinetunes.Artifact{}, err
	}
	defer resp.Body.Close()

	var artifact apifinetunes.Artifact
	if err := unmarshalActionResponse(
		resp, &artifact,
		MessageFor{
			Status4xx: fmt.Sprintf("weights of fine-tuning job:%v are not downloadable", finetuneId),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apifinetunes.Artifact{}, err
	}
	return artifact, nil
}

func (c *client) FetchArtifact(
	ctx context.Context, url string, handler func(contentLength int64, r io.Reader) error,
) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	r, err := unmarshalStreamResponse(
		resp,
		MessageFor{
			Status4xx: "download URL is expired or wrong",
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	)
	if err != nil {
		return err
	}

	return handler(resp.ContentLength, r)
}

func (c *client) FinetuneLogs(ctx context.Context, finetuneId string, tail int) (string, error) {
	logpath := c.apipath("finetune", finetuneId, "logs")
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
			Status4xx: fmt.Sprintf("cannot get log of fine-tuning job:%v", finetuneId),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return "", err
	}
	return envelope.Logs, nil
}
