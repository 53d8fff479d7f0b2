package rest

import (
	"context"
	"fmt"
	"net/http"

	apimodels "github.com/surgegrid/surge/pkg/api/types/models"
)

func (c *client) FindModels(ctx context.Context) ([]apimodels.Detail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apipath("models"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope struct {
		Models []apimodels.Detail `json:"models"`
	}
	if err := unmarshalJsonResponse(
		resp, &envelope,
		MessageFor{
			Status4xx: fmt.Sprintf("cannot list models (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return nil, err
	}

	if envelope.Models == nil {
		return []apimodels.Detail{}, nil
	}
	return envelope.Models, nil
}

func (c *client) RefreshModel(ctx context.Context, modelId string) (apimodels.Detail, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath("models", modelId, "refresh"), nil,
	)
	if err != nil {
		return apimodels.Detail{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return apimodels.Detail{}, err
	}
	defer resp.Body.Close()

	var model apimodels.Detail
	if err := unmarshalActionResponse(
		resp, &model,
		MessageFor{
			Status4xx: fmt.Sprintf("model:%v cannot be refreshed", modelId),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return apimodels.Detail{}, err
	}
	return model, nil
}
