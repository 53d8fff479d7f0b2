package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	kprof "github.com/surgegrid/surge/cmd/surge/config/profiles"
	"github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/pkg/api/types/models"
	"github.com/surgegrid/surge/pkg/api/types/status"
	"github.com/surgegrid/surge/pkg/cmp"
	"github.com/surgegrid/surge/pkg/utils/try"
)

func TestFindModels(t *testing.T) {
	t.Run("it parses the models envelope", func(t *testing.T) {
		var gotPath string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"models": [
					{
						"id": "model-1", "name": "support-bot-v1", "status": "running",
						"ollama_url": "https://model-1.serve.example",
						"deployed_at": "2026-08-12T07:00:00+00:00"
					},
					{
						"id": "model-2", "name": "support-bot-v2", "status": "starting",
						"deployed_at": "2026-08-12T08:00:00+00:00"
					}
				]
			}`))
		}))
		defer ts.Close()

		testee := try.To(rest.NewClient(&kprof.Profile{ApiRoot: ts.URL})).OrFatal(t)

		actual := try.To(testee.FindModels(context.Background())).OrFatal(t)
		if gotPath != "/models" {
			t.Errorf("request path: got %s, want /models", gotPath)
		}

		expected := []models.Detail{
			{
				ModelId: "model-1", Name: "support-bot-v1", Status: status.Running,
				OllamaURL:  "https://model-1.serve.example",
				DeployedAt: timestamp(t, "2026-08-12T07:00:00+00:00"),
			},
			{
				ModelId: "model-2", Name: "support-bot-v2", Status: status.Starting,
				DeployedAt: timestamp(t, "2026-08-12T08:00:00+00:00"),
			},
		}
		if !cmp.SliceEqWith(actual, expected, models.Detail.Equal) {
			t.Errorf("models:\ngot:  %+v\nwant: %+v", actual, expected)
		}
	})
}

func TestRefreshModel(t *testing.T) {
	t.Run("it posts to /models/{id}/refresh", func(t *testing.T) {
		var gotMethod, gotPath string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "model-1", "name": "support-bot-v1", "status": "running",
				"ollama_url": "https://model-1.serve.example",
				"deployed_at": "2026-08-12T07:00:00+00:00"
			}`))
		}))
		defer ts.Close()

		testee := try.To(rest.NewClient(&kprof.Profile{ApiRoot: ts.URL})).OrFatal(t)

		actual := try.To(testee.RefreshModel(context.Background(), "model-1")).OrFatal(t)
		if gotMethod != http.MethodPost || gotPath != "/models/model-1/refresh" {
			t.Errorf("request: got %s %s, want POST /models/model-1/refresh", gotMethod, gotPath)
		}
		if actual.OllamaURL != "https://model-1.serve.example" {
			t.Errorf("ollama url: got %q", actual.OllamaURL)
		}
	})
}
