package rest_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	kprof "github.com/surgegrid/surge/cmd/surge/config/profiles"
	"github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/pkg/api/types/finetunes"
	"github.com/surgegrid/surge/pkg/api/types/status"
	"github.com/surgegrid/surge/pkg/cmp"
	"github.com/surgegrid/surge/pkg/utils/try"
)

func TestFindFinetunes(t *testing.T) {
	t.Run("it parses the finetune_jobs envelope", func(t *testing.T) {
		var gotPath string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"finetune_jobs": [
					{
						"id": "ft-1", "name": "support-bot", "status": "running",
						"base_model": "llama-3-8b", "dataset": "tickets-2026q2",
						"epochs": 3, "progress": 0.42,
						"created_at": "2026-08-10T08:00:00+00:00",
						"updated_at": "2026-08-10T09:30:00+00:00"
					}
				]
			}`))
		}))
		defer ts.Close()

		testee := try.To(rest.NewClient(&kprof.Profile{ApiRoot: ts.URL})).OrFatal(t)

		actual := try.To(testee.FindFinetunes(context.Background())).OrFatal(t)
		if gotPath != "/finetune" {
			t.Errorf("request path: got %s, want /finetune", gotPath)
		}

		expected := []finetunes.Detail{
			{
				Summary: finetunes.Summary{
					FinetuneId: "ft-1", Name: "support-bot", Status: status.Running,
					BaseModel: "llama-3-8b",
					CreatedAt: timestamp(t, "2026-08-10T08:00:00+00:00"),
					UpdatedAt: timestamp(t, "2026-08-10T09:30:00+00:00"),
				},
				Dataset: "tickets-2026q2", Epochs: 3, Progress: 0.42,
			},
		}
		if !cmp.SliceEqWith(actual, expected, finetunes.Detail.Equal) {
			t.Errorf("finetunes:\ngot:  %+v\nwant: %+v", actual, expected)
		}
	})

	t.Run("it returns an empty collection when the envelope is bare", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		}))
		defer ts.Close()

		testee := try.To(rest.NewClient(&kprof.Profile{ApiRoot: ts.URL})).OrFatal(t)

		actual := try.To(testee.FindFinetunes(context.Background())).OrFatal(t)
		if actual == nil || len(actual) != 0 {
			t.Errorf("finetunes: got %+v, want empty (not nil)", actual)
		}
	})
}

func TestDeployFinetune(t *testing.T) {
	t.Run("it posts to /finetune/{id}/deploy and returns the deployment", func(t *testing.T) {
		var gotMethod, gotPath string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"instance_name": "support-bot-v1"}`))
		}))
		defer ts.Close()

		testee := try.To(rest.NewClient(&kprof.Profile{ApiRoot: ts.URL})).OrFatal(t)

		actual := try.To(testee.DeployFinetune(context.Background(), "ft-1")).OrFatal(t)
		if gotMethod != http.MethodPost || gotPath != "/finetune/ft-1/deploy" {
			t.Errorf("request: got %s %s, want POST /finetune/ft-1/deploy", gotMethod, gotPath)
		}
		if actual.InstanceName != "support-bot-v1" {
			t.Errorf("instance name: got %q", actual.InstanceName)
		}
	})

	t.Run("it surfaces the rejection text verbatim", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error": "finetune ft-1 is not completed"}`))
		}))
		defer ts.Close()

		testee := try.To(rest.NewClient(&kprof.Profile{ApiRoot: ts.URL})).OrFatal(t)

		_, err := testee.DeployFinetune(context.Background(), "ft-1")
		if err == nil {
			t.Fatal("no error returned for 409 response")
		}
		if err.Error() != "finetune ft-1 is not completed" {
			t.Errorf("error message: got %q", err.Error())
		}
	})
}

func TestDownloadFinetune(t *testing.T) {
	t.Run("it posts to /finetune/{id}/download and returns the artifact URL", func(t *testing.T) {
		var gotMethod, gotPath string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"download_url": "https://artifacts.example/ft-1.safetensors?sig=abc"}`))
		}))
		defer ts.Close()

		testee := try.To(rest.NewClient(&kprof.Profile{ApiRoot: ts.URL})).OrFatal(t)

		actual := try.To(testee.DownloadFinetune(context.Background(), "ft-1")).OrFatal(t)
		if gotMethod != http.MethodPost || gotPath != "/finetune/ft-1/download" {
			t.Errorf("request: got %s %s, want POST /finetune/ft-1/download", gotMethod, gotPath)
		}
		if actual.DownloadURL != "https://artifacts.example/ft-1.safetensors?sig=abc" {
			t.Errorf("download url: got %q", actual.DownloadURL)
		}
	})
}

func TestFetchArtifact(t *testing.T) {
	t.Run("it streams the artifact content to the handler", func(t *testing.T) {
		content := strings.Repeat("weights", 100)
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write([]byte(content))
		}))
		defer ts.Close()

		testee := try.To(rest.NewClient(&kprof.Profile{ApiRoot: ts.URL})).OrFatal(t)

		var gotLength int64
		var gotContent []byte
		err := testee.FetchArtifact(
			context.Background(), ts.URL+"/artifact",
			func(contentLength int64, r io.Reader) error {
				gotLength = contentLength
				var err error
				gotContent, err = io.ReadAll(r)
				return err
			},
		)
		if err != nil {
			t.Fatal(err)
		}
		if gotLength != int64(len(content)) {
			t.Errorf("content length: got %d, want %d", gotLength, len(content))
		}
		if string(gotContent) != content {
			t.Errorf("content does not round-trip (got %d bytes)", len(gotContent))
		}
	})

	t.Run("it propagates the handler's error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("payload"))
		}))
		defer ts.Close()

		testee := try.To(rest.NewClient(&kprof.Profile{ApiRoot: ts.URL})).OrFatal(t)

		wantErr := io.ErrShortWrite
		err := testee.FetchArtifact(
			context.Background(), ts.URL+"/artifact",
			func(int64, io.Reader) error { return wantErr },
		)
		if err != wantErr {
			t.Errorf("error: got %v, want %v", err, wantErr)
		}
	})
}

func TestFinetuneLogs(t *testing.T) {
	t.Run("it fetches /finetune/{id}/logs", func(t *testing.T) {
		var gotPath string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"logs": "epoch 1/3 loss=1.92\n"}`))
		}))
		defer ts.Close()

		testee := try.To(rest.NewClient(&kprof.Profile{ApiRoot: ts.URL})).OrFatal(t)

		actual := try.To(testee.FinetuneLogs(context.Background(), "ft-1", 0)).OrFatal(t)
		if gotPath != "/finetune/ft-1/logs" {
			t.Errorf("request path: got %s, want /finetune/ft-1/logs", gotPath)
		}
		if actual != "epoch 1/3 loss=1.92\n" {
			t.Errorf("logs: got %q", actual)
		}
	})
}
