package env_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/surgegrid/surge/cmd/surge/env"
	"github.com/surgegrid/surge/pkg/utils/try"
)

func TestLoadSurgeEnv(t *testing.T) {
	t.Run("it reads defaults from yaml", func(t *testing.T) {
		root := t.TempDir()
		path := filepath.Join(root, "surgeenv")
		content := `
gpuType: h100
resource:
  gpu: "2"
  memory: 80Gi
pollInterval: 5s
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		actual := try.To(env.LoadSurgeEnv(path)).OrFatal(t)

		if actual.GPUType != "h100" {
			t.Errorf("unexpected gpuType: %s", actual.GPUType)
		}
		if actual.Resource["gpu"] != "2" || actual.Resource["memory"] != "80Gi" {
			t.Errorf("unexpected resource: %v", actual.Resource)
		}
		if interval := actual.Interval(10 * time.Second); interval != 5*time.Second {
			t.Errorf("unexpected interval: %s", interval)
		}
	})

	t.Run("a missing file yields empty defaults", func(t *testing.T) {
		actual := try.To(env.LoadSurgeEnv(filepath.Join(t.TempDir(), "no-such-file"))).OrFatal(t)

		if actual.GPUType != "" || len(actual.Resource) != 0 {
			t.Errorf("unexpected env: %+v", actual)
		}
		if interval := actual.Interval(10 * time.Second); interval != 10*time.Second {
			t.Errorf("unexpected interval: %s", interval)
		}
	})

	t.Run("an unparsable pollInterval falls back", func(t *testing.T) {
		se := env.SurgeEnv{PollInterval: "whenever"}
		if interval := se.Interval(30 * time.Second); interval != 30*time.Second {
			t.Errorf("unexpected interval: %s", interval)
		}
	})
}
