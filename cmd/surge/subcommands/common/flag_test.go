package common_test

import (
	"os"
	"path/filepath"
	"testing"

	common "github.com/surgegrid/surge/cmd/surge/subcommands/common"
	"github.com/surgegrid/surge/pkg/utils/try"
)

func TestDefaultCommonFlags(t *testing.T) {
	root := t.TempDir()
	home := filepath.Join(root, "home")
	current := filepath.Join(root, "current")
	nested := filepath.Join(current, "children", "folder")
	for _, d := range []string{home, nested} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(
		filepath.Join(current, ".surgeprofile"), []byte("test\n"), 0o644,
	); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(
		filepath.Join(current, "surgeenv"), []byte("gpu_type: a100\n"), 0o644,
	); err != nil {
		t.Fatal(err)
	}

	t.Run("it returns default value from given directory", func(t *testing.T) {
		cf := try.To(common.Flags(
			current,
			common.WithHome(home),
		)).OrFatal(t)

		if cf.ProfileStore != filepath.Join(home, ".surge", "profile") {
			t.Errorf("wrong profile store: %s", cf.ProfileStore)
		}
		if cf.Profile != "test" {
			t.Errorf("wrong profile: %s", cf.Profile)
		}
		if cf.Env != filepath.Join(current, "surgeenv") {
			t.Errorf("wrong env: %s", cf.Env)
		}
	})

	t.Run("it returns default value from ancestors of given directory", func(t *testing.T) {
		cf := try.To(common.Flags(
			nested,
			common.WithHome(home),
		)).OrFatal(t)

		if cf.Profile != "test" {
			t.Errorf("wrong profile: %s", cf.Profile)
		}
		if cf.Env != filepath.Join(current, "surgeenv") {
			t.Errorf("wrong env: %s", cf.Env)
		}
	})

	t.Run("it falls back to the directory itself without marker files", func(t *testing.T) {
		cf := try.To(common.Flags(
			home,
			common.WithHome(home),
		)).OrFatal(t)

		if cf.ProfileStore != filepath.Join(home, ".surge", "profile") {
			t.Errorf("wrong profile store: %s", cf.ProfileStore)
		}
	})
}
