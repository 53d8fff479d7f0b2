package profiles_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/surgegrid/surge/cmd/surge/config/profiles"
	"github.com/surgegrid/surge/pkg/utils/try"
)

func TestProfile_Verify(t *testing.T) {
	for name, testcase := range map[string]struct {
		profile profiles.Profile
		ok      bool
	}{
		"a profile with an absolute apiRoot is valid": {
			profile: profiles.Profile{ApiRoot: "https://api.surge.example"},
			ok:      true,
		},
		"a token does not need any shape": {
			profile: profiles.Profile{ApiRoot: "https://api.surge.example", Token: "sgp_xxx"},
			ok:      true,
		},
		"a relative apiRoot is invalid": {
			profile: profiles.Profile{ApiRoot: "api.surge.example/v1"},
			ok:      false,
		},
		"cert.ca should be base64ed PEM": {
			profile: profiles.Profile{
				ApiRoot: "https://api.surge.example",
				Cert:    profiles.Cert{CA: "bm90IHBlbQ=="},
			},
			ok: false,
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := testcase.profile.Verify()
			if testcase.ok && err != nil {
				t.Errorf("unexpected error: %+v", err)
			}
			if !testcase.ok && !errors.Is(err, profiles.ErrProfileInvalid) {
				t.Errorf("unexpected error: %+v", err)
			}
		})
	}
}

func TestProfileStore(t *testing.T) {
	t.Run("Save and LoadProfileStore round-trip", func(t *testing.T) {
		root := t.TempDir()
		path := filepath.Join(root, ".surge", "profile")

		store := profiles.ProfileStore{
			"default": {
				ApiRoot: "https://api.surge.example",
				Token:   "sgp_secret",
			},
			"staging": {
				ApiRoot: "https://staging.surge.example",
			},
		}
		if err := store.Save(path); err != nil {
			t.Fatal(err)
		}

		loaded := try.To(profiles.LoadProfileStore(path)).OrFatal(t)
		if len(loaded) != 2 {
			t.Fatalf("unexpected store size: %d", len(loaded))
		}
		if *loaded["default"] != *store["default"] {
			t.Errorf(
				"profile does not round-trip: (actual, expected) = (%+v, %+v)",
				loaded["default"], store["default"],
			)
		}
		if loaded["staging"].Token != "" {
			t.Errorf("token appeared from nowhere: %s", loaded["staging"].Token)
		}

		if runtime.GOOS != "windows" {
			stat := try.To(os.Stat(path)).OrFatal(t)
			if mode := stat.Mode().Perm(); mode != 0600 {
				t.Errorf("token store is too open: %v", mode)
			}
		}
	})

	t.Run("LoadProfileStore against a missing file", func(t *testing.T) {
		_, err := profiles.LoadProfileStore(filepath.Join(t.TempDir(), "no-such-file"))
		if !errors.Is(err, profiles.ErrProfileStoreNotFound) {
			t.Errorf("unexpected error: %+v", err)
		}
	})
}
