package init

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	prof "github.com/surgegrid/surge/cmd/surge/config/profiles"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	"github.com/youta-t/flarc"
	"gopkg.in/yaml.v3"
)

const ARG_SURGE_PROFILE_FILE = "SURGE_PROFILE_FILE"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"initialize this directory as a Surge-powered project.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_SURGE_PROFILE_FILE, Required: true,
				Help: "filepath to a surge profile file, downloaded from your account page.",
			},
		},
		common.NewTaskWithCommonFlag(Task()),
		flarc.WithDescription(`
Register a new surge profile into your profile store.

A "surge profile" is a file which contains the API endpoint and the token
of your Surge account. "{{ .Command }}" registers the given profile into
your profile store and marks the current directory as using it.

The name of the profile is given by "--profile" ( default: current filepath ).
`),
	)
}

func Task() common.SurgeTaskWithCommonFlag[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag common.CommonFlags,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		profFile := cl.Args()[ARG_SURGE_PROFILE_FILE][0]

		profStore, err := prof.LoadProfileStore(commonFlag.ProfileStore)
		if errors.Is(err, prof.ErrProfileStoreNotFound) {
			// ok.
			profStore = prof.ProfileStore{}
		} else if err != nil {
			return fmt.Errorf(
				"failed to load profile store (%s): %w", commonFlag.ProfileStore, err,
			)
		}

		profName := commonFlag.Profile
		newProf := new(prof.Profile)
		{
			content, err := os.ReadFile(profFile)
			if err != nil {
				return fmt.Errorf("failed to read profile file (%s): %w", profFile, err)
			}

			if err := yaml.Unmarshal(content, newProf); err != nil {
				return fmt.Errorf("failed to parse profile file (%s): %w", profFile, err)
			}
		}
		if err := newProf.Verify(); err != nil {
			return fmt.Errorf("%s: %w", profFile, err)
		}

		profStore[profName] = newProf
		if err := profStore.Save(commonFlag.ProfileStore); err != nil {
			return fmt.Errorf(
				"failed to save profile store (%s): %w", commonFlag.ProfileStore, err,
			)
		}
		logger.Printf(
			"profile %s is saved to %s", profName, commonFlag.ProfileStore,
		)

		{
			f, err := os.OpenFile(".surgeprofile", os.O_RDWR|os.O_CREATE|os.O_TRUNC, os.FileMode(0600))
			if err != nil {
				return fmt.Errorf("failed to open .surgeprofile: %w", err)
			}
			defer f.Close()
			f.Write([]byte(profName))
		}

		return nil
	}
}
