package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/surgegrid/surge/cmd/surge/config/profiles"
	"github.com/surgegrid/surge/cmd/surge/env"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/youta-t/flarc"
)

type SurgeTaskWithCommonFlag[T any] func(
	ctx context.Context,
	logger *log.Logger,
	commonFlag CommonFlags,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTaskWithCommonFlag[T any](task SurgeTaskWithCommonFlag[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var commonFlag CommonFlags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		return task(
			ctx,
			logger,
			commonFlag,
			cl,
			newpos,
		)
	}
}

type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	surgeEnv env.SurgeEnv,
	client srest.SurgeClient,
	cl flarc.Commandline[T],
	params []any,
) error

// NewTask wraps task with profile loading and client construction.
//
// The wrapped task receives a ready-to-use client for the profile the
// common flags select.
func NewTask[T any](task Task[T]) flarc.Task[T] {

	return NewTaskWithCommonFlag(func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag CommonFlags,
		cl flarc.Commandline[T],
		params []any,
	) error {
		prof := &profiles.Profile{}
		store, err := profiles.LoadProfileStore(commonFlag.ProfileStore)
		if err == nil {
			p, ok := store[commonFlag.Profile]
			if !ok {
				return fmt.Errorf(
					"profile '%s' not found in the profile store (%s)",
					commonFlag.Profile, commonFlag.ProfileStore,
				)
			}
			prof = p
		} else if !errors.Is(err, profiles.ErrProfileStoreNotFound) {
			return fmt.Errorf(
				"%w: failed to load surge profile store (%s)",
				err, commonFlag.ProfileStore,
			)
		} else if os.Getenv("SURGE_API") == "" {
			// without SURGE_API there is nothing to connect to
			return fmt.Errorf(
				"%w: surge profile store (%s) is not found. Please try `surge init` first. Your account page shows the profile to register",
				err, commonFlag.ProfileStore,
			)
		}

		e, err := env.LoadSurgeEnv(commonFlag.Env)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w: failed to load surgeenv", err)
			}
		}

		// environment overrides beat the stored profile
		if apiRoot := os.Getenv("SURGE_API"); apiRoot != "" {
			prof.ApiRoot = apiRoot
		}
		if token := os.Getenv("SURGE_TOKEN"); token != "" {
			prof.Token = token
		}

		client, err := srest.NewClient(prof)
		if err != nil {
			return fmt.Errorf(
				"%w: failed to create surge client. Your surge profile (%s in %s) can be broken.\n\nRemove it and try `surge init` again",
				err, commonFlag.Profile, commonFlag.ProfileStore,
			)
		}
		return task(ctx, logger, *e, client, cl, params)
	})
}
