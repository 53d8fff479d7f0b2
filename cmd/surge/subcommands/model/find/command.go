package find

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/surgegrid/surge/cmd/surge/env"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	apimodels "github.com/surgegrid/surge/pkg/api/types/models"
	"github.com/surgegrid/surge/pkg/utils"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Serving bool `flag:"serving" help:"show only Model instances which are serving now."`
}

type Option struct {
	find func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		servingOnly bool,
	) ([]apimodels.Detail, error)
}

func WithFind(
	find func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		servingOnly bool,
	) ([]apimodels.Detail, error),
) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.find = find
		return dfc
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		find: RunFindModel,
	}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Display deployed Model instances.",
		Flag{
			Serving: false,
		},
		flarc.Args{},
		common.NewTask(Task(option.find)),
		flarc.WithDescription(`
Display deployed Model instances.

A Model instance is serving when it exposes an inference endpoint.
"surge chat" talks to such an endpoint.
`),
	)
}

func Task(
	find func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		servingOnly bool,
	) ([]apimodels.Detail, error),
) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		surgeEnv env.SurgeEnv,
		client srest.SurgeClient,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		models, err := find(ctx, logger, client, cl.Flags().Serving)
		if err != nil {
			return fmt.Errorf("fail to find Model instances: %w", err)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(models); err != nil {
			logger.Panicf("fail to dump found Model instances")
		}
		return nil
	}
}

func RunFindModel(
	ctx context.Context,
	logger *log.Logger,
	client srest.SurgeClient,
	servingOnly bool,
) ([]apimodels.Detail, error) {
	models, err := client.FindModels(ctx)
	if err != nil {
		return nil, err
	}
	if !servingOnly {
		return models, nil
	}
	return utils.Filter(models, func(m apimodels.Detail) bool {
		return m.OllamaURL != ""
	}), nil
}
