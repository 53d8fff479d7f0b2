package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/surgegrid/surge/cmd/surge/env"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	apimodels "github.com/surgegrid/surge/pkg/api/types/models"
	"github.com/youta-t/flarc"
)

type Option struct {
	refresh Refresh
}

type Refresh func(
	ctx context.Context,
	client srest.SurgeClient,
	modelId string,
) (apimodels.Detail, error)

func WithRefresh(refresh Refresh) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.refresh = refresh
		return dfc
	}
}

const ARG_MODEL_ID = "MODEL_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		refresh: RunRefreshModel,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Re-probe the Model instance with the specified Id.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_MODEL_ID, Required: true,
				Help: "Id of the Model instance to be re-probed",
			},
		},
		common.NewTask(Task(option.refresh)),
		flarc.WithDescription(`
Ask the platform to re-probe the Model instance with the specified Id.

Useful when an instance looks stuck in "starting": a refresh makes the
platform re-check the inference endpoint and report the current state.
`),
	)
}

func Task(refresh Refresh) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		surgeEnv env.SurgeEnv,
		client srest.SurgeClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		modelId := cl.Args()[ARG_MODEL_ID][0]

		model, err := refresh(ctx, client, modelId)
		if err != nil {
			return fmt.Errorf("cannot refresh Model instance Id:%s: %w", modelId, err)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(model); err != nil {
			logger.Panicf("fail to dump the refreshed Model instance")
		}
		return nil
	}
}

func RunRefreshModel(
	ctx context.Context, client srest.SurgeClient, modelId string,
) (apimodels.Detail, error) {
	return client.RefreshModel(ctx, modelId)
}
