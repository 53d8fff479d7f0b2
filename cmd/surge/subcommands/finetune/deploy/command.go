package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/surgegrid/surge/cmd/surge/env"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	apift "github.com/surgegrid/surge/pkg/api/types/finetunes"
	"github.com/youta-t/flarc"
)

type Option struct {
	deploy Deploy
}

// Deploy requests a deployment and refetches the fine-tuning Job to pick
// up its post-action state.
//
// A nil Detail means the deployment went through but the refetch did not.
type Deploy func(
	ctx context.Context,
	client srest.SurgeClient,
	finetuneId string,
) (apift.Deployment, *apift.Detail, error)

func WithDeploy(deploy Deploy) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.deploy = deploy
		return dfc
	}
}

const ARG_FINETUNE_ID = "FINETUNE_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		deploy: RunDeployFinetune,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Deploy the tuned weights of a completed fine-tuning Job.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_FINETUNE_ID, Required: true,
				Help: "Id of the completed fine-tuning Job to be deployed",
			},
		},
		common.NewTask(Task(option.deploy)),
		flarc.WithDescription(`
Deploy the tuned weights of a completed fine-tuning Job as a model instance.

Only a fine-tuning Job in status "completed" can be deployed. The platform
rejects anything else and nothing changes on the server.

The new model instance appears in "surge model find" once it is serving.
`),
	)
}

func Task(deploy Deploy) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		surgeEnv env.SurgeEnv,
		client srest.SurgeClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		finetuneId := cl.Args()[ARG_FINETUNE_ID][0]

		deployment, finetune, err := deploy(ctx, client, finetuneId)
		if err != nil {
			return fmt.Errorf("cannot deploy fine-tuning Job Id:%s: %w", finetuneId, err)
		}

		logger.Printf("deployed as model instance: %s", deployment.InstanceName)

		if finetune == nil {
			return nil
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(finetune); err != nil {
			logger.Panicf("fail to dump the deployed fine-tuning Job")
		}
		return nil
	}
}

func RunDeployFinetune(
	ctx context.Context, client srest.SurgeClient, finetuneId string,
) (apift.Deployment, *apift.Detail, error) {
	deployment, err := client.DeployFinetune(ctx, finetuneId)
	if err != nil {
		return apift.Deployment{}, nil, err
	}

	finetune, err := client.GetFinetune(ctx, finetuneId)
	if err != nil {
		// the deployment itself went through
		return deployment, nil, nil
	}
	return deployment, &finetune, nil
}
