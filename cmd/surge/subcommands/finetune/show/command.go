package show

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
	showInfo ShowInfo
}

type ShowInfo func(
	ctx context.Context,
	client srest.SurgeClient,
	finetuneId string,
) (apift.Detail, error)

func WithRunner(showInfo ShowInfo) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.showInfo = showInfo
		return dfc
	}
}

const ARG_FINETUNE_ID = "FINETUNE_ID"

func New(
	options ...func(*Option) *Option,
) (flarc.Command, error) {
	option := &Option{
		showInfo: RunShowFinetune,
	}

	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Return the fine-tuning Job information for the specified Id.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_FINETUNE_ID, Required: true,
				Help: "Id of the fine-tuning Job to be shown",
			},
		},
		common.NewTask(Task(option.showInfo)),
	)
}

func Task(showInfo ShowInfo) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		surgeEnv env.SurgeEnv,
		client srest.SurgeClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		finetuneId := cl.Args()[ARG_FINETUNE_ID][0]

		finetune, err := showInfo(ctx, client, finetuneId)
		if err != nil {
			return fmt.Errorf("%w: fine-tuning Job Id:%s", err, finetuneId)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(finetune); err != nil {
			logger.Panicf("fail to dump fine-tuning Job")
		}
		return nil
	}
}

func RunShowFinetune(
	ctx context.Context, client srest.SurgeClient, finetuneId string,
) (apift.Detail, error) {
	return client.GetFinetune(ctx, finetuneId)
}
