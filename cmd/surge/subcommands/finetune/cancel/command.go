package cancel

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
	cancel Cancel
}

type Cancel func(
	ctx context.Context,
	client srest.SurgeClient,
	finetuneId string,
) (apift.Detail, error)

func WithCancel(cancel Cancel) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.cancel = cancel
		return dfc
	}
}

const ARG_FINETUNE_ID = "FINETUNE_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		cancel: RunCancelFinetune,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Cancel the fine-tuning Job with the specified Id.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_FINETUNE_ID, Required: true,
				Help: "Id of the fine-tuning Job to be cancelled",
			},
		},
		common.NewTask(Task(option.cancel)),
	)
}

func Task(cancel Cancel) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		surgeEnv env.SurgeEnv,
		client srest.SurgeClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		finetuneId := cl.Args()[ARG_FINETUNE_ID][0]

		finetune, err := cancel(ctx, client, finetuneId)
		if err != nil {
			return fmt.Errorf("cannot cancel fine-tuning Job Id:%s: %w", finetuneId, err)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(finetune); err != nil {
			logger.Panicf("fail to dump the cancelled fine-tuning Job")
		}
		return nil
	}
}

func RunCancelFinetune(
	ctx context.Context, client srest.SurgeClient, finetuneId string,
) (apift.Detail, error) {
	return client.CancelFinetune(ctx, finetuneId)
}
