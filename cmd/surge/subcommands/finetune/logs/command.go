package logs

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/surgegrid/surge/cmd/surge/env"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Tail int `flag:"tail" alias:"n" metavar:"N" help:"show only the last N lines. 0 means the server default."`
}

type Option struct {
	logs Logs
}

type Logs func(
	ctx context.Context,
	client srest.SurgeClient,
	finetuneId string,
	tail int,
) (string, error)

func WithLogs(logs Logs) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.logs = logs
		return dfc
	}
}

const ARG_FINETUNE_ID = "FINETUNE_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		logs: RunFinetuneLogs,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Display the training log of the specified fine-tuning Job.",
		Flags{
			Tail: 0,
		},
		flarc.Args{
			{
				Name: ARG_FINETUNE_ID, Required: true,
				Help: "Id of the fine-tuning Job whose log is shown",
			},
		},
		common.NewTask(Task(option.logs)),
	)
}

func Task(logs Logs) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		surgeEnv env.SurgeEnv,
		client srest.SurgeClient,
		cl flarc.Commandline[Flags],
		params []any,
	) error {
		finetuneId := cl.Args()[ARG_FINETUNE_ID][0]

		if cl.Flags().Tail < 0 {
			return fmt.Errorf("%w: --tail should not be negative", flarc.ErrUsage)
		}

		text, err := logs(ctx, client, finetuneId, cl.Flags().Tail)
		if err != nil {
			return fmt.Errorf("cannot get log of fine-tuning Job Id:%s: %w", finetuneId, err)
		}

		if _, err := io.WriteString(cl.Stdout(), text); err != nil {
			return err
		}
		return nil
	}
}

func RunFinetuneLogs(
	ctx context.Context, client srest.SurgeClient, finetuneId string, tail int,
) (string, error) {
	return client.FinetuneLogs(ctx, finetuneId, tail)
}
