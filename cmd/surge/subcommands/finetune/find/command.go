package find

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/surgegrid/surge/cmd/surge/env"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	apift "github.com/surgegrid/surge/pkg/api/types/finetunes"
	"github.com/surgegrid/surge/pkg/api/types/status"
	"github.com/surgegrid/surge/pkg/utils"
	kargs "github.com/surgegrid/surge/pkg/utils/args"
	ptr "github.com/surgegrid/surge/pkg/utils/pointer"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Status    *kargs.Argslice `flag:"status" alias:"s" metavar:"queued|running|completed|failed..." help:"Find fine-tuning Jobs in this status. Repeatable."`
	BaseModel string          `flag:"base-model" metavar:"MODEL" help:"Find fine-tuning Jobs of this base model."`
}

type Option struct {
	find func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		status []status.Status,
		baseModel string,
	) ([]apift.Detail, error)
}

func WithFind(
	find func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		status []status.Status,
		baseModel string,
	) ([]apift.Detail, error),
) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.find = find
		return dfc
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		find: RunFindFinetune,
	}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Display fine-tuning Jobs that satisfy all specified conditions.",
		Flag{
			Status:    &kargs.Argslice{},
			BaseModel: "",
		},
		flarc.Args{},
		common.NewTask(Task(option.find)),
		flarc.WithDescription(`
Display fine-tuning Jobs that satisfy all specified conditions.

If no condition is specified, all fine-tuning Jobs are displayed.

Example
-------

Finding running fine-tunings of base model "llama-3-8b":

	{{ .Command }} --status running --base-model llama-3-8b
`),
	)
}

func Task(
	find func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		status []status.Status,
		baseModel string,
	) ([]apift.Detail, error),
) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		surgeEnv env.SurgeEnv,
		client srest.SurgeClient,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		flags := cl.Flags()

		statuses := []status.Status{}
		for _, s := range ptr.SafeDeref(flags.Status) {
			st, err := status.AsStatus(s)
			if err != nil {
				return fmt.Errorf("%w: %s", flarc.ErrUsage, err.Error())
			}
			statuses = append(statuses, st)
		}

		finetunes, err := find(ctx, logger, client, statuses, flags.BaseModel)
		if err != nil {
			return fmt.Errorf("fail to find fine-tuning Jobs: %w", err)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(finetunes); err != nil {
			logger.Panicf("fail to dump found fine-tuning Jobs")
		}
		return nil
	}
}

func RunFindFinetune(
	ctx context.Context,
	logger *log.Logger,
	client srest.SurgeClient,
	statuses []status.Status,
	baseModel string,
) ([]apift.Detail, error) {
	finetunes, err := client.FindFinetunes(ctx)
	if err != nil {
		return nil, err
	}

	if 0 < len(statuses) {
		wanted := utils.ToMap(statuses, func(s status.Status) status.Status { return s })
		finetunes = utils.Filter(finetunes, func(f apift.Detail) bool {
			_, ok := wanted[f.Status]
			return ok
		})
	}
	if baseModel != "" {
		finetunes = utils.Filter(finetunes, func(f apift.Detail) bool {
			return f.BaseModel == baseModel
		})
	}
	return finetunes, nil
}
