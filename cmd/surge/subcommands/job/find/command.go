package find

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/surgegrid/surge/cmd/surge/env"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	apijobs "github.com/surgegrid/surge/pkg/api/types/jobs"
	"github.com/surgegrid/surge/pkg/api/types/status"
	"github.com/surgegrid/surge/pkg/utils"
	kargs "github.com/surgegrid/surge/pkg/utils/args"
	ptr "github.com/surgegrid/surge/pkg/utils/pointer"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Status *kargs.Argslice `flag:"status" alias:"s" metavar:"pending|running|completed|failed..." help:"Find Jobs in this status. Repeatable."`
}

type Option struct {
	find func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		status []status.Status,
	) ([]apijobs.Detail, error)
}

func WithFind(
	find func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		status []status.Status,
	) ([]apijobs.Detail, error),
) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.find = find
		return dfc
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		find: RunFindJob,
	}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Display Jobs that satisfy all specified conditions.",
		Flag{
			Status: &kargs.Argslice{},
		},
		flarc.Args{},
		common.NewTask(Task(option.find)),
		flarc.WithDescription(`
Display Jobs that satisfy all specified conditions.

If no condition is specified, all Jobs are displayed.

Example
-------

Finding all Jobs:

	{{ .Command }}

Finding Jobs in status "running":

	{{ .Command }} --status running
	{{ .Command }} -s running

	(both above are equivalent)

Finding Jobs in status "running" OR "pending":

	{{ .Command }} --status running --status pending
`),
	)
}

func Task(
	find func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		status []status.Status,
	) ([]apijobs.Detail, error),
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

		jobs, err := find(ctx, logger, client, statuses)
		if err != nil {
			return fmt.Errorf("fail to find Jobs: %w", err)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(jobs); err != nil {
			logger.Panicf("fail to dump found Jobs")
		}
		return nil
	}
}

// RunFindJob lists jobs and filters by status on the client side.
//
// An empty status set means no filter.
func RunFindJob(
	ctx context.Context,
	logger *log.Logger,
	client srest.SurgeClient,
	statuses []status.Status,
) ([]apijobs.Detail, error) {
	jobs, err := client.FindJobs(ctx)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return jobs, nil
	}

	wanted := utils.ToMap(statuses, func(s status.Status) status.Status { return s })
	return utils.Filter(jobs, func(j apijobs.Detail) bool {
		_, ok := wanted[j.Status]
		return ok
	}), nil
}
