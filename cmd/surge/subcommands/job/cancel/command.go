package cancel

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/surgegrid/surge/cmd/surge/env"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	apijobs "github.com/surgegrid/surge/pkg/api/types/jobs"
	"github.com/youta-t/flarc"
)

type Option struct {
	cancel Cancel
}

type Cancel func(
	ctx context.Context,
	client srest.SurgeClient,
	jobId string,
) (apijobs.Detail, error)

func WithCancel(cancel Cancel) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.cancel = cancel
		return dfc
	}
}

const ARG_JOBID = "JOB_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		cancel: RunCancelJob,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Cancel the Job with the specified Job Id.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_JOBID, Required: true,
				Help: "Id of the Job to be cancelled",
			},
		},
		common.NewTask(Task(option.cancel)),
		flarc.WithDescription(`
Cancel the Job with the specified Job Id.

Cancellation is asynchronous. A successful request moves the Job towards
status "cancelled"; poll "show" or "watch" to see it settle.

A Job already in a terminal status cannot be cancelled. The platform
rejects such a request and the Job stays as it is.
`),
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
		jobId := cl.Args()[ARG_JOBID][0]

		job, err := cancel(ctx, client, jobId)
		if err != nil {
			return fmt.Errorf("cannot cancel Job Id:%s: %w", jobId, err)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(job); err != nil {
			logger.Panicf("fail to dump the cancelled Job")
		}
		return nil
	}
}

func RunCancelJob(
	ctx context.Context, client srest.SurgeClient, jobId string,
) (apijobs.Detail, error) {
	return client.CancelJob(ctx, jobId)
}
