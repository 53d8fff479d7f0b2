package show

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
	showInfo ShowInfo
}

type ShowInfo func(
	ctx context.Context,
	client srest.SurgeClient,
	jobId string,
) (apijobs.Detail, error)

func WithRunner(showInfo ShowInfo) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.showInfo = showInfo
		return dfc
	}
}

const ARG_JOBID = "JOB_ID"

func New(
	options ...func(*Option) *Option,
) (flarc.Command, error) {
	option := &Option{
		showInfo: RunShowJob,
	}

	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Return the Job information for the specified Job Id.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_JOBID, Required: true,
				Help: "Id of the Job to be shown",
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
		jobId := cl.Args()[ARG_JOBID][0]

		job, err := showInfo(ctx, client, jobId)
		if err != nil {
			return fmt.Errorf("%w: Job Id:%s", err, jobId)
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(job); err != nil {
			logger.Panicf("fail to dump Job")
		}
		return nil
	}
}

func RunShowJob(
	ctx context.Context, client srest.SurgeClient, jobId string,
) (apijobs.Detail, error) {
	return client.GetJob(ctx, jobId)
}
