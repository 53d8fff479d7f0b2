package watch

import (
	"context"
	"fmt"
	"io"
	"log"
	"text/tabwriter"
	"time"

	"github.com/surgegrid/surge/cmd/surge/env"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	apijobs "github.com/surgegrid/surge/pkg/api/types/jobs"
	"github.com/surgegrid/surge/pkg/console"
	"github.com/surgegrid/surge/pkg/loop"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Interval string `flag:"interval" alias:"i" metavar:"DURATION" help:"poll interval, like 10s or 1m. Default is taken from surgeenv."`
}

type Option struct {
	watch Watch
}

type Watch func(
	ctx context.Context,
	log *log.Logger,
	client srest.SurgeClient,
	interval time.Duration,
	each func(snapshot []apijobs.Detail),
) error

func WithWatch(watch Watch) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.watch = watch
		return dfc
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		watch: RunWatchJobs,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Poll Jobs and render their status until all of them settle.",
		Flags{
			Interval: "",
		},
		flarc.Args{},
		common.NewTask(Task(option.watch)),
		flarc.WithDescription(`
Poll Jobs and render their status until all of them settle.

The Job list is refetched on each poll and rendered wholesale. Watching
stops when every Job is in a terminal status (completed, failed,
cancelled or timeout), or on interrupt.

A transiently failing poll does not stop watching; the last good list
stays until the next poll succeeds.
`),
	)
}

func Task(watch Watch) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		surgeEnv env.SurgeEnv,
		client srest.SurgeClient,
		cl flarc.Commandline[Flags],
		params []any,
	) error {
		interval := surgeEnv.Interval(loop.DefaultInterval)
		if expr := cl.Flags().Interval; expr != "" {
			d, err := time.ParseDuration(expr)
			if err != nil || d <= 0 {
				return fmt.Errorf(
					"%w: --interval should be a positive duration: %s",
					flarc.ErrUsage, expr,
				)
			}
			interval = d
		}

		out := cl.Stdout()
		return watch(
			ctx, logger, client, interval,
			func(snapshot []apijobs.Detail) { Render(out, snapshot) },
		)
	}
}

func RunWatchJobs(
	ctx context.Context,
	logger *log.Logger,
	client srest.SurgeClient,
	interval time.Duration,
	each func(snapshot []apijobs.Detail),
) error {
	session := console.NewSession(
		console.Fetch[apijobs.Detail](client.FindJobs),
		console.WithInterval[apijobs.Detail](interval),
		console.WithLogger[apijobs.Detail](logger),
	)
	return session.Watch(ctx, each)
}

// Render writes the snapshot as a table.
func Render(w io.Writer, snapshot []apijobs.Detail) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB ID\tNAME\tSTATUS\tGPU\tUPDATED AT")
	for _, job := range snapshot {
		gpu := ""
		if job.GPUType != "" {
			gpu = fmt.Sprintf("%s x%d", job.GPUType, job.GPUCount)
		}
		fmt.Fprintf(
			tw, "%s\t%s\t%s\t%s\t%s\n",
			job.JobId, job.Name, job.Status, gpu, job.UpdatedAt.String(),
		)
	}
	tw.Flush()
	fmt.Fprintln(w)
}
