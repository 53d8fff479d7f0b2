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
	apift "github.com/surgegrid/surge/pkg/api/types/finetunes"
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
	each func(snapshot []apift.Detail),
) error

func WithWatch(watch Watch) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.watch = watch
		return dfc
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		watch: RunWatchFinetunes,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Poll fine-tuning Jobs and render their progress until all of them settle.",
		Flags{
			Interval: "",
		},
		flarc.Args{},
		common.NewTask(Task(option.watch)),
		flarc.WithDescription(`
Poll fine-tuning Jobs and render their progress until all of them settle.

The list is refetched on each poll and rendered wholesale. Watching stops
when every fine-tuning Job is in a terminal status, or on interrupt.
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
			func(snapshot []apift.Detail) { Render(out, snapshot) },
		)
	}
}

func RunWatchFinetunes(
	ctx context.Context,
	logger *log.Logger,
	client srest.SurgeClient,
	interval time.Duration,
	each func(snapshot []apift.Detail),
) error {
	session := console.NewSession(
		console.Fetch[apift.Detail](client.FindFinetunes),
		console.WithInterval[apift.Detail](interval),
		console.WithLogger[apift.Detail](logger),
	)
	return session.Watch(ctx, each)
}

// Render writes the snapshot as a table.
func Render(w io.Writer, snapshot []apift.Detail) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FINETUNE ID\tNAME\tBASE MODEL\tSTATUS\tPROGRESS\tUPDATED AT")
	for _, finetune := range snapshot {
		fmt.Fprintf(
			tw, "%s\t%s\t%s\t%s\t%3.0f%%\t%s\n",
			finetune.FinetuneId, finetune.Name, finetune.BaseModel,
			finetune.Status, finetune.Progress*100, finetune.UpdatedAt.String(),
		)
	}
	tw.Flush()
	fmt.Fprintln(w)
}
