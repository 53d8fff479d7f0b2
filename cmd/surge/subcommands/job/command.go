package job

import (
	job_cancel "github.com/surgegrid/surge/cmd/surge/subcommands/job/cancel"
	job_create "github.com/surgegrid/surge/cmd/surge/subcommands/job/create"
	job_find "github.com/surgegrid/surge/cmd/surge/subcommands/job/find"
	job_logs "github.com/surgegrid/surge/cmd/surge/subcommands/job/logs"
	job_show "github.com/surgegrid/surge/cmd/surge/subcommands/job/show"
	job_watch "github.com/surgegrid/surge/cmd/surge/subcommands/job/watch"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {

	find, err := job_find.New()
	if err != nil {
		return nil, err
	}

	show, err := job_show.New()
	if err != nil {
		return nil, err
	}

	create, err := job_create.New()
	if err != nil {
		return nil, err
	}

	cancel, err := job_cancel.New()
	if err != nil {
		return nil, err
	}

	logs, err := job_logs.New()
	if err != nil {
		return nil, err
	}

	watch, err := job_watch.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate Surge GPU Jobs.",
		struct{}{},
		flarc.WithSubcommand("find", find),
		flarc.WithSubcommand("show", show),
		flarc.WithSubcommand("create", create),
		flarc.WithSubcommand("cancel", cancel),
		flarc.WithSubcommand("logs", logs),
		flarc.WithSubcommand("watch", watch),
	)
}
