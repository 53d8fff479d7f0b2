package finetune

import (
	ft_cancel "github.com/surgegrid/surge/cmd/surge/subcommands/finetune/cancel"
	ft_create "github.com/surgegrid/surge/cmd/surge/subcommands/finetune/create"
	ft_deploy "github.com/surgegrid/surge/cmd/surge/subcommands/finetune/deploy"
	ft_download "github.com/surgegrid/surge/cmd/surge/subcommands/finetune/download"
	ft_find "github.com/surgegrid/surge/cmd/surge/subcommands/finetune/find"
	ft_logs "github.com/surgegrid/surge/cmd/surge/subcommands/finetune/logs"
	ft_show "github.com/surgegrid/surge/cmd/surge/subcommands/finetune/show"
	ft_watch "github.com/surgegrid/surge/cmd/surge/subcommands/finetune/watch"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {

	find, err := ft_find.New()
	if err != nil {
		return nil, err
	}

	show, err := ft_show.New()
	if err != nil {
		return nil, err
	}

	create, err := ft_create.New()
	if err != nil {
		return nil, err
	}

	cancel, err := ft_cancel.New()
	if err != nil {
		return nil, err
	}

	deploy, err := ft_deploy.New()
	if err != nil {
		return nil, err
	}

	download, err := ft_download.New()
	if err != nil {
		return nil, err
	}

	logs, err := ft_logs.New()
	if err != nil {
		return nil, err
	}

	watch, err := ft_watch.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate Surge fine-tuning Jobs.",
		struct{}{},
		flarc.WithSubcommand("find", find),
		flarc.WithSubcommand("show", show),
		flarc.WithSubcommand("create", create),
		flarc.WithSubcommand("cancel", cancel),
		flarc.WithSubcommand("deploy", deploy),
		flarc.WithSubcommand("download", download),
		flarc.WithSubcommand("logs", logs),
		flarc.WithSubcommand("watch", watch),
	)
}
