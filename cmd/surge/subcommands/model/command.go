package model

import (
	model_find "github.com/surgegrid/surge/cmd/surge/subcommands/model/find"
	model_refresh "github.com/surgegrid/surge/cmd/surge/subcommands/model/refresh"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {

	find, err := model_find.New()
	if err != nil {
		return nil, err
	}

	refresh, err := model_refresh.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate deployed Surge Model instances.",
		struct{}{},
		flarc.WithSubcommand("find", find),
		flarc.WithSubcommand("refresh", refresh),
	)
}
