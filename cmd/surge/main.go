package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/joho/godotenv"
	subchat "github.com/surgegrid/surge/cmd/surge/subcommands/chat"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	subfinetune "github.com/surgegrid/surge/cmd/surge/subcommands/finetune"
	subinit "github.com/surgegrid/surge/cmd/surge/subcommands/init"
	subjob "github.com/surgegrid/surge/cmd/surge/subcommands/job"
	"github.com/surgegrid/surge/cmd/surge/subcommands/logger"
	submodel "github.com/surgegrid/surge/cmd/surge/subcommands/model"
	subversion "github.com/surgegrid/surge/cmd/surge/subcommands/version"
	"github.com/surgegrid/surge/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := logger.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	// .env is optional; local overrides for developers
	godotenv.Load()

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := try.To(common.Flags(".")).OrFatal(logger)
	init := try.To(subinit.New()).OrFatal(logger)
	job := try.To(subjob.New()).OrFatal(logger)
	finetune := try.To(subfinetune.New()).OrFatal(logger)
	model := try.To(submodel.New()).OrFatal(logger)
	chat := try.To(subchat.New()).OrFatal(logger)
	version := try.To(subversion.New()).OrFatal(logger)

	surge := try.To(
		flarc.NewCommandGroup(
			"Surge GPU cloud commandline interface",
			cf,
			flarc.WithSubcommand("init", init),
			flarc.WithSubcommand("job", job),
			flarc.WithSubcommand("finetune", finetune),
			flarc.WithSubcommand("model", model),
			flarc.WithSubcommand("chat", chat),
			flarc.WithSubcommand("version", version),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, surge, flarc.WithHelp(true)))
}
