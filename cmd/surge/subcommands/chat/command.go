package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/surgegrid/surge/cmd/surge/config/profiles"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	apimodels "github.com/surgegrid/surge/pkg/api/types/models"
	"github.com/surgegrid/surge/pkg/console/chat"
	"github.com/surgegrid/surge/pkg/utils"
	"github.com/youta-t/flarc"
)

type Option struct {
	completer func(token string) chat.Completer
}

// WithCompleter swaps the backend the chat session talks to.
func WithCompleter(completer func(token string) chat.Completer) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.completer = completer
		return dfc
	}
}

const ARG_MODEL_ID = "MODEL_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		completer: chat.OpenAICompleter,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Chat with a deployed Model instance.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_MODEL_ID, Required: true,
				Help: "Id of the serving Model instance to chat with",
			},
		},
		common.NewTaskWithCommonFlag(Task(option)),
		flarc.WithDescription(`
Chat with a deployed Model instance on the console.

Each line you type is sent as a user message; the model's reply is
printed below it. The conversation lives in this process only; quitting
(Ctrl-D or interrupt) ends it.

Only a serving Model instance can be chatted with. Deploy a fine-tuning
Job first ("surge finetune deploy") and wait for the instance to serve
("surge model find --serving").
`),
	)
}

func Task(option *Option) common.SurgeTaskWithCommonFlag[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag common.CommonFlags,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		modelId := cl.Args()[ARG_MODEL_ID][0]

		profile, err := profiles.LoadProfileStore(commonFlag.ProfileStore)
		if err != nil {
			if errors.Is(err, profiles.ErrProfileStoreNotFound) {
				return fmt.Errorf(
					"%w: surge profile store (%s) is not found. Please try `surge init` first",
					err, commonFlag.ProfileStore,
				)
			}
			return fmt.Errorf(
				"%w: failed to load surge profile store (%s)",
				err, commonFlag.ProfileStore,
			)
		}
		prof, ok := profile[commonFlag.Profile]
		if !ok {
			return fmt.Errorf(
				"profile '%s' not found in the profile store (%s)",
				commonFlag.Profile, commonFlag.ProfileStore,
			)
		}

		// environment overrides beat the stored profile
		if apiRoot := os.Getenv("SURGE_API"); apiRoot != "" {
			prof.ApiRoot = apiRoot
		}
		if token := os.Getenv("SURGE_TOKEN"); token != "" {
			prof.Token = token
		}

		client, err := srest.NewClient(prof)
		if err != nil {
			return fmt.Errorf("%w: failed to create surge client", err)
		}

		session := chat.New(option.completer(prof.Token))
		if err := Connect(ctx, client, session, modelId); err != nil {
			return err
		}

		logger.Printf("connected to model %s (chat id: %s)", modelId, session.Id())

		return Repl(ctx, session, cl)
	}
}

// Connect looks the model instance up and attaches the session to it.
func Connect(
	ctx context.Context,
	client srest.SurgeClient,
	session *chat.Session,
	modelId string,
) error {
	models, err := client.FindModels(ctx)
	if err != nil {
		return fmt.Errorf("fail to find Model instances: %w", err)
	}

	model, ok := utils.First(models, func(m apimodels.Detail) bool {
		return m.ModelId == modelId
	})
	if !ok {
		return fmt.Errorf("Model instance Id:%s is not found", modelId)
	}

	return session.Connect(model)
}

// Repl reads user lines and prints model replies until input ends.
func Repl(ctx context.Context, session *chat.Session, cl flarc.Commandline[struct{}]) error {
	scanner := bufio.NewScanner(cl.Stdin())
	for {
		fmt.Fprint(cl.Stdout(), "> ")
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		reply, err := session.Send(ctx, line)
		if err != nil {
			// the user message is kept; the next line retries the talk
			fmt.Fprintf(cl.Stderr(), "! %s\n", err.Error())
			continue
		}
		fmt.Fprintln(cl.Stdout(), reply.Content)
	}
	fmt.Fprintln(cl.Stdout())
	return scanner.Err()
}
