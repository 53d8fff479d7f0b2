package create

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/surgegrid/surge/cmd/surge/env"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	apift "github.com/surgegrid/surge/pkg/api/types/finetunes"
	"github.com/youta-t/flarc"
)

type Flag struct {
	BaseModel    string  `flag:"base-model" metavar:"MODEL" help:"base model to fine-tune. Required."`
	Dataset      string  `flag:"dataset" metavar:"DATASET" help:"dataset to train on. Required."`
	Epochs       int     `flag:"epochs" metavar:"N" help:"number of training epochs. 0 means the server default."`
	LearningRate float64 `flag:"learning-rate" metavar:"RATE" help:"learning rate. 0 means the server default."`
	GPUType      string  `flag:"gpu-type" metavar:"a100|h100|..." help:"GPU type to train on. Default is taken from surgeenv."`
}

type Option struct {
	create func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		spec apift.Spec,
	) (apift.Detail, error)
}

func WithCreate(
	create func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		spec apift.Spec,
	) (apift.Detail, error),
) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.create = create
		return dfc
	}
}

const ARG_NAME = "NAME"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		create: RunCreateFinetune,
	}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Start a new fine-tuning Job.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: "name of the new fine-tuning Job",
			},
		},
		common.NewTask(Task(option.create)),
		flarc.WithDescription(`
Start a new fine-tuning Job on the specified base model and dataset.

The new Job starts in status "pending". Watch its progress with
"{{ .Command }}"'s sibling command "watch"; once completed, "deploy"
serves the tuned weights and "download" fetches them.

Example
-------

	{{ .Command }} support-bot --base-model llama-3-8b --dataset tickets-2026q2 --epochs 3
`),
	)
}

func Task(
	create func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		spec apift.Spec,
	) (apift.Detail, error),
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
		name := cl.Args()[ARG_NAME][0]

		if flags.BaseModel == "" {
			return fmt.Errorf("%w: --base-model is required", flarc.ErrUsage)
		}
		if flags.Dataset == "" {
			return fmt.Errorf("%w: --dataset is required", flarc.ErrUsage)
		}
		if flags.Epochs < 0 {
			return fmt.Errorf("%w: --epochs should not be negative", flarc.ErrUsage)
		}
		if flags.LearningRate < 0 {
			return fmt.Errorf("%w: --learning-rate should not be negative", flarc.ErrUsage)
		}

		gpuType := flags.GPUType
		if gpuType == "" {
			gpuType = surgeEnv.GPUType
		}

		spec := apift.Spec{
			Name:         name,
			BaseModel:    flags.BaseModel,
			Dataset:      flags.Dataset,
			Epochs:       flags.Epochs,
			LearningRate: flags.LearningRate,
			GPUType:      gpuType,
		}

		finetune, err := create(ctx, logger, client, spec)
		if err != nil {
			return err
		}

		logger.Printf("registered fine-tuning Job Id: %s", finetune.FinetuneId)

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(finetune); err != nil {
			logger.Panicf("fail to dump the registered fine-tuning Job")
		}
		return nil
	}
}

func RunCreateFinetune(
	ctx context.Context,
	logger *log.Logger,
	client srest.SurgeClient,
	spec apift.Spec,
) (apift.Detail, error) {
	return client.CreateFinetune(ctx, spec)
}
