package create

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/surgegrid/surge/cmd/surge/env"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	apijobs "github.com/surgegrid/surge/pkg/api/types/jobs"
	kargs "github.com/surgegrid/surge/pkg/utils/args"
	ptr "github.com/surgegrid/surge/pkg/utils/pointer"
	"github.com/youta-t/flarc"
	"k8s.io/apimachinery/pkg/api/resource"
)

type Flag struct {
	HFRepo   string           `flag:"hf-repo" metavar:"ORG/REPO" help:"Hugging Face repository to serve. Conflicts with --image."`
	Image    string           `flag:"image" metavar:"image[:tag]" help:"container image to run. Conflicts with --hf-repo."`
	GPUType  string           `flag:"gpu-type" metavar:"a100|h100|..." help:"GPU type to run on. Default is taken from surgeenv."`
	Resource *kargs.Quantities `flag:"resource" alias:"r" metavar:"NAME=QUANTITY" help:"Resource to allocate, like gpu=2 or memory=80Gi. Repeatable."`
}

type Option struct {
	create func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		spec apijobs.Spec,
	) (apijobs.Detail, error)
}

func WithCreate(
	create func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		spec apijobs.Spec,
	) (apijobs.Detail, error),
) func(*Option) *Option {
	return func(dfc *Option) *Option {
		dfc.create = create
		return dfc
	}
}

const ARG_NAME = "NAME"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		create: RunCreateJob,
	}
	for _, o := range options {
		option = o(option)
	}

	return flarc.NewCommand(
		"Create a new GPU Job.",
		Flag{
			HFRepo:   "",
			Image:    "",
			GPUType:  "",
			Resource: &kargs.Quantities{},
		},
		flarc.Args{
			{
				Name: ARG_NAME, Required: true,
				Help: "name of the new Job",
			},
		},
		common.NewTask(Task(option.create)),
		flarc.WithDescription(`
Create a new GPU Job serving a Hugging Face repository or a container image.

Exactly one of --hf-repo or --image is required.

The new Job starts in status "pending". Watch its progress with
"{{ .Command }}"'s sibling command "watch", or poll "show".

Example
-------

Serving a Hugging Face model on 2 GPUs:

	{{ .Command }} my-llama --hf-repo meta-llama/Llama-3-8b --resource gpu=2

Running your own image:

	{{ .Command }} my-batch --image ghcr.io/example/embedder:1.2 --gpu-type a100
`),
	)
}

func Task(
	create func(
		ctx context.Context,
		log *log.Logger,
		client srest.SurgeClient,
		spec apijobs.Spec,
	) (apijobs.Detail, error),
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
		jobName := cl.Args()[ARG_NAME][0]

		if (flags.HFRepo == "") == (flags.Image == "") {
			return fmt.Errorf(
				"%w: exactly one of --hf-repo or --image is required", flarc.ErrUsage,
			)
		}

		source := apijobs.SourceHuggingFace
		if flags.Image != "" {
			source = apijobs.SourceDocker
			if _, err := name.ParseReference(flags.Image); err != nil {
				return fmt.Errorf(
					"%w: --image %s: %s", flarc.ErrUsage, flags.Image, err.Error(),
				)
			}
		}

		gpuType := flags.GPUType
		if gpuType == "" {
			gpuType = surgeEnv.GPUType
		}

		resources := map[string]resource.Quantity{}
		for rname, expr := range surgeEnv.Resource {
			quantity, err := resource.ParseQuantity(expr)
			if err != nil {
				return fmt.Errorf("surgeenv has broken resource %s=%s: %w", rname, expr, err)
			}
			resources[rname] = quantity
		}
		for rname, quantity := range ptr.SafeDeref(flags.Resource) {
			resources[rname] = quantity
		}

		spec := apijobs.Spec{
			Name:      jobName,
			Source:    source,
			HFRepo:    flags.HFRepo,
			Image:     flags.Image,
			GPUType:   gpuType,
			Resources: resources,
		}

		job, err := create(ctx, logger, client, spec)
		if err != nil {
			return err
		}

		logger.Printf("registered Job Id: %s", job.JobId)

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(job); err != nil {
			logger.Panicf("fail to dump the registered Job")
		}
		return nil
	}
}

func RunCreateJob(
	ctx context.Context,
	logger *log.Logger,
	client srest.SurgeClient,
	spec apijobs.Spec,
) (apijobs.Detail, error) {
	return client.CreateJob(ctx, spec)
}
