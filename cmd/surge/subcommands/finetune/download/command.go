package download

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/surgegrid/surge/cmd/surge/env"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/cmd/surge/subcommands/common"
	"github.com/youta-t/flarc"
)

type Option struct {
	progressOutput io.Writer
	defaultOutput  io.Writer
}

func WithProgressOutput(w io.Writer) func(*Option) *Option {
	return func(opt *Option) *Option {
		opt.progressOutput = w
		return opt
	}
}

func WithOutput(w io.Writer) func(*Option) *Option {
	return func(opt *Option) *Option {
		opt.defaultOutput = w
		return opt
	}
}

const (
	ARG_FINETUNE_ID = "FINETUNE_ID"
	ARG_DEST        = "DEST"
)

const barTemplate pb.ProgressBarTemplate = `{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{bar . }} {{percent . }} {{with string . "suffix"}} {{.}}{{end}}`

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		progressOutput: os.Stderr,
		defaultOutput:  os.Stdout,
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Download the tuned weights of a completed fine-tuning Job.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_FINETUNE_ID, Required: true,
				Help: "Id of the completed fine-tuning Job whose weights are downloaded",
			},
			{
				Name: ARG_DEST, Required: false,
				Help: `destination file. "-" means stdout. Default is "<FINETUNE_ID>.safetensors" in the current directory`,
			},
		},
		common.NewTask(Task(option)),
		flarc.WithDescription(`
Download the tuned weights of a completed fine-tuning Job.

The platform issues a short-lived URL for the weights and this command
fetches it immediately.

Example
-------

Download to ./ft-1.safetensors:

	{{ .Command }} ft-1

Download to a specific file:

	{{ .Command }} ft-1 /data/weights/support-bot.safetensors

Pipe the weights elsewhere:

	{{ .Command }} ft-1 - | sha256sum
`),
	)
}

func Task(option *Option) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		surgeEnv env.SurgeEnv,
		client srest.SurgeClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		finetuneId := cl.Args()[ARG_FINETUNE_ID][0]

		dest := finetuneId + ".safetensors"
		if args := cl.Args()[ARG_DEST]; 0 < len(args) {
			dest = args[0]
		}
		writeDefault := dest == "-"

		artifact, err := client.DownloadFinetune(ctx, finetuneId)
		if err != nil {
			return fmt.Errorf("cannot download fine-tuning Job Id:%s: %w", finetuneId, err)
		}

		return client.FetchArtifact(
			ctx, artifact.DownloadURL,
			func(contentLength int64, r io.Reader) error {
				if writeDefault {
					_, err := io.Copy(option.defaultOutput, r)
					return err
				}

				if d := filepath.Dir(dest); d != "." {
					if err := os.MkdirAll(d, os.FileMode(0777)); err != nil {
						return err
					}
				}
				f, err := os.OpenFile(dest, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.FileMode(0666))
				if err != nil {
					return err
				}
				defer f.Close()

				bar := barTemplate.New(int(contentLength))
				bar.SetWriter(option.progressOutput)
				bar.Set("prefix", fmt.Sprintf("Downloading to %s:", dest))
				bar.Start()
				defer bar.Finish()
				w := bar.NewProxyWriter(f)
				defer w.Close()

				_, err = io.Copy(w, r)
				return err
			},
		)
	}
}
