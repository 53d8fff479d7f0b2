package cancel_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/surgegrid/surge/cmd/surge/env"
	srest "github.com/surgegrid/surge/cmd/surge/rest"
	"github.com/surgegrid/surge/cmd/surge/rest/mock"
	"github.com/surgegrid/surge/cmd/surge/subcommands/internal/commandline"
	"github.com/surgegrid/surge/cmd/surge/subcommands/job/cancel"
	"github.com/surgegrid/surge/cmd/surge/subcommands/logger"
	apijobs "github.com/surgegrid/surge/pkg/api/types/jobs"
	"github.com/surgegrid/surge/pkg/api/types/status"
)

func TestCancelCommand(t *testing.T) {
	t.Run("it cancels the specified job and prints the result", func(t *testing.T) {
		client := mock.New(t)

		cancelled := apijobs.Detail{
			Summary: apijobs.Summary{
				JobId: "job-1", Name: "llama-serve", Status: status.Cancelled,
			},
		}
		task := func(
			_ context.Context, _ srest.SurgeClient, jobId string,
		) (apijobs.Detail, error) {
			if jobId != "job-1" {
				t.Errorf("wrong job id: %s", jobId)
			}
			return cancelled, nil
		}

		testee := cancel.Task(task)

		stdout := new(strings.Builder)
		err := testee(
			context.Background(), logger.Null(), *env.New(), client,
			commandline.MockCommandline[struct{}]{
				Stdout_: stdout,
				Stderr_: io.Discard,
				Args_: map[string][]string{
					cancel.ARG_JOBID: {"job-1"},
				},
			},
			[]any{},
		)
		if err != nil {
			t.Fatal(err)
		}

		printed := new(apijobs.Detail)
		if err := json.Unmarshal([]byte(stdout.String()), printed); err != nil {
			t.Fatal(err)
		}
		if !printed.Equal(cancelled) {
			t.Errorf(
				"wrong output: (actual, expected) != (%+v, %+v)",
				*printed, cancelled,
			)
		}
	})

	t.Run("the platform's rejection propagates untouched", func(t *testing.T) {
		client := mock.New(t)

		rejection := errors.New("job job-1 is already terminal")
		task := func(
			_ context.Context, _ srest.SurgeClient, jobId string,
		) (apijobs.Detail, error) {
			return apijobs.Detail{}, rejection
		}

		testee := cancel.Task(task)

		err := testee(
			context.Background(), logger.Null(), *env.New(), client,
			commandline.MockCommandline[struct{}]{
				Stdout_: io.Discard,
				Stderr_: io.Discard,
				Args_: map[string][]string{
					cancel.ARG_JOBID: {"job-1"},
				},
			},
			[]any{},
		)
		if !errors.Is(err, rejection) {
			t.Errorf("wrong error: (actual, expected) != (%v, %v)", err, rejection)
		}
	})
}
