// Command surge-apistub serves an in-memory Surge platform API.
//
// It is a development aid: point a surge profile at it and every command
// works against fake resources. Seeded state settles on its own so that
// watch-style commands have something to observe.
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/surgegrid/surge/internal/mockapi"
	apift "github.com/surgegrid/surge/pkg/api/types/finetunes"
	apijobs "github.com/surgegrid/surge/pkg/api/types/jobs"
	apimodels "github.com/surgegrid/surge/pkg/api/types/models"
	"github.com/surgegrid/surge/pkg/api/types/misc/rfctime"
	"github.com/surgegrid/surge/pkg/api/types/status"
)

func main() {
	listen := flag.String("listen", ":8080", "address to listen on")
	token := flag.String("token", "", "when set, require this bearer token")
	seed := flag.Bool("seed", true, "seed some jobs, finetunes and models")
	flag.Parse()

	server := mockapi.New()
	server.Token = *token

	if *seed {
		now := rfctime.New(time.Now())

		server.PutJob(apijobs.Detail{
			Summary: apijobs.Summary{
				JobId: "job-seed-1", Name: "llama-serve", Status: status.Running,
				GPUType: "a100", GPUCount: 2, CreatedAt: now, UpdatedAt: now,
			},
			Source: apijobs.SourceHuggingFace, HFRepo: "meta-llama/Llama-3-8b",
			CostPerHour: 3.5,
		})
		server.AppendJobLog("job-seed-1", "serving on port 8000")

		server.PutFinetune(apift.Detail{
			Summary: apift.Summary{
				FinetuneId: "ft-seed-1", Name: "support-bot", Status: status.Completed,
				BaseModel: "llama-3-8b", CreatedAt: now, UpdatedAt: now,
			},
			Dataset: "tickets-2026q2", Epochs: 3, Progress: 1.0,
		})
		server.AppendFinetuneLog("ft-seed-1", "epoch 3/3 loss=0.41")
		server.PutArtifact("ft-seed-1", []byte("fake weights"))

		server.PutModel(apimodels.Detail{
			ModelId: "model-seed-1", Name: "support-bot-v1",
			Status: status.Starting, DeployedAt: now,
		})

		// let the running job settle so that watch has an ending
		go func() {
			time.Sleep(30 * time.Second)
			server.StepJob("job-seed-1", status.Completed)
		}()
	}

	log.Printf("surge-apistub listening on %s", *listen)
	log.Fatal(http.ListenAndServe(*listen, server.Handler()))
}
