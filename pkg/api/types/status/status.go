package status

import "fmt"

// Status is the lifecycle phase of a server-owned resource.
//
// The server is the only writer of statuses; clients just classify them.
type Status string

const (
	Pending      Status = "pending"
	Provisioning Status = "provisioning"
	Uploading    Status = "uploading"
	Queued       Status = "queued"
	Starting     Status = "starting"
	Running      Status = "running"
	Completing   Status = "completing"
	Completed    Status = "completed"
	Failed       Status = "failed"
	Cancelled    Status = "cancelled"
	Timeout      Status = "timeout"
)

// Terminal reports whether no further transition is expected from s.
//
// Unknown statuses are treated as non-terminal, so a client keeps polling
// when a newer server introduces a phase this build does not know.
func (s Status) Terminal() bool {
	switch s {
	case Completed, Failed, Cancelled, Timeout:
		return true
	}
	return false
}

func AsStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case Pending, Provisioning, Uploading, Queued, Starting,
		Running, Completing, Completed, Failed, Cancelled, Timeout:
		return st, nil
	}
	return "", fmt.Errorf("unknown status: %s", s)
}
