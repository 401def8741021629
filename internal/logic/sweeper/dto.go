package sweeper

import "time"

// PodID identifies a pod by namespace and name.
type PodID struct {
	Namespace string
	Name      string
}

func (id PodID) String() string {
	return id.Namespace + "/" + id.Name
}

// ContainerRole classifies a container as the mesh proxy or a main workload
// container. The role is assigned once, at first observation.
type ContainerRole string

const (
	RoleProxy ContainerRole = "proxy"
	RoleMain  ContainerRole = "main"
)

// ContainerPhase is the last observed state of a container.
type ContainerPhase string

const (
	PhaseWaiting    ContainerPhase = "waiting"
	PhaseRunning    ContainerPhase = "running"
	PhaseTerminated ContainerPhase = "terminated"
)

// SweepState is the per-pod sweep lifecycle.
// pending -> in-progress -> {swept | failed}; swept never regresses.
type SweepState string

const (
	StatePending    SweepState = "pending"
	StateInProgress SweepState = "in-progress"
	StateSwept      SweepState = "swept"
	StateFailed     SweepState = "failed"
)

// Container is a tracked container within a PodRecord.
type Container struct {
	Name  string
	Role  ContainerRole
	Phase ContainerPhase
	// ExitCode is meaningful only when Phase is PhaseTerminated.
	ExitCode int32
}

// PodRecord is the in-memory state for one watched pod. Records are created
// on the first watch event for a pod and removed when the pod is deleted or
// when a swept record outlives the configured TTL.
type PodRecord struct {
	ID            PodID
	IP            string
	Containers    []Container
	State         SweepState
	FailureReason string
	UpdatedAt     time.Time
	SweptAt       time.Time
}

// Proxy returns the proxy container, or nil when none was identified.
func (r *PodRecord) Proxy() *Container {
	for i := range r.Containers {
		if r.Containers[i].Role == RoleProxy {
			return &r.Containers[i]
		}
	}

	return nil
}

// Mains returns the main workload containers.
func (r *PodRecord) Mains() []Container {
	mains := make([]Container, 0, len(r.Containers))

	for i := range r.Containers {
		if r.Containers[i].Role == RoleMain {
			mains = append(mains, r.Containers[i])
		}
	}

	return mains
}

// EventType is the kind of a watch event.
type EventType string

const (
	EventAdd    EventType = "add"
	EventModify EventType = "modify"
	EventDelete EventType = "delete"
)

// ContainerStatus is one container's status as reported by the cluster.
type ContainerStatus struct {
	Name     string
	Phase    ContainerPhase
	ExitCode int32
}

// Event is a pod status change delivered by the watch source.
type Event struct {
	Type       EventType
	ID         PodID
	IP         string
	Containers []ContainerStatus
}
