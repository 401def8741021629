package sweeper

import (
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Tracker owns the in-memory pod record table. All state transitions go
// through it; the mutex guards only map and field mutations, never network
// calls, so unrelated pods do not contend on anything slow.
type Tracker struct {
	logger             *slog.Logger
	proxyContainerName string
	mu                 sync.Mutex
	records            map[PodID]*PodRecord
}

// NewTracker creates an empty tracker. Containers whose name equals
// proxyContainerName are classified as the proxy; everything else is a main
// workload container.
func NewTracker(logger *slog.Logger, proxyContainerName string) *Tracker {
	return &Tracker{
		logger:             logger,
		proxyContainerName: proxyContainerName,
		records:            make(map[PodID]*PodRecord),
	}
}

// Apply merges a watch event into the table. It returns a snapshot of the
// updated record and true when a sweep-relevant field changed (container
// phase, exit code, pod IP, or a newly seen container). Delete events drop
// the record and return false. Apply is idempotent: re-delivered snapshots
// after a watch resync do not disturb sweep state.
func (t *Tracker) Apply(ev Event) (PodRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ev.Type == EventDelete {
		delete(t.records, ev.ID)

		return PodRecord{}, false
	}

	rec, ok := t.records[ev.ID]
	if !ok {
		rec = &PodRecord{
			ID:    ev.ID,
			State: StatePending,
		}
		t.records[ev.ID] = rec
	}

	changed := false

	if ev.IP != "" && ev.IP != rec.IP {
		rec.IP = ev.IP
		changed = true
	}

	for i := range ev.Containers {
		if t.mergeContainer(rec, ev.Containers[i]) {
			changed = true
		}
	}

	if changed {
		rec.UpdatedAt = time.Now()
	}

	return snapshot(rec), changed
}

// mergeContainer updates or appends one container status. The role is
// assigned on first sight and never reassigned.
func (t *Tracker) mergeContainer(rec *PodRecord, status ContainerStatus) bool {
	for i := range rec.Containers {
		if rec.Containers[i].Name != status.Name {
			continue
		}

		if rec.Containers[i].Phase == status.Phase &&
			rec.Containers[i].ExitCode == status.ExitCode {
			return false
		}

		rec.Containers[i].Phase = status.Phase
		rec.Containers[i].ExitCode = status.ExitCode

		return true
	}

	role := RoleMain
	if status.Name == t.proxyContainerName {
		role = RoleProxy
	}

	rec.Containers = append(rec.Containers, Container{
		Name:     status.Name,
		Role:     role,
		Phase:    status.Phase,
		ExitCode: status.ExitCode,
	})

	return true
}

// Claim transitions a pod from pending to in-progress. It returns false when
// the pod is unknown or not pending, which makes the transition a mutual
// exclusion point: concurrent duplicate events yield exactly one claim.
func (t *Tracker) Claim(id PodID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok || rec.State != StatePending {
		return false
	}

	rec.State = StateInProgress

	return true
}

// Release reverts an in-progress pod to pending so a later event or re-scan
// retries the sweep. A vanished record is a no-op.
func (t *Tracker) Release(id PodID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok || rec.State != StateInProgress {
		return
	}

	rec.State = StatePending
}

// MarkSwept transitions an in-progress pod to swept. A vanished record is a
// no-op: the pod was deleted mid-reconcile and there is nothing left to do.
func (t *Tracker) MarkSwept(id PodID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok || rec.State != StateInProgress {
		return
	}

	rec.State = StateSwept
	rec.SweptAt = time.Now()
}

// MarkFailed transitions an in-progress pod to failed with the given reason.
// Failed pods are not retried automatically.
func (t *Tracker) MarkFailed(id PodID, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok || rec.State != StateInProgress {
		return
	}

	rec.State = StateFailed
	rec.FailureReason = reason
}

// Get returns a snapshot of one record.
func (t *Tracker) Get(id PodID) (PodRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok {
		return PodRecord{}, false
	}

	return snapshot(rec), true
}

// Pending returns snapshots of all pending records, for the periodic re-scan.
func (t *Tracker) Pending() []PodRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]PodRecord, 0, len(t.records))

	for _, rec := range t.records {
		if rec.State == StatePending {
			out = append(out, snapshot(rec))
		}
	}

	return out
}

// ExpireSwept drops swept records older than ttl and returns how many were
// removed. The pod itself is done; keeping the record only guards against
// late duplicate events within the grace period.
func (t *Tracker) ExpireSwept(ttl time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	expired := 0

	for id, rec := range t.records {
		if rec.State == StateSwept && rec.SweptAt.Before(cutoff) {
			delete(t.records, id)

			expired++
		}
	}

	return expired
}

// ResetFailed reverts all failed records to pending, giving operator-resolved
// pods one fresh attempt. Used by the scheduled deep resync.
func (t *Tracker) ResetFailed() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	reset := 0

	for _, rec := range t.records {
		if rec.State == StateFailed {
			rec.State = StatePending
			rec.FailureReason = ""

			reset++
		}
	}

	return reset
}

// Len returns the number of tracked records.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.records)
}

func snapshot(rec *PodRecord) PodRecord {
	out := *rec
	out.Containers = slices.Clone(rec.Containers)

	return out
}
