package sweeper_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mateiidavid/linkerd-sweep/internal/logic/sweeper"
)

var testID = sweeper.PodID{Namespace: "default", Name: "job-1"}

func newTracker(t *testing.T) *sweeper.Tracker {
	t.Helper()

	return sweeper.NewTracker(slog.Default(), sweeper.DefaultProxyContainerName)
}

func addEvent(containers ...sweeper.ContainerStatus) sweeper.Event {
	return sweeper.Event{
		Type:       sweeper.EventAdd,
		ID:         testID,
		IP:         "10.0.0.7",
		Containers: containers,
	}
}

func modifyEvent(containers ...sweeper.ContainerStatus) sweeper.Event {
	ev := addEvent(containers...)
	ev.Type = sweeper.EventModify

	return ev
}

func running(name string) sweeper.ContainerStatus {
	return sweeper.ContainerStatus{Name: name, Phase: sweeper.PhaseRunning}
}

func terminated(name string, exitCode int32) sweeper.ContainerStatus {
	return sweeper.ContainerStatus{Name: name, Phase: sweeper.PhaseTerminated, ExitCode: exitCode}
}

func TestTracker_Apply(t *testing.T) {
	t.Parallel()

	t.Run("first event creates pending record", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)

		rec, changed := tracker.Apply(addEvent(running("worker"), running("linkerd-proxy")))
		require.True(t, changed)
		require.Equal(t, sweeper.StatePending, rec.State)
		require.Equal(t, "10.0.0.7", rec.IP)
		require.Len(t, rec.Containers, 2)
	})

	t.Run("proxy role assigned by container name", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)

		rec, _ := tracker.Apply(addEvent(running("worker"), running("linkerd-proxy")))
		require.NotNil(t, rec.Proxy())
		require.Equal(t, "linkerd-proxy", rec.Proxy().Name)
		require.Len(t, rec.Mains(), 1)
		require.Equal(t, "worker", rec.Mains()[0].Name)
	})

	t.Run("identical statuses do not report change", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)

		_, changed := tracker.Apply(addEvent(running("worker"), running("linkerd-proxy")))
		require.True(t, changed)

		_, changed = tracker.Apply(modifyEvent(running("worker"), running("linkerd-proxy")))
		require.False(t, changed)
	})

	t.Run("phase transition reports change", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)

		tracker.Apply(addEvent(running("worker"), running("linkerd-proxy")))

		rec, changed := tracker.Apply(modifyEvent(terminated("worker", 0), running("linkerd-proxy")))
		require.True(t, changed)
		require.Equal(t, sweeper.PhaseTerminated, rec.Mains()[0].Phase)
		require.Equal(t, int32(0), rec.Mains()[0].ExitCode)
	})

	t.Run("delete removes record", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)

		tracker.Apply(addEvent(running("worker")))
		require.Equal(t, 1, tracker.Len())

		_, changed := tracker.Apply(sweeper.Event{Type: sweeper.EventDelete, ID: testID})
		require.False(t, changed)
		require.Equal(t, 0, tracker.Len())
	})

	t.Run("modify after delete recreates record", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)

		tracker.Apply(addEvent(running("worker")))
		tracker.Apply(sweeper.Event{Type: sweeper.EventDelete, ID: testID})

		_, changed := tracker.Apply(modifyEvent(running("worker")))
		require.True(t, changed)
		require.Equal(t, 1, tracker.Len())
	})

	t.Run("resync add merges and keeps sweep state", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)

		tracker.Apply(addEvent(terminated("worker", 0), running("linkerd-proxy")))
		require.True(t, tracker.Claim(testID))
		tracker.MarkSwept(testID)

		// Re-listed snapshot after a watch reconnect.
		rec, changed := tracker.Apply(addEvent(terminated("worker", 0), running("linkerd-proxy")))
		require.False(t, changed)
		require.Equal(t, sweeper.StateSwept, rec.State)
	})
}

func TestTracker_Claim(t *testing.T) {
	t.Parallel()

	t.Run("claim succeeds once", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)
		tracker.Apply(addEvent(running("worker")))

		require.True(t, tracker.Claim(testID))
		require.False(t, tracker.Claim(testID))
	})

	t.Run("claim of unknown pod fails", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)
		require.False(t, tracker.Claim(testID))
	})

	t.Run("release makes pod claimable again", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)
		tracker.Apply(addEvent(running("worker")))

		require.True(t, tracker.Claim(testID))
		tracker.Release(testID)
		require.True(t, tracker.Claim(testID))
	})

	t.Run("swept pod is never claimable again", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)
		tracker.Apply(addEvent(running("worker")))

		require.True(t, tracker.Claim(testID))
		tracker.MarkSwept(testID)
		require.False(t, tracker.Claim(testID))

		rec, ok := tracker.Get(testID)
		require.True(t, ok)
		require.Equal(t, sweeper.StateSwept, rec.State)
	})

	t.Run("mark on vanished pod is a no-op", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)
		tracker.Apply(addEvent(running("worker")))

		require.True(t, tracker.Claim(testID))
		tracker.Apply(sweeper.Event{Type: sweeper.EventDelete, ID: testID})

		tracker.MarkSwept(testID)
		_, ok := tracker.Get(testID)
		require.False(t, ok)
	})
}

func TestTracker_Maintenance(t *testing.T) {
	t.Parallel()

	t.Run("pending returns only pending records", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)
		tracker.Apply(addEvent(running("worker")))

		otherID := sweeper.PodID{Namespace: "default", Name: "job-2"}
		tracker.Apply(sweeper.Event{
			Type:       sweeper.EventAdd,
			ID:         otherID,
			IP:         "10.0.0.8",
			Containers: []sweeper.ContainerStatus{running("worker")},
		})

		require.True(t, tracker.Claim(otherID))
		tracker.MarkFailed(otherID, "status 403")

		pending := tracker.Pending()
		require.Len(t, pending, 1)
		require.Equal(t, testID, pending[0].ID)
	})

	t.Run("expire swept drops old records", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)
		tracker.Apply(addEvent(running("worker")))
		require.True(t, tracker.Claim(testID))
		tracker.MarkSwept(testID)

		require.Equal(t, 0, tracker.ExpireSwept(time.Hour))
		require.Equal(t, 1, tracker.Len())

		time.Sleep(10 * time.Millisecond)
		require.Equal(t, 1, tracker.ExpireSwept(time.Millisecond))
		require.Equal(t, 0, tracker.Len())
	})

	t.Run("reset failed reverts to pending", func(t *testing.T) {
		t.Parallel()

		tracker := newTracker(t)
		tracker.Apply(addEvent(running("worker")))
		require.True(t, tracker.Claim(testID))
		tracker.MarkFailed(testID, "status 403")

		require.Equal(t, 1, tracker.ResetFailed())

		rec, ok := tracker.Get(testID)
		require.True(t, ok)
		require.Equal(t, sweeper.StatePending, rec.State)
		require.Empty(t, rec.FailureReason)
	})
}
