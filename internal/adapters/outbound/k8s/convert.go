package k8s

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/tools/cache"

	"github.com/mateiidavid/linkerd-sweep/internal/logic/sweeper"
)

// toDomainEvent converts an informer object into a domain event. Delete
// events may carry a cache.DeletedFinalStateUnknown tombstone instead of the
// pod itself.
func toDomainEvent(eventType sweeper.EventType, obj interface{}) (sweeper.Event, error) {
	pod, ok := obj.(*corev1.Pod)
	if !ok {
		tombstone, isTombstone := obj.(cache.DeletedFinalStateUnknown)
		if !isTombstone {
			return sweeper.Event{}, fmt.Errorf("unexpected object type %T", obj)
		}

		pod, ok = tombstone.Obj.(*corev1.Pod)
		if !ok {
			return sweeper.Event{}, fmt.Errorf("unexpected tombstone object type %T", tombstone.Obj)
		}
	}

	return sweeper.Event{
		Type: eventType,
		ID: sweeper.PodID{
			Namespace: pod.Namespace,
			Name:      pod.Name,
		},
		IP:         pod.Status.PodIP,
		Containers: toContainerStatuses(pod.Status.ContainerStatuses),
	}, nil
}

func toContainerStatuses(statuses []corev1.ContainerStatus) []sweeper.ContainerStatus {
	out := make([]sweeper.ContainerStatus, 0, len(statuses))

	for i := range statuses {
		out = append(out, toContainerStatus(&statuses[i]))
	}

	return out
}

// toContainerStatus maps the container state union to a phase. A status with
// no state set at all is reported as waiting, keeping prior tracked state
// authoritative.
func toContainerStatus(status *corev1.ContainerStatus) sweeper.ContainerStatus {
	out := sweeper.ContainerStatus{
		Name:  status.Name,
		Phase: sweeper.PhaseWaiting,
	}

	switch {
	case status.State.Terminated != nil:
		out.Phase = sweeper.PhaseTerminated
		out.ExitCode = status.State.Terminated.ExitCode
	case status.State.Running != nil:
		out.Phase = sweeper.PhaseRunning
	}

	return out
}
