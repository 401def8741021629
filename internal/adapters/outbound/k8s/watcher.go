package k8s

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/informers"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/cache"

	"github.com/mateiidavid/linkerd-sweep/internal/infra/metrics"
	"github.com/mateiidavid/linkerd-sweep/internal/logic/sweeper"
)

const defaultEventBuffer = 256

// Watcher adapts a client-go shared informer to the sweeper's WatchSource
// port. The informer delivers the initial list as add events and handles
// reconnect and periodic re-list internally; consumers re-apply re-delivered
// snapshots idempotently.
type Watcher struct {
	logger         *slog.Logger
	clientset      kubernetes.Interface
	labelSelector  string
	resyncInterval time.Duration
	events         chan sweeper.Event
	synced         cache.InformerSynced
	inShutdown     atomic.Bool
}

// NewWatcher creates a watcher for pods matching labelSelector across all
// namespaces.
func NewWatcher(
	logger *slog.Logger,
	clientset kubernetes.Interface,
	labelSelector string,
	resyncInterval time.Duration,
) *Watcher {
	return &Watcher{
		logger:         logger,
		clientset:      clientset,
		labelSelector:  labelSelector,
		resyncInterval: resyncInterval,
		events:         make(chan sweeper.Event, defaultEventBuffer),
	}
}

var _ sweeper.WatchSource = (*Watcher)(nil)

// Name returns the name of the watcher component.
func (w *Watcher) Name() string {
	return "pod-watcher"
}

// Events returns the pod event stream.
func (w *Watcher) Events() <-chan sweeper.Event {
	return w.events
}

// Start registers the event handlers and starts the informer. It returns
// once the handlers are registered; the initial snapshot arrives on the
// event channel as add events.
func (w *Watcher) Start(ctx context.Context) error {
	factory := informers.NewFilteredSharedInformerFactory(
		w.clientset,
		w.resyncInterval,
		metav1.NamespaceAll,
		func(opts *metav1.ListOptions) {
			opts.LabelSelector = w.labelSelector
		},
	)

	podsInformer := factory.Core().V1().Pods().Informer()

	_, err := podsInformer.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc: func(obj interface{}) {
			w.push(ctx, sweeper.EventAdd, obj)
		},
		UpdateFunc: func(_, newObj interface{}) {
			w.push(ctx, sweeper.EventModify, newObj)
		},
		DeleteFunc: func(obj interface{}) {
			w.push(ctx, sweeper.EventDelete, obj)
		},
	})
	if err != nil {
		return fmt.Errorf("register pod event handler: %w", err)
	}

	w.synced = podsInformer.HasSynced

	go factory.Start(ctx.Done())

	w.logger.InfoContext(ctx, "pod watcher started",
		"labelSelector", w.labelSelector,
		"resyncInterval", w.resyncInterval,
	)

	return nil
}

// Ping reports whether the informer cache has completed its initial sync.
func (w *Watcher) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if w.synced == nil {
		return fmt.Errorf("pod watcher is not started")
	}

	if !w.synced() {
		return fmt.Errorf("pod watcher cache is not synced")
	}

	return nil
}

// Shutdown marks the watcher as stopping. The informer itself stops with the
// run context; the event channel is left open so late handler callbacks can
// never panic on a closed channel.
func (w *Watcher) Shutdown(ctx context.Context) error {
	if !w.inShutdown.CompareAndSwap(false, true) {
		w.logger.ErrorContext(ctx, "pod watcher is already shutting down, skipping shutdown")

		return nil
	}

	w.logger.InfoContext(ctx, "pod watcher shut downed")

	return nil
}

// push converts an informer object and offers it to the event channel.
// Adds and updates are dropped when the channel is full rather than blocking
// the informer: the informer resync and the periodic re-scan re-deliver that
// state. Deletes are never dropped — nothing ever re-delivers a delete, and a
// lost one would strand the pod's record forever — so their send waits for
// space instead.
func (w *Watcher) push(ctx context.Context, eventType sweeper.EventType, obj interface{}) {
	if w.inShutdown.Load() {
		return
	}

	ev, err := toDomainEvent(eventType, obj)
	if err != nil {
		w.logger.WarnContext(ctx, "skipping malformed pod event",
			"type", string(eventType),
			"reason", err,
		)

		return
	}

	if ev.Type == sweeper.EventDelete {
		select {
		case w.events <- ev:
		case <-ctx.Done():
		}

		return
	}

	select {
	case w.events <- ev:
	case <-ctx.Done():
	default:
		metrics.RecordWatchEventDropped()
		w.logger.WarnContext(ctx, "event channel full, dropping event",
			"pod", ev.ID.Name,
			"namespace", ev.ID.Namespace,
			"type", string(eventType),
		)
	}
}
