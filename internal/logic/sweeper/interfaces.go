package sweeper

import "context"

// WatchSource is the port interface for the cluster watch.
// Implementations deliver an initial snapshot as add events, followed by
// incremental changes; on reconnect the snapshot is re-delivered and must be
// re-applied idempotently by the consumer.
type WatchSource interface {
	Start(ctx context.Context) error
	Events() <-chan Event
}

// ProxyClient is the port interface for the proxy admin shutdown call.
// Implementations classify failures through the private marker interfaces
// below so the domain layer never imports the adapter package.
type ProxyClient interface {
	Shutdown(ctx context.Context, id PodID, podIP string) error
}

// alreadyStopped marks errors meaning the proxy had already exited when the
// shutdown request arrived. Treated as success.
type alreadyStopped interface {
	IsAlreadyStopped()
}

// unreachable marks transient network failures after retries were exhausted.
// The pod stays pending and is retried on a later event or re-scan.
type unreachable interface {
	IsUnreachable()
}

// rejected marks a reachable admin endpoint refusing the request. Permanent
// for that pod; requires operator attention.
type rejected interface {
	IsRejected()
}
