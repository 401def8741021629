package sweeper

const (
	// DefaultPodLabelSelector selects pods opted in to proxy sweeping.
	DefaultPodLabelSelector = "linkerd.io/sweep-proxy=true"

	// DefaultProxyContainerName is the injected sidecar's container name.
	DefaultProxyContainerName = "linkerd-proxy"

	// DefaultProxyAdminPort is the proxy admin port on the pod network.
	DefaultProxyAdminPort = 4191

	// DefaultProxyAdminPath is the admin endpoint that asks the proxy to exit.
	DefaultProxyAdminPath = "/shutdown"
)
