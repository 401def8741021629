package sweeper

// Decision is the outcome of evaluating a pod record for sweeping.
type Decision string

const (
	// DecisionEligible means every main container terminated while the proxy
	// is still running: the proxy should be shut down now.
	DecisionEligible Decision = "eligible"

	// DecisionNotYet means at least one main container has not terminated.
	DecisionNotYet Decision = "not-yet"

	// DecisionIneligible means the pod will never be swept in its current
	// shape: no identifiable proxy, no main containers, a sweep already
	// concluded (or running), or the proxy exited on its own.
	DecisionIneligible Decision = "ineligible"
)

// Evaluate classifies a pod record. It is a pure function of the record.
func Evaluate(record PodRecord) Decision {
	if record.State != StatePending {
		return DecisionIneligible
	}

	proxy := record.Proxy()
	if proxy == nil {
		return DecisionIneligible
	}

	mains := record.Mains()
	if len(mains) == 0 {
		return DecisionIneligible
	}

	for i := range mains {
		if mains[i].Phase != PhaseTerminated {
			return DecisionNotYet
		}
	}

	// Mains are done. A proxy that already exited needs no help: the pod can
	// complete without us.
	if proxy.Phase != PhaseRunning {
		return DecisionIneligible
	}

	return DecisionEligible
}
