package llm

// ModelKwargs carries provider-specific model options as-is. The adapter
// never validates or interprets them; they are forwarded to the SDK call.
type ModelKwargs map[string]any

// Merge returns a new map holding the receiver's entries overridden key by
// key with the given overrides. Neither input is modified.
func (kw ModelKwargs) Merge(overrides ModelKwargs) ModelKwargs {
	merged := make(ModelKwargs, len(kw)+len(overrides))
	for k, v := range kw {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// Clone returns a shallow copy.
func (kw ModelKwargs) Clone() ModelKwargs {
	cloned := make(ModelKwargs, len(kw))
	for k, v := range kw {
		cloned[k] = v
	}
	return cloned
}
