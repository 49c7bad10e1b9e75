// Package dialog provides the client for the external dialog engine and
// the conversational context types shared with the dispatcher.
package dialog

import "strings"

// Context is a named, lifespan-counted piece of conversational state
// passed between turns. A lifespan of 0 closes the context; a positive
// lifespan keeps it open for that many more turns.
type Context struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// ContextName builds the full context handle for a session:
// "<sessionPath>/contexts/<name>". The convention is shared by every sub-flow.
func ContextName(sessionPath, name string) string {
	return sessionPath + "/contexts/" + name
}

// ShortName returns the bare context name from a full context handle.
func ShortName(full string) string {
	if idx := strings.LastIndex(full, "/contexts/"); idx >= 0 {
		return full[idx+len("/contexts/"):]
	}
	return full
}

// Open creates a directive that opens (or refreshes) a context with the
// given lifespan and parameter bag.
func Open(sessionPath, name string, lifespan int, params map[string]any) Context {
	return Context{
		Name:          ContextName(sessionPath, name),
		LifespanCount: lifespan,
		Parameters:    params,
	}
}

// Close creates a directive that closes a context. Close directives never
// carry parameters so no sub-flow state leaks into unrelated turns.
func Close(sessionPath, name string) Context {
	return Context{
		Name:          ContextName(sessionPath, name),
		LifespanCount: 0,
	}
}

// Find returns the context with the given short name from a list of
// caller-supplied contexts, matching on the suffix of the full handle.
func Find(contexts []Context, name string) (Context, bool) {
	for _, c := range contexts {
		if ShortName(c.Name) == name && c.LifespanCount > 0 {
			return c, true
		}
	}
	return Context{}, false
}

// StringParam extracts a string-valued parameter from a context's bag.
func (c Context) StringParam(key string) string {
	if c.Parameters == nil {
		return ""
	}
	if v, ok := c.Parameters[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
