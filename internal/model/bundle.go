package model

import "encoding/json"

// Bundle is the search response envelope returned by the resource server.
// Entry is absent on an empty result set or when a caller has paged past
// the end; both are normal outcomes, not faults.
type Bundle struct {
	ResourceType string        `json:"resourceType,omitempty"`
	Type         string        `json:"type,omitempty"`
	Total        *int          `json:"total,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

type BundleEntry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
}
