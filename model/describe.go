package model

// Description is a serializable view of a plan fragment, used by the explain
// endpoints to render a plan as JSON or YAML.
type Description struct {
	Type     string        `json:"type" yaml:"type"`
	Boost    float64       `json:"boost,omitempty" yaml:"boost,omitempty"`
	Field    string        `json:"field,omitempty" yaml:"field,omitempty"`
	Value    interface{}   `json:"value,omitempty" yaml:"value,omitempty"`
	Occur    string        `json:"occur,omitempty" yaml:"occur,omitempty"`
	Role     string        `json:"role,omitempty" yaml:"role,omitempty"` // "query" or "filter" inside plan nodes
	CacheKey string        `json:"cache_key,omitempty" yaml:"cache_key,omitempty"`
	Children []Description `json:"children,omitempty" yaml:"children,omitempty"`
}

func withRole(d Description, role string) Description {
	d.Role = role
	return d
}
