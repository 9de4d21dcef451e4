// shared/registry/types.go
package registry

// ServiceInfo describes one registered service instance. Stored as JSON in the
// registry hash and used for discovery and timer-ownership decisions.
type ServiceInfo struct {
	ServiceID   string `json:"serviceId"`
	ServiceType string `json:"serviceType"`
	IP          string `json:"ip"`
	Port        int    `json:"port"`
	LastSeen    int64  `json:"lastSeen"` // Unix milliseconds of the last heartbeat
}
