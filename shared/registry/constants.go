// shared/registry/constants.go
package registry

const (
	// RedisRegistryHashPrefix prefixes the Redis hash key holding service
	// registrations. Full key: "services:<serviceType>", e.g.
	// "services:auction-service".
	RedisRegistryHashPrefix = "services:"
)
