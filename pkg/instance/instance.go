package instance

import "github.com/angelmondragon/salonstore-backend/pkg/env"

// GetID returns the process instance identifier used in startup logs.
func GetID() string {
	if id := env.Get("SALONSTORE_INSTANCE_ID", ""); id != "" {
		return id
	}
	return env.Get("HOSTNAME", "local")
}
