package instance

import "github.com/shivanimeena11/plantweb/pkg/env"

// GetID identifies this process in logs. Platforms that set DYNO get that name.
func GetID() string {
	if id := env.Get("PLANTWEB_INSTANCE_ID", ""); id != "" {
		return id
	}
	return env.Get("DYNO", "local")
}
