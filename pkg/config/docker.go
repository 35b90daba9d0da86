package config

import (
	"os"
	"sync"
)

// dockerHostAlias reaches the machine running the container.
const dockerHostAlias = "host.docker.internal"

var inDocker = sync.OnceValue(func() bool {
	_, err := os.Stat("/.dockerenv")
	return err == nil
})

// IsRunningInDocker reports whether /.dockerenv exists. Checked once per process.
func IsRunningInDocker() bool {
	return inDocker()
}

// ResolveHostForDocker rewrites a loopback redis host when running in a container.
func ResolveHostForDocker(host string) string {
	return containerHost(host, IsRunningInDocker())
}

func containerHost(host string, containerized bool) string {
	if !containerized {
		return host
	}
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return dockerHostAlias
	}
	return host
}
