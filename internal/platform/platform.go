package platform

import (
	"os"
	"runtime"
)

// Darwin is the only OS family the provisioner runs on.
const Darwin = "darwin"

// OverrideEnv, when set, replaces the detected OS family.
const OverrideEnv = "MAC_PROVISION_OS"

// Detect returns the OS family of the running machine, honouring OverrideEnv.
func Detect() string {
	if v := os.Getenv(OverrideEnv); v != "" {
		return v
	}
	return runtime.GOOS
}

// Supported reports whether goos is an OS family the provisioner can run on.
func Supported(goos string) bool {
	return goos == Darwin
}
