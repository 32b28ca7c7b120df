// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the user home and config directories at dir and returns
// a cleanup function that restores them. XDG_CONFIG_HOME is cleared so that
// os.UserConfigDir resolves under dir on Linux.
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		restoreProfile := MustSetenv(t, "USERPROFILE", dir)
		restoreAppData := MustSetenv(t, "AppData", dir)
		return func() {
			restoreAppData()
			restoreProfile()
		}
	default:
		restoreHome := MustSetenv(t, "HOME", dir)
		restoreXDG := MustUnsetenv(t, "XDG_CONFIG_HOME")
		return func() {
			restoreXDG()
			restoreHome()
		}
	}
}
