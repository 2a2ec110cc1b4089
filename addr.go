package gomq

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// InprocAddr returns a unique in-process endpoint address. Useful for
// wiring endpoints inside one process, and for tests that must not collide
// on a shared rendezvous name.
func InprocAddr() string {
	return "inproc://gomq-" + uuid.NewString()
}

// IPCAddr returns a unique inter-process endpoint address backed by a
// socket file in the system temp directory.
func IPCAddr() string {
	return "ipc://" + filepath.Join(os.TempDir(), "gomq-"+uuid.NewString()+".sock")
}
