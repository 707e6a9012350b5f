//go:build windows

package envfile

import (
	"os"

	"golang.org/x/sys/windows"
)

func lock(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}

	h := windows.Handle(f.Fd())
	overlapped := windows.Overlapped{}
	if err := windows.LockFileEx(h, windows.LOCKFILE_EXCLUSIVE_LOCK, 0, 1, 0, &overlapped); err != nil {
		f.Close()
		return nil, err
	}

	return func() {
		windows.UnlockFileEx(h, 0, 1, 0, &overlapped)
		f.Close()
	}, nil
}
