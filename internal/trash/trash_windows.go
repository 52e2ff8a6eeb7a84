//go:build windows

package trash

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// The Recycle Bin is driven through SHFileOperationW with FOF_ALLOWUNDO.

var (
	shell32              = windows.NewLazySystemDLL("shell32.dll")
	procSHFileOperationW = shell32.NewProc("SHFileOperationW")
)

// SHFILEOPSTRUCTW
type shFileOpStruct struct {
	hwnd                  uintptr
	wFunc                 uint32
	pFrom                 *uint16
	pTo                   *uint16
	fFlags                uint16
	fAnyOperationsAborted int32
	hNameMappings         uintptr
	lpszProgressTitle     *uint16
}

const (
	foDelete          = 0x0003
	fofSilent         = 0x0004
	fofNoConfirmation = 0x0010
	fofAllowUndo      = 0x0040
	fofNoErrorUI      = 0x0400
)

func getPath() string {
	return "shell:RecycleBinFolder"
}

func isAvailable() bool {
	return procSHFileOperationW.Find() == nil
}

func moveToTrash(path string) error {
	from, err := windows.UTF16FromString(path)
	if err != nil {
		return err
	}
	// pFrom must be double-NUL terminated.
	from = append(from, 0)
	op := shFileOpStruct{
		wFunc:  foDelete,
		pFrom:  &from[0],
		fFlags: fofAllowUndo | fofNoConfirmation | fofNoErrorUI | fofSilent,
	}
	ret, _, _ := procSHFileOperationW.Call(uintptr(unsafe.Pointer(&op)))
	switch {
	case ret == 0x5: // ERROR_ACCESS_DENIED
		return fmt.Errorf("recycle %s: %w", path, windows.ERROR_ACCESS_DENIED)
	case ret != 0:
		return fmt.Errorf("recycle %s: SHFileOperationW code %d", path, ret)
	case op.fAnyOperationsAborted != 0:
		return fmt.Errorf("recycle %s: aborted", path)
	}
	return nil
}

func displayName() string {
	return "Recycle Bin"
}
