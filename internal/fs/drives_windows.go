//go:build windows

package fs

import (
	"golang.org/x/sys/windows"
)

// Volume is a mounted drive offered as a starting location.
type Volume struct {
	Name string
	Path string
}

// ListDrives returns the lettered drives. GetVolumeInformation can block on
// disconnected network shares, so remote drives are not queried for a label.
func ListDrives() []Volume {
	mask, err := windows.GetLogicalDrives()
	if err != nil || mask == 0 {
		return nil
	}

	var vols []Volume
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		letter := string(rune('A' + i))
		root := letter + `:\`
		rootPtr, err := windows.UTF16PtrFromString(root)
		if err != nil {
			continue
		}

		driveType := windows.GetDriveType(rootPtr)
		if driveType == windows.DRIVE_UNKNOWN || driveType == windows.DRIVE_NO_ROOT_DIR {
			continue
		}

		name := letter + ":"
		if driveType != windows.DRIVE_REMOTE {
			label := make([]uint16, windows.MAX_PATH+1)
			if err := windows.GetVolumeInformation(rootPtr, &label[0], uint32(len(label)), nil, nil, nil, nil, 0); err == nil {
				if l := windows.UTF16ToString(label); l != "" {
					name = l + " (" + letter + ":)"
				}
			}
		}
		if name == letter+":" {
			switch driveType {
			case windows.DRIVE_REMOVABLE:
				name = "Removable (" + letter + ":)"
			case windows.DRIVE_CDROM:
				name = "CD/DVD (" + letter + ":)"
			case windows.DRIVE_REMOTE:
				name = "Network (" + letter + ":)"
			}
		}
		vols = append(vols, Volume{Name: name, Path: root})
	}
	return vols
}
