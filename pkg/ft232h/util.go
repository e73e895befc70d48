package ft232h

import "fmt"

// vidPid renders the USB IDs as the usual 4 digit hex strings.
func (ft *FT232H) vidPid() (vid string, pid string) {
	return fmt.Sprintf("%04x", uint32(ft.VID())), fmt.Sprintf("%04x", uint32(ft.PID()))
}
