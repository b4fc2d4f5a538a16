//go:build windows

package presence

import (
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

func socketPaths() []string {
	out := make([]string, 0, 10)
	for i := range 10 {
		out = append(out, fmt.Sprintf(`\\.\pipe\discord-ipc-%d`, i))
	}
	return out
}

func dialSocket(path string, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(path, &timeout)
}
