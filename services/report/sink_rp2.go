//go:build rp2040 || rp2350

package report

import (
	"io"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// DefaultSink is UART0 on RP2 targets. Defaults inside uartx apply for
// pins and baud if the config fields stay zero.
func DefaultSink() io.Writer {
	hw := uartx.UART0
	_ = hw.Configure(uartx.UARTConfig{BaudRate: 115200})
	return hw
}
