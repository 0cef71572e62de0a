package memspace

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const dumpRowWidth = 16

// Dump writes length bytes starting at addr to w as hex, sixteen bytes per row with a gap after
// the eighth, followed by a separator line.
func (s *Space) Dump(w io.Writer, addr Address, length int) error {
	region := s.slice(addr, length)
	out := bufio.NewWriter(w)

	for row := 0; row < len(region); row += dumpRowWidth {
		for col := 0; col < dumpRowWidth && row+col < len(region); col++ {
			fmt.Fprintf(out, "%02X ", region[row+col])
			if (col+1)%8 == 0 {
				out.WriteByte(' ')
			}
		}
		out.WriteByte('\n')
	}
	out.WriteString(strings.Repeat("=", 3*dumpRowWidth))
	out.WriteByte('\n')

	return out.Flush()
}
