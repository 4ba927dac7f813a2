package codegen

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ComponentClass is the fully qualified C++ type of the component.
const ComponentClass = "esphome::ftp_http_proxy::FTPHTTPProxy"

// RenderCpp writes the instructions as C++ statements for the host setup().
func RenderCpp(w io.Writer, instructions []Instruction) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "// ftp_http_proxy:")
	for _, in := range instructions {
		switch in.Op {
		case OpRegister:
			fmt.Fprintf(bw, "auto *%s = new %s();\n", in.Target, ComponentClass)
			fmt.Fprintf(bw, "App.register_component(%s);\n", in.Target)
		case OpSet:
			fmt.Fprintf(bw, "%s->%s(%s);\n", in.Target, in.Setter, cppLiteral(in.Value))
		default:
			return fmt.Errorf("unknown instruction %v", in.Op)
		}
	}
	return bw.Flush()
}

func cppLiteral(v any) string {
	switch val := v.(type) {
	case string:
		return CppStringEscape(val)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}

// CppStringEscape quotes s as a C++ string literal. Quotes and backslashes
// are escaped, non-printable bytes become three digit octal escapes.
func CppStringEscape(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c >= 0x20 && c < 0x7f:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "\\%03o", c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
