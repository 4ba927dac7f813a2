// Package codegen turns a validated ftp_http_proxy configuration into the
// instructions that construct, register and configure the component.
package codegen

import (
	"fmt"
	"strconv"
)

// Op is the kind of an emitted instruction.
type Op int

const (
	// OpRegister constructs the component and registers it with the host.
	OpRegister Op = iota
	// OpSet forwards one value to one setter.
	OpSet
)

func (o Op) String() string {
	switch o {
	case OpRegister:
		return "register"
	case OpSet:
		return "set"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Setter names of the FTPHTTPProxy component.
const (
	SetFTPServer  = "set_ftp_server"
	SetUsername   = "set_username"
	SetPassword   = "set_password"
	SetSharedPath = "set_shared_path"
	SetLocalPort  = "set_local_port"
)

// Instruction is one step in the host build's instruction stream.
// Value is a string or an int for OpSet and nil for OpRegister.
type Instruction struct {
	Op     Op
	Target string
	Setter string
	Value  any
}

// String renders the instruction in a language-neutral form,
// e.g. register(proxy1) or proxy1.set_local_port(8000).
func (in Instruction) String() string {
	if in.Op == OpRegister {
		return fmt.Sprintf("register(%s)", in.Target)
	}
	return fmt.Sprintf("%s.%s(%s)", in.Target, in.Setter, literal(in.Value))
}

func literal(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}

// Sink receives emitted instructions.
type Sink interface {
	Add(Instruction)
}

// Program is an in-memory Sink.
type Program struct {
	Instructions []Instruction
}

func (p *Program) Add(in Instruction) {
	p.Instructions = append(p.Instructions, in)
}
