package config

// Option keys of the ftp_http_proxy component.
const (
	KeyID         = "id"
	KeyServer     = "server"
	KeyUsername   = "username"
	KeyPassword   = "password"
	KeySharedPath = "shared_path"
	KeyLocalPort  = "local_port"
)

// ComponentKey is the top-level YAML key holding the component mapping.
const ComponentKey = "ftp_http_proxy"

// DefaultLocalPort is used when local_port is omitted.
const DefaultLocalPort = 8000

// Port range accepted for local_port.
const (
	MinPort = 1
	MaxPort = 65535
)

// Kind is the value type of an option.
type Kind string

const (
	KindID     Kind = "id"
	KindString Kind = "string"
	KindPort   Kind = "port"
)

// Option describes one recognized configuration key.
type Option struct {
	Name     string
	Required bool
	Kind     Kind
	Default  any // nil for required options
}

var options = []Option{
	{Name: KeyID, Required: true, Kind: KindID},
	{Name: KeyServer, Required: true, Kind: KindString},
	{Name: KeyUsername, Required: true, Kind: KindString},
	{Name: KeyPassword, Required: true, Kind: KindString},
	{Name: KeySharedPath, Required: true, Kind: KindString},
	{Name: KeyLocalPort, Required: false, Kind: KindPort, Default: DefaultLocalPort},
}

// Options returns the option registry in declaration order.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// LookupOption returns the registry entry for name.
func LookupOption(name string) (Option, bool) {
	for _, opt := range options {
		if opt.Name == name {
			return opt, true
		}
	}
	return Option{}, false
}
