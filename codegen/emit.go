package codegen

import "ftp-http-proxy/config"

// Emit returns the register instruction followed by one setter per option.
func Emit(cfg *config.ProxyConfig) []Instruction {
	p := &Program{}
	EmitTo(p, cfg)
	return p.Instructions
}

// EmitTo appends the instructions for cfg to sink.
func EmitTo(sink Sink, cfg *config.ProxyConfig) {
	id := cfg.ID
	sink.Add(Instruction{Op: OpRegister, Target: id})
	sink.Add(Instruction{Op: OpSet, Target: id, Setter: SetFTPServer, Value: cfg.Server})
	sink.Add(Instruction{Op: OpSet, Target: id, Setter: SetUsername, Value: cfg.Username})
	sink.Add(Instruction{Op: OpSet, Target: id, Setter: SetPassword, Value: cfg.Password})
	sink.Add(Instruction{Op: OpSet, Target: id, Setter: SetSharedPath, Value: cfg.SharedPath})
	sink.Add(Instruction{Op: OpSet, Target: id, Setter: SetLocalPort, Value: cfg.LocalPort})
}
