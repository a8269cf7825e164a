package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// ZAPOptionsINI is the [*.zap] sub-section shared by the operator,
// broadcast/service, and incrementer INI blocks (spec §3 ZAPOptions).
type ZAPOptionsINI struct {
	SecurityLevel    string `ini:"security_level"`
	Role             string `ini:"role"`
	Domain           string `ini:"domain"`
	ServerPublicKeyFile string `ini:"server_public_key_file"`
	ClientPublicKeyFile string `ini:"client_public_key_file"`
	ClientPrivateKeyFile string `ini:"client_private_key_file"`
	Username         string `ini:"username"`
	Password         string `ini:"password"`
}

// OperatorINI is the [uOperator] section.
type OperatorINI struct {
	Address   string        `ini:"address"`
	TimeOutMS int           `ini:"time_out_ms"`
	ZAP       ZAPOptionsINI
}

// ConnectionINI is a [<Broadcast>] or [<Service>] section.
type ConnectionINI struct {
	Name                  string `ini:"name"`
	FrontendAddress       string `ini:"frontendAddress"`
	BackendAddress        string `ini:"backendAddress"`
	FrontendHighWaterMark int    `ini:"frontendHighWaterMark"`
	BackendHighWaterMark  int    `ini:"backendHighWaterMark"`
}

// ModuleRegistryINI is the [uModuleRegistry] section: the remote half of
// the module command plane (spec §4.7) that modules register and
// heartbeat into.
type ModuleRegistryINI struct {
	Address             string  `ini:"address"`
	SQLite3FileName     string  `ini:"sqlite3FileName"`
	SweepIntervalMS     int64   `ini:"sweepIntervalMS"`
	EvictionMultiplier  float64 `ini:"evictionMultiplier"`
	ZAP                 ZAPOptionsINI
}

// IncrementerINI is the [Incrementer] section.
type IncrementerINI struct {
	SQLite3FileName string `ini:"sqlite3FileName"`
	BackendAddress  string `ini:"backendAddress"`
	InitialValue    int64  `ini:"initialValue"`
	Increment       int32  `ini:"increment"`
	ZAP             ZAPOptionsINI
}

// LoadOperatorSection reads [uOperator] (and its nested zap.* keys) out of
// an INI file.
func LoadOperatorSection(path string) (*OperatorINI, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load ini file %s: %w", path, err)
	}
	var out OperatorINI
	if err := cfg.Section("uOperator").MapTo(&out); err != nil {
		return nil, fmt.Errorf("failed to map uOperator section: %w", err)
	}
	if err := cfg.Section("uOperator.zap").MapTo(&out.ZAP); err != nil {
		return nil, fmt.Errorf("failed to map uOperator.zap section: %w", err)
	}
	return &out, nil
}

// LoadConnectionSection reads a named [<Broadcast>] or [<Service>] section.
func LoadConnectionSection(path, sectionName string) (*ConnectionINI, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load ini file %s: %w", path, err)
	}
	var out ConnectionINI
	if err := cfg.Section(sectionName).MapTo(&out); err != nil {
		return nil, fmt.Errorf("failed to map %s section: %w", sectionName, err)
	}
	if out.Name == "" {
		out.Name = sectionName
	}
	return &out, nil
}

// LoadModuleRegistrySection reads [uModuleRegistry] (and its nested
// zap.* keys) out of an INI file.
func LoadModuleRegistrySection(path string) (*ModuleRegistryINI, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load ini file %s: %w", path, err)
	}
	var out ModuleRegistryINI
	if err := cfg.Section("uModuleRegistry").MapTo(&out); err != nil {
		return nil, fmt.Errorf("failed to map uModuleRegistry section: %w", err)
	}
	if err := cfg.Section("uModuleRegistry.zap").MapTo(&out.ZAP); err != nil {
		return nil, fmt.Errorf("failed to map uModuleRegistry.zap section: %w", err)
	}
	if out.SweepIntervalMS <= 0 {
		out.SweepIntervalMS = 5000
	}
	if out.EvictionMultiplier <= 0 {
		out.EvictionMultiplier = 3.0
	}
	return &out, nil
}

// LoadIncrementerSection reads [Incrementer].
func LoadIncrementerSection(path string) (*IncrementerINI, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load ini file %s: %w", path, err)
	}
	var out IncrementerINI
	if err := cfg.Section("Incrementer").MapTo(&out); err != nil {
		return nil, fmt.Errorf("failed to map Incrementer section: %w", err)
	}
	if err := cfg.Section("Incrementer.zap").MapTo(&out.ZAP); err != nil {
		return nil, fmt.Errorf("failed to map Incrementer.zap section: %w", err)
	}
	if out.Increment <= 0 {
		out.Increment = 1
	}
	return &out, nil
}
