package simulator

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceConfig describes one traffic source. StartFrac and EndFrac are
// fractions of the simulation horizon; the simulator multiplies them by the
// horizon to obtain the source's activation window.
type SourceConfig struct {
	PacketRate float64 `json:"packetRate" yaml:"packetRate"` // packets per second
	MinSize    int     `json:"minSize" yaml:"minSize"`       // bytes, inclusive
	MaxSize    int     `json:"maxSize" yaml:"maxSize"`       // bytes, inclusive
	Weight     float64 `json:"weight" yaml:"weight"`
	StartFrac  float64 `json:"startFrac" yaml:"startFrac"`
	EndFrac    float64 `json:"endFrac" yaml:"endFrac"`
}

// SimConfig holds all simulation parameters
type SimConfig struct {
	Discipline     Discipline     `json:"discipline" yaml:"discipline"`
	SimulationTime float64        `json:"simulationTime" yaml:"simulationTime"` // horizon in seconds
	LinkCapacity   float64        `json:"linkCapacity" yaml:"linkCapacity"`     // bytes per second
	BufferSize     int            `json:"bufferSize" yaml:"bufferSize"`         // packets, not bytes
	RandomSeed     int64          `json:"randomSeed" yaml:"randomSeed"`         // 0 = time-based seed (CLI only)
	StrictChecks   bool           `json:"strictChecks" yaml:"strictChecks"`     // panic on invariant violations
	Sources        []SourceConfig `json:"sources" yaml:"sources"`
}

// DefaultConfig returns a small two-source workload that keeps the link
// lightly loaded. Useful as a server starting point and in tests.
func DefaultConfig() SimConfig {
	return SimConfig{
		Discipline:     DisciplineFCFS,
		SimulationTime: 100.0,
		LinkCapacity:   1e6, // 1 MB/s
		BufferSize:     50,
		RandomSeed:     1,
		StrictChecks:   false,
		Sources: []SourceConfig{
			{PacketRate: 100, MinSize: 500, MaxSize: 1500, Weight: 1, StartFrac: 0, EndFrac: 1},
			{PacketRate: 100, MinSize: 500, MaxSize: 1500, Weight: 1, StartFrac: 0, EndFrac: 1},
		},
	}
}

// Validate checks if configuration values are reasonable
func (c *SimConfig) Validate() error {
	if c.SimulationTime <= 0 {
		return ErrInvalidConfig("simulationTime must be > 0")
	}
	if c.LinkCapacity <= 0 {
		return ErrInvalidConfig("linkCapacity must be > 0")
	}
	if c.BufferSize < 0 {
		return ErrInvalidConfig("bufferSize must be >= 0")
	}
	if len(c.Sources) == 0 {
		return ErrInvalidConfig("at least one source is required")
	}
	for i, src := range c.Sources {
		if src.PacketRate <= 0 {
			return ErrInvalidConfig(fmt.Sprintf("source %d: packetRate must be > 0", i))
		}
		if src.MinSize <= 0 {
			return ErrInvalidConfig(fmt.Sprintf("source %d: minSize must be > 0", i))
		}
		if src.MinSize > src.MaxSize {
			return ErrInvalidConfig(fmt.Sprintf("source %d: minSize %d > maxSize %d", i, src.MinSize, src.MaxSize))
		}
		if src.Weight <= 0 {
			return ErrInvalidConfig(fmt.Sprintf("source %d: weight must be > 0", i))
		}
		if src.StartFrac < 0 || src.StartFrac > 1 || src.EndFrac < 0 || src.EndFrac > 1 {
			return ErrInvalidConfig(fmt.Sprintf("source %d: start/end fractions must be in [0, 1]", i))
		}
		if src.StartFrac > src.EndFrac {
			return ErrInvalidConfig(fmt.Sprintf("source %d: startFrac %g > endFrac %g", i, src.StartFrac, src.EndFrac))
		}
	}
	return nil
}

// ParseConfig reads the line-oriented whitespace format:
//
//	numSources simulationTime linkCapacity bufferSize
//	packetRate minSize maxSize weight startFrac endFrac   (one line per source)
//
// The parsed config carries the zero Discipline and RandomSeed; callers set
// those from flags. Blank lines are skipped.
func ParseConfig(r io.Reader) (SimConfig, error) {
	var cfg SimConfig

	scanner := bufio.NewScanner(r)
	header, ok := nextLine(scanner)
	if !ok {
		return cfg, ErrConfigParse("empty config file")
	}

	fields := strings.Fields(header)
	if len(fields) != 4 {
		return cfg, ErrConfigParse(fmt.Sprintf("header: expected 4 fields, got %d", len(fields)))
	}

	numSources, err := strconv.Atoi(fields[0])
	if err != nil {
		return cfg, ErrConfigParse(fmt.Sprintf("header: numSources: %v", err))
	}
	if numSources <= 0 {
		return cfg, ErrConfigParse("header: numSources must be > 0")
	}
	if cfg.SimulationTime, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return cfg, ErrConfigParse(fmt.Sprintf("header: simulationTime: %v", err))
	}
	if cfg.LinkCapacity, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return cfg, ErrConfigParse(fmt.Sprintf("header: linkCapacity: %v", err))
	}
	if cfg.BufferSize, err = strconv.Atoi(fields[3]); err != nil {
		return cfg, ErrConfigParse(fmt.Sprintf("header: bufferSize: %v", err))
	}

	cfg.Sources = make([]SourceConfig, 0, numSources)
	for i := 0; i < numSources; i++ {
		line, ok := nextLine(scanner)
		if !ok {
			return cfg, ErrConfigParse(fmt.Sprintf("missing configuration for source %d", i))
		}
		src, err := parseSourceLine(i, line)
		if err != nil {
			return cfg, err
		}
		cfg.Sources = append(cfg.Sources, src)
	}

	if err := scanner.Err(); err != nil {
		return cfg, ErrConfigParse(err.Error())
	}
	return cfg, nil
}

func parseSourceLine(index int, line string) (SourceConfig, error) {
	var src SourceConfig

	fields := strings.Fields(line)
	if len(fields) != 6 {
		return src, ErrConfigParse(fmt.Sprintf("source %d: expected 6 fields, got %d", index, len(fields)))
	}

	var err error
	if src.PacketRate, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return src, ErrConfigParse(fmt.Sprintf("source %d: packetRate: %v", index, err))
	}
	if src.MinSize, err = strconv.Atoi(fields[1]); err != nil {
		return src, ErrConfigParse(fmt.Sprintf("source %d: minSize: %v", index, err))
	}
	if src.MaxSize, err = strconv.Atoi(fields[2]); err != nil {
		return src, ErrConfigParse(fmt.Sprintf("source %d: maxSize: %v", index, err))
	}
	if src.Weight, err = strconv.ParseFloat(fields[3], 64); err != nil {
		return src, ErrConfigParse(fmt.Sprintf("source %d: weight: %v", index, err))
	}
	if src.StartFrac, err = strconv.ParseFloat(fields[4], 64); err != nil {
		return src, ErrConfigParse(fmt.Sprintf("source %d: startFrac: %v", index, err))
	}
	if src.EndFrac, err = strconv.ParseFloat(fields[5], 64); err != nil {
		return src, ErrConfigParse(fmt.Sprintf("source %d: endFrac: %v", index, err))
	}
	return src, nil
}

func nextLine(scanner *bufio.Scanner) (string, bool) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			return line, true
		}
	}
	return "", false
}

// LoadConfigFile reads a configuration file, selecting the format by
// extension: .yaml/.yml and .json decode the SimConfig directly, anything
// else is treated as the whitespace format.
func LoadConfigFile(path string) (SimConfig, error) {
	var cfg SimConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, ErrConfigParse(err.Error())
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, ErrConfigParse(err.Error())
		}
	default:
		cfg, err = ParseConfig(strings.NewReader(string(data)))
		if err != nil {
			return cfg, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
