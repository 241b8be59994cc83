package memlayout

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Partition is one entry of a static partition map. Address and Size may be
// written as integers or as hex strings; both decode to bytes.
type Partition struct {
	Address int64
	Size    int64
	Region  string
	Device  string

	HasAddress bool
	HasSize    bool
}

// UnmarshalYAML decodes a partition mapping, accepting "0x7000" and 28672
// interchangeably for address and size.
func (p *Partition) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Address yaml.Node `yaml:"address"`
		Size    yaml.Node `yaml:"size"`
		Region  string    `yaml:"region"`
		Device  string    `yaml:"device"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	p.Region = raw.Region
	p.Device = raw.Device
	if !raw.Address.IsZero() {
		n, err := decodeInt(&raw.Address)
		if err != nil {
			return fmt.Errorf("address: %w", err)
		}
		p.Address = n
		p.HasAddress = true
	}
	if !raw.Size.IsZero() {
		n, err := decodeInt(&raw.Size)
		if err != nil {
			return fmt.Errorf("size: %w", err)
		}
		p.Size = n
		p.HasSize = true
	}
	return nil
}

func decodeInt(node *yaml.Node) (int64, error) {
	var n int64
	if err := node.Decode(&n); err == nil {
		return n, nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if v, ok := strings.CutPrefix(s, "0x"); ok {
		return strconv.ParseInt(v, 16, 64)
	}
	return strconv.ParseInt(s, 10, 64)
}

// Map is a whole pm_static file keyed by partition name.
type Map map[string]Partition

// LoadMap reads and decodes a static partition-map file.
func LoadMap(path string) (Map, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read partition map: %w", err)
	}
	var m Map
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("partition map %s: %w", path, err)
	}
	return m, nil
}

// Names returns the partition names in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
