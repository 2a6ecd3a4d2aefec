package config

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// PoolServer is one candidate server in a pool file.
type PoolServer struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"` // 0 = inherit the top-level port
}

// Pool is an optional flat YAML file listing candidate servers. When
// configured, each run picks one entry instead of the single top-level
// server.
type Pool struct {
	Servers []PoolServer `yaml:"servers"`
}

// LoadPool loads and validates a server pool file.
func LoadPool(path string) (*Pool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("pool file does not exist: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool file %s: %w", path, err)
	}

	var pool Pool
	if err := yaml.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("failed to parse pool file %s: %w", path, err)
	}

	if len(pool.Servers) == 0 {
		return nil, fmt.Errorf("pool file %s lists no servers", path)
	}
	for i, s := range pool.Servers {
		if s.Host == "" {
			return nil, fmt.Errorf("pool file %s: server %d is missing a host", path, i)
		}
		if s.Port < 0 || s.Port > 65535 {
			return nil, fmt.Errorf("pool file %s: server %d has invalid port %d", path, i, s.Port)
		}
	}

	return &pool, nil
}

// Pick returns one pool entry at random.
func (p *Pool) Pick() PoolServer {
	if len(p.Servers) == 1 {
		return p.Servers[0]
	}
	return p.Servers[rand.Intn(len(p.Servers))]
}
