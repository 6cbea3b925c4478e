package businessmap

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
)

// InstanceConfig identifies one BusinessMap account the server can talk to.
type InstanceConfig struct {
	Name    string
	BaseURL string
	Token   string
}

// InstanceInfo is the token-free view of an instance.
type InstanceInfo struct {
	Name      string `json:"name"`
	BaseURL   string `json:"api_url"`
	IsDefault bool   `json:"is_default"`
}

// Factory lazily builds and caches one Service per configured instance.
type Factory struct {
	instances   map[string]InstanceConfig
	defaultName string
	clientOpts  []ClientOption
	log         *log.Logger

	mu       sync.Mutex
	services map[string]*Service
}

// NewFactory validates instances and returns a Factory. defaultName may be empty, in which
// case the first instance is the default.
func NewFactory(instances []InstanceConfig, defaultName string, logger *log.Logger, opts ...ClientOption) (*Factory, error) {
	if logger == nil {
		logger = log.Default()
	}
	if len(instances) == 0 {
		return nil, fmt.Errorf("at least one BusinessMap instance is required")
	}

	byName := make(map[string]InstanceConfig, len(instances))
	for _, inst := range instances {
		name := strings.TrimSpace(inst.Name)
		if name == "" {
			return nil, fmt.Errorf("instance name cannot be empty")
		}
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("duplicate instance name %q", name)
		}
		inst.Name = name
		byName[name] = inst
	}

	defaultName = strings.TrimSpace(defaultName)
	if defaultName == "" {
		defaultName = strings.TrimSpace(instances[0].Name)
	}
	if _, ok := byName[defaultName]; !ok {
		return nil, fmt.Errorf("default instance %q is not configured", defaultName)
	}

	return &Factory{
		instances:   byName,
		defaultName: defaultName,
		clientOpts:  opts,
		log:         logger,
		services:    make(map[string]*Service),
	}, nil
}

// DefaultInstance returns the name used when callers pass an empty instance.
func (f *Factory) DefaultInstance() string {
	return f.defaultName
}

// Service returns the cached Service for name, building it on first use.
func (f *Factory) Service(name string) (*Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = f.defaultName
	}

	inst, ok := f.instances[name]
	if !ok {
		return nil, fmt.Errorf("unknown instance %q (available: %s)", name, strings.Join(f.names(), ", "))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if svc, ok := f.services[name]; ok {
		return svc, nil
	}

	client, err := NewClient(inst.Token, inst.BaseURL, f.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create client for instance %q: %w", name, err)
	}

	svc := NewService(client, f.log)
	f.services[name] = svc
	f.log.Printf("BusinessMap client for instance %q initialized (%s)", name, client.BaseURL())

	return svc, nil
}

// Instances lists the configured instances sorted by name.
func (f *Factory) Instances() []InstanceInfo {
	infos := make([]InstanceInfo, 0, len(f.instances))
	for _, name := range f.names() {
		inst := f.instances[name]
		infos = append(infos, InstanceInfo{
			Name:      name,
			BaseURL:   inst.BaseURL,
			IsDefault: name == f.defaultName,
		})
	}
	return infos
}

func (f *Factory) names() []string {
	names := make([]string, 0, len(f.instances))
	for name := range f.instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
