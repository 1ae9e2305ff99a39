// Configuration

// The configuration is loaded from a YAML file, with the following structure:
//
//  amicontained_config:
//    proc_root: /proc
//    cgroup_root: /sys/fs/cgroup
//    max_read_size: 1m
//    thread_policy_config:
//      ...
//    log_config:
//      ...
//
// Other sections are ignored, so the file may be shared w/ the configuration
// of the application using this package.

package amicontained_internal

import (
	"fmt"
	"io"
	"os"

	"github.com/bgp59/logrusx"
	"github.com/docker/go-units"
	"gopkg.in/yaml.v3"
)

const (
	AMICONTAINED_CONFIG_SECTION_NAME = "amicontained_config"

	AMICONTAINED_CONFIG_PROC_ROOT_DEFAULT     = "/proc"
	AMICONTAINED_CONFIG_CGROUP_ROOT_DEFAULT   = "/sys/fs/cgroup"
	AMICONTAINED_CONFIG_MAX_READ_SIZE_DEFAULT = "1m"
)

type AmicontainedConfig struct {
	// Where procfs is mounted. Tests or tools inspecting another mount
	// namespace may point it elsewhere.
	ProcRoot string `yaml:"proc_root"`

	// Where cgroupfs is conventionally mounted; it is used only if the cgroup
	// mounts cannot be found in /proc/self/mountinfo.
	CgroupRoot string `yaml:"cgroup_root"`

	// Cap for reading procfs/cgroupfs files, w/ units (k, m, ...). Note that
	// mountinfo may be large on hosts w/ many mounts.
	MaxReadSize string `yaml:"max_read_size"`

	ThreadPolicyConfig *ThreadPolicyConfig   `yaml:"thread_policy_config"`
	LoggerConfig       *logrusx.LoggerConfig `yaml:"log_config"`
}

func DefaultAmicontainedConfig() *AmicontainedConfig {
	return &AmicontainedConfig{
		ProcRoot:           AMICONTAINED_CONFIG_PROC_ROOT_DEFAULT,
		CgroupRoot:         AMICONTAINED_CONFIG_CGROUP_ROOT_DEFAULT,
		MaxReadSize:        AMICONTAINED_CONFIG_MAX_READ_SIZE_DEFAULT,
		ThreadPolicyConfig: DefaultThreadPolicyConfig(),
		LoggerConfig:       logrusx.DefaultLoggerConfig(),
	}
}

// ParseMaxReadSize returns the read cap in bytes, 0 for unlimited.
func (cfg *AmicontainedConfig) ParseMaxReadSize() (int64, error) {
	if cfg.MaxReadSize == "" || cfg.MaxReadSize == "0" {
		return 0, nil
	}
	maxReadSize, err := units.RAMInBytes(cfg.MaxReadSize)
	if err != nil {
		return 0, fmt.Errorf("invalid max_read_size %q: %v", cfg.MaxReadSize, err)
	}
	if maxReadSize < 0 {
		return 0, fmt.Errorf("invalid max_read_size %q: negative", cfg.MaxReadSize)
	}
	return maxReadSize, nil
}

// LoadConfig loads the amicontained_config section from the specified YAML
// file (or buffer, for testing) over the default values. An empty file name
// and a nil buffer return the defaults.
func LoadConfig(cfgFile string, buf []byte) (*AmicontainedConfig, error) {
	if buf == nil {
		if cfgFile == "" {
			return DefaultAmicontainedConfig(), nil
		}
		f, err := os.Open(cfgFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		buf, err = io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
		}
	}

	docNode := yaml.Node{}
	err := yaml.Unmarshal(buf, &docNode)
	if err != nil {
		return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
	}

	cfg := DefaultAmicontainedConfig()
	if docNode.Kind == yaml.DocumentNode && len(docNode.Content) > 0 {
		rootNode := docNode.Content[0]
		if rootNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("file: %q: invalid YAML root node %q", cfgFile, rootNode.Tag)
		}
		// Mapping content alternates key, value:
		for i := 0; i+1 < len(rootNode.Content); i += 2 {
			keyNode, valNode := rootNode.Content[i], rootNode.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode || keyNode.Value != AMICONTAINED_CONFIG_SECTION_NAME {
				continue
			}
			if valNode.Kind == yaml.MappingNode {
				if err = valNode.Decode(cfg); err != nil {
					return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
				}
			}
		}
	}

	return cfg, nil
}
