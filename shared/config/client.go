package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	ModeAPI       = "api"
	ModeLocal     = "local"
	ModeFirestore = "firestore"
)

// Client configures the command-line reader and authoring client.
type Client struct {
	Mode      string            `yaml:"mode"`
	APIURL    string            `yaml:"api_url"`
	StateFile string            `yaml:"state_file"`
	LogLevel  string            `yaml:"log_level"`
	Authors   map[string]string `yaml:"authors"` // identity -> display name
	AllowList []AllowedUser     `yaml:"allow_list"`
	Firebase  Firebase          `yaml:"firebase"`
}

type AllowedUser struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

type Firebase struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	APIKey          string `yaml:"api_key"`
	Collection      string `yaml:"collection"`
}

func LoadClient(configPath string) (*Client, error) {
	var cfg Client
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read client config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse client config: %w", err)
	}
	if v := os.Getenv("BACILOGS_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("BACILOGS_MODE"); v != "" {
		cfg.Mode = v
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoadClient(configPath string) *Client {
	cfg, err := LoadClient(configPath)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func (c *Client) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeAPI
	}
	if c.APIURL == "" {
		c.APIURL = "http://localhost:5000"
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.StateFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		c.StateFile = filepath.Join(dir, "bacilogs", "state.json")
	}
	if c.Firebase.Collection == "" {
		c.Firebase.Collection = "posts"
	}
	if c.Authors == nil {
		c.Authors = map[string]string{}
	}
}

func (c *Client) validate() error {
	switch c.Mode {
	case ModeAPI:
	case ModeLocal:
		if len(c.AllowList) == 0 {
			return fmt.Errorf("client config: allow_list is required in local mode")
		}
	case ModeFirestore:
		if c.Firebase.ProjectID == "" || c.Firebase.APIKey == "" {
			return fmt.Errorf("client config: firebase project_id and api_key are required in firestore mode")
		}
	default:
		return fmt.Errorf("client config: unknown mode %q", c.Mode)
	}
	return nil
}

// DisplayName maps an author identity to the name shown to readers.
func (c *Client) DisplayName(identity string) string {
	if name, ok := c.Authors[identity]; ok {
		return name
	}
	return identity
}
