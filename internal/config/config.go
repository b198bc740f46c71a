package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PlaceholderPrefix marks credential values that were written by
// CreateDefault and never replaced by the user.
const PlaceholderPrefix = "YOUR_"

// DefaultFileName is the config file created next to the executable.
const DefaultFileName = "s3_config.json"

// Profile is one named storage account: endpoint plus credentials.
type Profile struct {
	Name      string `json:"name"`
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Secure    bool   `json:"secure"`
	Region    string `json:"region"`
}

// Configured reports whether both credential fields have been filled in.
func (p Profile) Configured() bool {
	return !strings.HasPrefix(p.AccessKey, PlaceholderPrefix) &&
		!strings.HasPrefix(p.SecretKey, PlaceholderPrefix)
}

// File is the on-disk config schema.
type File struct {
	Profiles       map[string]Profile `json:"profiles"`
	DefaultProfile string             `json:"default_profile"`
}

// Store is a handle to the config file. It holds only the path; the file
// is re-read on every call so external edits take effect immediately.
type Store struct {
	Path string
}

// NewStore returns a Store for the given path, or the default path when
// path is empty.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{Path: path}
}

// DefaultPath returns s3_config.json next to the running executable,
// falling back to the working directory if the executable path is unknown.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName)
}

// Load reads the config file, creating a default one first if it does not
// exist.
func (s *Store) Load() (*File, error) {
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		if err := s.CreateDefault(); err != nil {
			return nil, fmt.Errorf("create default config %s: %w", s.Path, err)
		}
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", s.Path, err)
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", s.Path, err)
	}
	return &f, nil
}

// Exists reports whether the config file is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Profile resolves and validates one named profile. The file is read
// fresh; a missing profile or a placeholder credential is an error naming
// the offending field.
func (s *Store) Profile(name string) (Profile, error) {
	f, err := s.Load()
	if err != nil {
		return Profile{}, err
	}
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (available: %s)", ErrProfileNotFound, name, strings.Join(sortedNames(f.Profiles), ", "))
	}
	checks := []struct {
		field string
		value string
	}{
		{"endpoint", p.Endpoint},
		{"access_key", p.AccessKey},
		{"secret_key", p.SecretKey},
	}
	for _, c := range checks {
		if c.value == "" || strings.HasPrefix(c.value, PlaceholderPrefix) {
			return Profile{}, fmt.Errorf("%w: profile %q has invalid %s, please update %s", ErrInvalidProfile, name, c.field, s.Path)
		}
	}
	return p, nil
}

// ProfileNames returns the sorted profile names, or nil if the config
// cannot be read.
func (s *Store) ProfileNames() []string {
	f, err := s.Load()
	if err != nil {
		return nil
	}
	return sortedNames(f.Profiles)
}

func sortedNames(profiles map[string]Profile) []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CreateDefault writes the stock config with placeholder credentials.
func (s *Store) CreateDefault() error {
	def := File{
		Profiles: map[string]Profile{
			"aws_s3": {
				Name:      "AWS S3",
				Endpoint:  "s3.amazonaws.com",
				AccessKey: "YOUR_AWS_ACCESS_KEY",
				SecretKey: "YOUR_AWS_SECRET_KEY",
				Secure:    true,
				Region:    "us-east-1",
			},
			"minio_local": {
				Name:      "Local MinIO",
				Endpoint:  "localhost:9000",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
				Secure:    false,
				Region:    "us-east-1",
			},
			"digitalocean": {
				Name:      "DigitalOcean Spaces",
				Endpoint:  "nyc3.digitaloceanspaces.com",
				AccessKey: "YOUR_DO_ACCESS_KEY",
				SecretKey: "YOUR_DO_SECRET_KEY",
				Secure:    true,
				Region:    "nyc3",
			},
			"backblaze": {
				Name:      "Backblaze B2",
				Endpoint:  "s3.us-west-004.backblazeb2.com",
				AccessKey: "YOUR_B2_KEY_ID",
				SecretKey: "YOUR_B2_APPLICATION_KEY",
				Secure:    true,
				Region:    "us-west-004",
			},
		},
		DefaultProfile: "aws_s3",
	}
	b, err := json.MarshalIndent(def, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, b, 0o644)
}
