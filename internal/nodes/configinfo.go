package nodes

import (
	"fmt"
	"sort"

	"github.com/yourorg/s3-image-nodes/internal/types"
)

// ConfigInfo reports configuration file health. It never fails: problems
// are embedded in the report's instructions instead.
type ConfigInfo struct {
	env Env
}

func NewConfigInfo(env Env) ConfigInfo { return ConfigInfo{env: env} }

func (ConfigInfo) ID() string          { return "S3ConfigInfo" }
func (ConfigInfo) DisplayName() string { return "S3 Config Info" }

func (n ConfigInfo) Run() types.ConfigReport {
	report := types.ConfigReport{
		ConfigFilePath: n.env.Config.Path,
		ConfigExists:   n.env.Config.Exists(),
		Profiles:       []types.ProfileStatus{},
	}

	if !report.ConfigExists {
		report.Instructions = []string{
			fmt.Sprintf("Config file not found at: %s", n.env.Config.Path),
			"A default config will be created on first use",
			"Edit the generated file with your S3 credentials",
		}
		return report
	}

	f, err := n.env.Config.Load()
	if err != nil {
		report.Instructions = []string{
			fmt.Sprintf("Config file exists but has errors: %v", err),
			"Please check the JSON syntax",
		}
		return report
	}

	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := f.Profiles[name]
		display := p.Name
		if display == "" {
			display = name
		}
		report.Profiles = append(report.Profiles, types.ProfileStatus{
			Name:        name,
			DisplayName: display,
			Endpoint:    p.Endpoint,
			Configured:  p.Configured(),
		})
	}
	report.Instructions = []string{
		fmt.Sprintf("Config file found at: %s", n.env.Config.Path),
		fmt.Sprintf("Found %d profile(s)", len(f.Profiles)),
		"Edit the config file to add your S3 credentials",
		"Replace 'YOUR_*' placeholders with actual values",
	}
	return report
}
