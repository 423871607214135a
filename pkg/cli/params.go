package cli

import (
	"context"
	"strings"

	"github.com/heetch/confita/backend"
	"github.com/heetch/confita/backend/env"
	"github.com/heetch/confita/backend/file"
	"github.com/iancoleman/strcase"
	"github.com/spf13/pflag"
	"github.com/wdk/amazon-connect-foundation/pkg/config"
)

var paramUsage = []struct {
	key   string
	usage string
}{
	{"prefixName", "Project prefix of every resource name"},
	{"stageName", "Deployment stage, e.g. dev or prod"},
	{"accountNumber", "AWS account to deploy to"},
	{"region", "AWS region to deploy to"},
	{"requiredInputs", "Comma-separated keys that must exist in the configuration table"},
	{"outputs", `JSON list of {"name", "description"} output descriptors`},
	{"configTable", "Configuration table, defaults to wdk-<prefix>-<stage>-config"},
}

type paramFlags struct {
	values     map[string]*string
	configFile string
	setup      map[string]string
}

// addParamFlags registers one kebab-case flag per parameter key, e.g. --prefix-name for prefixName.
func addParamFlags(flags *pflag.FlagSet) *paramFlags {
	p := &paramFlags{values: make(map[string]*string, len(paramUsage))}
	for _, u := range paramUsage {
		p.values[u.key] = flags.String(flagName(u.key), "", u.usage)
	}
	flags.StringVar(&p.configFile, "config-file", "", "JSON or YAML file holding the parameters")
	flags.StringToStringVar(&p.setup, "setup", nil, "Setup overrides as property=value, e.g. enableCTRStream=false")
	return p
}

func flagName(key string) string {
	return strcase.ToKebab(key)
}

// backends returns the parameter sources in order: flags, the config file, then the environment.
func (p *paramFlags) backends() []backend.Backend {
	values := make(map[string]string, len(p.values))
	for k, v := range p.values {
		values[k] = strings.TrimSpace(*v)
	}
	backends := []backend.Backend{config.NewMapBackend("flags", values)}
	if p.configFile != "" {
		backends = append(backends, file.NewBackend(p.configFile))
	}
	return append(backends, env.NewBackend())
}

func (p *paramFlags) load(ctx context.Context) (*config.Params, error) {
	return config.LoadParams(ctx, p.backends()...)
}

// setupOverrides turns --setup property=value pairs into configuration table values.
func (p *paramFlags) setupOverrides() config.Values {
	values := make(config.Values, len(p.setup))
	for k, v := range p.setup {
		values[config.SetupNamespace+"."+strings.TrimSpace(k)] = v
	}
	return values
}
