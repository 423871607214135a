package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (
	ModuleName = "amazon-connect-foundation"
	// SetupNamespace prefixes the feature flags in the configuration table.
	SetupNamespace = ModuleName + ".setup"
)

var ErrMissingParameters = errors.New("missing required context values. Please provide: prefixName, stageName, accountNumber, region")

// Params are the invocation parameters of a synthesis or CLI run. The four identifiers are
// required; Validate reports all missing ones at once. The json and yaml tags serve the
// confita file backend.
type Params struct {
	PrefixName     string `config:"prefixName" json:"prefixName" yaml:"prefixName"`
	StageName      string `config:"stageName" json:"stageName" yaml:"stageName"`
	AccountNumber  string `config:"accountNumber" json:"accountNumber" yaml:"accountNumber"`
	Region         string `config:"region" json:"region" yaml:"region"`
	RequiredInputs string `config:"requiredInputs" json:"requiredInputs" yaml:"requiredInputs"`
	Outputs        string `config:"outputs" json:"outputs" yaml:"outputs"`
	ConfigTable    string `config:"configTable" json:"configTable" yaml:"configTable"`
}

// OutputDescriptor mirrors the entries of the `outputs` parameter.
type OutputDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (p *Params) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"prefixName", p.PrefixName},
		{"stageName", p.StageName},
		{"accountNumber", p.AccountNumber},
		{"region", p.Region},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return errors.Wrapf(ErrMissingParameters, "%s not set", strings.Join(missing, ", "))
	}
	return nil
}

// Prefix is the <prefixName>-<stageName> name prefix shared by every resource.
func (p *Params) Prefix() string {
	return fmt.Sprintf("%s-%s", p.PrefixName, p.StageName)
}

func (p *Params) StackName() string {
	return fmt.Sprintf("wdk-%s-%s-%s", p.PrefixName, p.StageName, ModuleName)
}

func (p *Params) ConfigTableName() string {
	if p.ConfigTable != "" {
		return p.ConfigTable
	}
	return fmt.Sprintf("wdk-%s-%s-config", p.PrefixName, p.StageName)
}

// RequiredInputList splits the comma-separated requiredInputs parameter.
func (p *Params) RequiredInputList() []string {
	if strings.TrimSpace(p.RequiredInputs) == "" {
		return nil
	}
	var inputs []string
	for _, s := range strings.Split(p.RequiredInputs, ",") {
		if s = strings.TrimSpace(s); s != "" {
			inputs = append(inputs, s)
		}
	}
	return inputs
}

// OutputDescriptors decodes the JSON-encoded outputs parameter.
func (p *Params) OutputDescriptors() ([]OutputDescriptor, error) {
	if strings.TrimSpace(p.Outputs) == "" {
		return nil, nil
	}
	var descriptors []OutputDescriptor
	if err := json.Unmarshal([]byte(p.Outputs), &descriptors); err != nil {
		return nil, errors.Wrap(err, "could not parse outputs parameter")
	}
	return descriptors, nil
}

func (p *Params) Tags() map[string]string {
	return map[string]string{
		"Project":   p.PrefixName,
		"Stage":     p.StageName,
		"Module":    ModuleName,
		"ManagedBy": "WDK",
	}
}

func (p *Params) Description() string {
	return fmt.Sprintf("WDK AmazonConnectFoundation Module for %s", p.Prefix())
}
