//go:build integration

package integration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Case is one workspace scanned by the integration suite. A case either
// points at a fixture directory under testdata/fixtures or at a remote
// repository cloned on first use.
type Case struct {
	Name      string `yaml:"name"`
	Framework string `yaml:"framework"`
	Dir       string `yaml:"dir"`
	URL       string `yaml:"url"`
	Ref       string `yaml:"ref"`
	// Handlers lists the handler symbols expected to be located, in order.
	Handlers []string `yaml:"handlers"`
}

// CasesConfig holds the list of cases to scan.
type CasesConfig struct {
	Cases []Case `yaml:"cases"`
}

// LoadCases loads case definitions from testdata/cases.yaml.
func LoadCases() (*CasesConfig, error) {
	testDataDir, err := getTestDataDir()
	if err != nil {
		return nil, err
	}
	return loadCasesFromPath(filepath.Join(testDataDir, "cases.yaml"))
}

func loadCasesFromPath(path string) (*CasesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cases config from %s: %w", path, err)
	}

	var config CasesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshal cases config: %w", err)
	}

	if err := validateCasesConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid cases config: %w", err)
	}

	return &config, nil
}

func validateCasesConfig(config *CasesConfig) error {
	if len(config.Cases) == 0 {
		return errors.New("no cases defined")
	}

	for i, c := range config.Cases {
		if c.Name == "" {
			return fmt.Errorf("case %d: name is required", i)
		}
		if c.Framework == "" {
			return fmt.Errorf("case %s: framework is required", c.Name)
		}
		if (c.Dir == "") == (c.URL == "") {
			return fmt.Errorf("case %s: exactly one of dir or url is required", c.Name)
		}
		if c.URL != "" && c.Ref == "" {
			return fmt.Errorf("case %s: ref is required for remote cases", c.Name)
		}
	}
	return nil
}

// PrepareCase returns the workspace root of c, cloning remote cases.
func PrepareCase(c Case) (string, error) {
	if c.Dir == "" {
		result, err := CloneRepo(c)
		if err != nil {
			return "", err
		}
		return result.Path, nil
	}

	testDataDir, err := getTestDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(testDataDir, "fixtures", c.Dir), nil
}

func getTestDataDir() (string, error) {
	integrationDir, err := getIntegrationDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(integrationDir, "testdata"), nil
}

func getIntegrationDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return wd, nil
}
