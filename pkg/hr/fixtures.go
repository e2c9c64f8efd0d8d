package hr

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var bundledFixtures []byte

// Dataset holds one collection per resource, as laid out in a fixtures file.
type Dataset struct {
	Employees     []Employee     `yaml:"employees"`
	BenefitPlans  []BenefitPlan  `yaml:"benefitPlans"`
	Courses       []Course       `yaml:"courses"`
	Goals         []Goal         `yaml:"goals"`
	LeaveRequests []LeaveRequest `yaml:"leaveRequests"`
	Documents     []Document     `yaml:"documents"`
	PayStubs      []PayStub      `yaml:"payStubs"`
}

// LoadFixtures reads a fixtures file. An empty path selects the bundled fixtures.
func LoadFixtures(path string) (*Dataset, error) {
	if path == "" {
		return ParseFixtures(bundledFixtures)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file: %w", err)
	}
	ds, err := ParseFixtures(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ParseFixtures decodes YAML fixtures. An empty document is an empty dataset. Unknown keys are rejected so that a typo does not
// silently empty a collection.
func ParseFixtures(data []byte) (*Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &ds, nil
}
