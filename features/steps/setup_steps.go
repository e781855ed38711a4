//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reel-digest/cmd"
	"reel-digest/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	setupCancelled  bool
	originalContent string
	output          *bytes.Buffer
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	secretResponses  []string
	confirmResponses []bool
	inputIndex       int
	secretIndex      int
	confirmIndex     int
}

func NewMockPrompter(inputs, secrets []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		secretResponses:  secrets,
		confirmResponses: confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Secret(message string) (string, error) {
	if m.secretIndex >= len(m.secretResponses) {
		return "", nil
	}
	response := m.secretResponses[m.secretIndex]
	m.secretIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		// Create temp directory for each scenario
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config", "config.yaml")
		testCtx.setupCancelled = false
		testCtx.originalContent = ""
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		// Cleanup temp directory
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		testCtx.tempDir = ""
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, testCtx.noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, testCtx.aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with inputs:$`, testCtx.iRunTheSetupCommandWithInputs)
	ctx.Step(`^I run the setup command expecting failure with inputs:$`, testCtx.iRunTheSetupCommandExpectingFailure)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, testCtx.iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^a config file should exist$`, testCtx.aConfigFileShouldExist)
	ctx.Step(`^no config file should exist$`, testCtx.noConfigFileShouldExist)
	ctx.Step(`^the config should have sampling interval ([\d.]+)$`, testCtx.theConfigShouldHaveSamplingInterval)
	ctx.Step(`^the config should have max frames (\d+)$`, testCtx.theConfigShouldHaveMaxFrames)
	ctx.Step(`^the config should have instruction "([^"]*)"$`, testCtx.theConfigShouldHaveInstruction)
	ctx.Step(`^the config should have verify token "([^"]*)"$`, testCtx.theConfigShouldHaveVerifyToken)
	ctx.Step(`^the config should have port "([^"]*)"$`, testCtx.theConfigShouldHavePort)
	ctx.Step(`^the setup should fail with "([^"]*)"$`, testCtx.theSetupShouldFailWith)
	ctx.Step(`^the setup should be cancelled$`, testCtx.theSetupShouldBeCancelled)
	ctx.Step(`^the existing config should be unchanged$`, testCtx.theExistingConfigShouldBeUnchanged)
}

func (s *setupContext) noConfigFileExistsForSetup() error {
	// Just ensure the config path directory exists but no config file
	return os.MkdirAll(filepath.Dir(s.configPath), 0755)
}

func (s *setupContext) aConfigFileAlreadyExistsForSetup() error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}

	content := `summary:
  instruction: "Original instruction"
  sampling_interval: 3
server:
  port: "9000"
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

// parseInputTable sorts answers into the prompter's three queues by prompt name
func parseInputTable(table *godog.Table) (inputs, secrets []string, confirms []bool) {
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		prompt := strings.ToLower(row.Cells[0].Value)
		value := row.Cells[1].Value

		switch {
		case strings.HasPrefix(prompt, "configure"):
			confirms = append(confirms, strings.ToLower(value) == "y")
		case strings.Contains(prompt, "key"), strings.Contains(prompt, "token"), strings.Contains(prompt, "secret"):
			secrets = append(secrets, value)
		default:
			inputs = append(inputs, value)
		}
	}
	return inputs, secrets, confirms
}

func (s *setupContext) iRunTheSetupCommandWithInputs(table *godog.Table) error {
	inputs, secrets, confirms := parseInputTable(table)
	prompter := NewMockPrompter(inputs, secrets, confirms)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, s.output)
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	return nil
}

func (s *setupContext) iRunTheSetupCommandExpectingFailure(table *godog.Table) error {
	inputs, secrets, confirms := parseInputTable(table)
	prompter := NewMockPrompter(inputs, secrets, confirms)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, s.output)
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmation(confirmation string) error {
	confirm := strings.ToLower(confirmation) == "y"
	prompter := NewMockPrompter(nil, nil, []bool{confirm})

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, s.output)
	if !confirm {
		s.setupCancelled = true
	}
	return nil
}

func (s *setupContext) aConfigFileShouldExist() error {
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) noConfigFileShouldExist() error {
	if _, err := os.Stat(s.configPath); err == nil {
		return fmt.Errorf("expected no config file at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) load() (*config.Config, error) {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (s *setupContext) theConfigShouldHaveSamplingInterval(expected float64) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Summary.SamplingInterval != expected {
		return fmt.Errorf("expected sampling_interval %v, got %v", expected, cfg.Summary.SamplingInterval)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveMaxFrames(expected int) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Summary.MaxFrames != expected {
		return fmt.Errorf("expected max_frames %d, got %d", expected, cfg.Summary.MaxFrames)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveInstruction(expected string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Summary.Instruction != expected {
		return fmt.Errorf("expected instruction %q, got %q", expected, cfg.Summary.Instruction)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveVerifyToken(expected string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Instagram.VerifyToken != expected {
		return fmt.Errorf("expected verify_token %q, got %q", expected, cfg.Instagram.VerifyToken)
	}
	return nil
}

func (s *setupContext) theConfigShouldHavePort(expected string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Server.Port != expected {
		return fmt.Errorf("expected port %q, got %q", expected, cfg.Server.Port)
	}
	return nil
}

func (s *setupContext) theSetupShouldFailWith(text string) error {
	if s.err == nil {
		return fmt.Errorf("expected setup to fail")
	}
	if !strings.Contains(s.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got: %v", text, s.err)
	}
	return nil
}

func (s *setupContext) theSetupShouldBeCancelled() error {
	if !s.setupCancelled {
		return fmt.Errorf("expected setup to be cancelled")
	}
	if !strings.Contains(s.output.String(), "Setup cancelled.") {
		return fmt.Errorf("expected cancellation message, got %q", s.output.String())
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config content was changed")
	}
	return nil
}
