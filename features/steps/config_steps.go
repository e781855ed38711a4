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

type configContext struct {
	tempDir    string
	configPath string
	config     *config.Config
	output     *bytes.Buffer
	err        error
}

var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		// Create temp directory for each scenario
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config.yaml")
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		testCtx.config = nil
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

	ctx.Step(`^a config file with:$`, testCtx.aConfigFileWith)
	ctx.Step(`^I run config show$`, testCtx.iRunConfigShow)
	ctx.Step(`^I run config get "([^"]*)"$`, testCtx.iRunConfigGet)
	ctx.Step(`^I run config set "([^"]*)" to "([^"]*)"$`, testCtx.iRunConfigSet)
	ctx.Step(`^the config output should contain "([^"]*)"$`, testCtx.theConfigOutputShouldContain)
	ctx.Step(`^the config output should not contain "([^"]*)"$`, testCtx.theConfigOutputShouldNotContain)
	ctx.Step(`^the config output should be "([^"]*)"$`, testCtx.theConfigOutputShouldBe)
	ctx.Step(`^the config command should fail with "([^"]*)"$`, testCtx.theConfigCommandShouldFailWith)
	ctx.Step(`^the saved config should have sampling interval ([\d.]+)$`, testCtx.theSavedConfigShouldHaveSamplingInterval)
	ctx.Step(`^the saved config should have download timeout "([^"]*)"$`, testCtx.theSavedConfigShouldHaveDownloadTimeout)
}

func (c *configContext) aConfigFileWith(content *godog.DocString) error {
	if err := os.WriteFile(c.configPath, []byte(content.Content), 0600); err != nil {
		return err
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.config = cfg
	return nil
}

func (c *configContext) effective() *config.Config {
	cfg := *c.config
	cfg.ApplyDefaults()
	return &cfg
}

func (c *configContext) iRunConfigShow() error {
	c.err = cmd.RunConfigShowWithDependencies(c.effective(), c.configPath, c.output)
	return c.err
}

func (c *configContext) iRunConfigGet(key string) error {
	c.err = cmd.RunConfigGetWithDependencies(c.effective(), c.configPath, key, c.output)
	return c.err
}

func (c *configContext) iRunConfigSet(key, value string) error {
	c.err = cmd.RunConfigSetWithDependencies(c.config, c.configPath, key, value, c.output)
	return nil
}

func (c *configContext) theConfigOutputShouldContain(text string) error {
	if !strings.Contains(c.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, c.output.String())
	}
	return nil
}

func (c *configContext) theConfigOutputShouldNotContain(text string) error {
	if strings.Contains(c.output.String(), text) {
		return fmt.Errorf("expected output not to contain %q, got:\n%s", text, c.output.String())
	}
	return nil
}

func (c *configContext) theConfigOutputShouldBe(expected string) error {
	if got := strings.TrimSpace(c.output.String()); got != expected {
		return fmt.Errorf("expected output %q, got %q", expected, got)
	}
	return nil
}

func (c *configContext) theConfigCommandShouldFailWith(text string) error {
	if c.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(strings.ToLower(c.err.Error()), strings.ToLower(text)) {
		return fmt.Errorf("expected error containing %q, got: %v", text, c.err)
	}
	return nil
}

func (c *configContext) theSavedConfigShouldHaveSamplingInterval(expected float64) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Summary.SamplingInterval != expected {
		return fmt.Errorf("expected sampling_interval %v, got %v", expected, cfg.Summary.SamplingInterval)
	}
	return nil
}

func (c *configContext) theSavedConfigShouldHaveDownloadTimeout(expected string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if got := cfg.Download.Timeout.String(); got != expected {
		return fmt.Errorf("expected download timeout %s, got %s", expected, got)
	}
	return nil
}
