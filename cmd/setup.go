package cmd

import (
	"fmt"
	"os"
	"strconv"

	"reel-digest/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Secret(message string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Secret(message string) (string, error) {
	result := ""
	prompt := &survey.Password{
		Message: message,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through the summary settings, the Gemini API key,
and the Instagram tokens the webhook server needs. Secrets can be left
empty here and supplied through the environment or a .env file instead.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath
	}
	return RunSetupWithPrompter(DefaultPrompter, path, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to reel-digest setup!")
	fmt.Fprintln(out)

	cfg := &config.Config{}

	if err := promptSummary(prompter, cfg); err != nil {
		return err
	}

	if err := promptGemini(prompter, cfg); err != nil {
		return err
	}

	if err := promptInstagram(prompter, cfg); err != nil {
		return err
	}

	if err := promptServer(prompter, cfg); err != nil {
		return err
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptSummary(prompter Prompter, cfg *config.Config) error {
	instruction, err := prompter.Input("Instruction sent to the model?", config.DefaultInstruction)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if instruction == "" {
		instruction = config.DefaultInstruction
	}
	cfg.Summary.Instruction = instruction

	defaultInterval := strconv.FormatFloat(config.DefaultSamplingInterval, 'g', -1, 64)
	interval, err := prompter.Input("Seconds between sampled frames?", defaultInterval)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if interval == "" {
		interval = defaultInterval
	}
	seconds, err := strconv.ParseFloat(interval, 64)
	if err != nil || seconds <= 0 {
		return fmt.Errorf("sampling interval must be a positive number, got %q", interval)
	}
	cfg.Summary.SamplingInterval = seconds

	maxFrames, err := prompter.Input("Maximum frames per video (0 for no limit)?", "0")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if maxFrames == "" {
		maxFrames = "0"
	}
	n, err := strconv.Atoi(maxFrames)
	if err != nil || n < 0 {
		return fmt.Errorf("max frames must be a non-negative whole number, got %q", maxFrames)
	}
	cfg.Summary.MaxFrames = n

	bitrate, err := prompter.Input("Audio bitrate for mp3 extraction?", config.DefaultBitrate)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if bitrate == "" {
		bitrate = config.DefaultBitrate
	}
	cfg.Audio.Bitrate = bitrate

	return nil
}

func promptGemini(prompter Prompter, cfg *config.Config) error {
	model, err := prompter.Input("Gemini model?", config.DefaultGeminiModel)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if model == "" {
		model = config.DefaultGeminiModel
	}
	cfg.Gemini.Model = model

	key, err := prompter.Secret("Gemini API key (leave empty to use GOOGLE_API_KEY)?")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Gemini.APIKey = key

	return nil
}

func promptInstagram(prompter Prompter, cfg *config.Config) error {
	configure, err := prompter.Confirm("Configure Instagram webhook tokens now?", true)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if !configure {
		return nil
	}

	token, err := prompter.Secret("Page access token?")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Instagram.PageAccessToken = token

	verify, err := prompter.Secret("Webhook verify token?")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Instagram.VerifyToken = verify

	secret, err := prompter.Secret("App secret for signature checks (optional)?")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Instagram.AppSecret = secret

	return nil
}

func promptServer(prompter Prompter, cfg *config.Config) error {
	port, err := prompter.Input("Port for the webhook server?", config.DefaultPort)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if port == "" {
		port = config.DefaultPort
	}
	if _, err := strconv.Atoi(port); err != nil {
		return fmt.Errorf("port must be a number, got %q", port)
	}
	cfg.Server.Port = port
	return nil
}
