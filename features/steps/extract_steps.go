//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"reel-digest/cmd"

	"github.com/cucumber/godog"
)

// mockAudioWriter records calls to ExtractTo for verification
type mockAudioWriter struct {
	calls      []extractCall
	shouldFail bool
	failError  error
}

type extractCall struct {
	videoPath  string
	outputPath string
}

func (m *mockAudioWriter) ExtractTo(ctx context.Context, videoPath, outputPath string) error {
	if m.shouldFail {
		return m.failError
	}
	m.calls = append(m.calls, extractCall{videoPath: videoPath, outputPath: outputPath})
	return nil
}

// extractContext holds test state for extract scenarios
type extractContext struct {
	extractor   *mockAudioWriter
	fileChecker *mockFileChecker
	output      *bytes.Buffer
	err         error
}

// SharedExtractContext is reset before each scenario via Before hook
var SharedExtractContext *extractContext

func getExtractContext() *extractContext {
	return SharedExtractContext
}

func InitializeExtractScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedExtractContext = &extractContext{
			extractor: &mockAudioWriter{},
			fileChecker: &mockFileChecker{
				existingFiles: make(map[string]bool),
			},
			output: &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedExtractContext = nil
		return c, nil
	})

	ctx.Step(`^a local video at "([^"]*)"$`, aLocalVideoAt)
	ctx.Step(`^a file already exists at "([^"]*)"$`, aFileAlreadyExistsAt)
	ctx.Step(`^I extract audio from "([^"]*)"$`, iExtractAudioFrom)
	ctx.Step(`^I extract audio from "([^"]*)" to "([^"]*)"$`, iExtractAudioFromTo)
	ctx.Step(`^audio should have been written to "([^"]*)"$`, audioShouldHaveBeenWrittenTo)
	ctx.Step(`^the extract output should contain "([^"]*)"$`, theExtractOutputShouldContain)
	ctx.Step(`^the extraction should fail with "([^"]*)"$`, theExtractionShouldFailWith)
	ctx.Step(`^no audio should have been written$`, noAudioShouldHaveBeenWritten)
}

func aLocalVideoAt(path string) error {
	getExtractContext().fileChecker.existingFiles[path] = true
	return nil
}

func aFileAlreadyExistsAt(path string) error {
	getExtractContext().fileChecker.existingFiles[path] = true
	return nil
}

func iExtractAudioFrom(source string) error {
	return iExtractAudioFromTo(source, "")
}

func iExtractAudioFromTo(source, output string) error {
	e := getExtractContext()
	e.err = cmd.RunExtractAudioWithDependencies(
		context.Background(),
		e.extractor,
		e.fileChecker,
		source,
		output,
		"128k",
		e.output,
	)
	return nil
}

func audioShouldHaveBeenWrittenTo(path string) error {
	e := getExtractContext()
	if e.err != nil {
		return fmt.Errorf("unexpected error: %v", e.err)
	}
	if len(e.extractor.calls) != 1 {
		return fmt.Errorf("expected 1 extraction, got %d", len(e.extractor.calls))
	}
	if got := e.extractor.calls[0].outputPath; got != path {
		return fmt.Errorf("expected output %q, got %q", path, got)
	}
	return nil
}

func theExtractOutputShouldContain(text string) error {
	e := getExtractContext()
	if !strings.Contains(e.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got %q", text, e.output.String())
	}
	return nil
}

func theExtractionShouldFailWith(text string) error {
	e := getExtractContext()
	if e.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(e.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got: %v", text, e.err)
	}
	return nil
}

func noAudioShouldHaveBeenWritten() error {
	if n := len(getExtractContext().extractor.calls); n != 0 {
		return fmt.Errorf("expected no extraction, got %d", n)
	}
	return nil
}
