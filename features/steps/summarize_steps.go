//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	appsummary "reel-digest/application/summary"
	"reel-digest/cmd"
	"reel-digest/domain/summary"
	"reel-digest/domain/video"
	"reel-digest/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

// summarizeContext holds test state for summarize scenarios
type summarizeContext struct {
	tempDir   string
	media     *fakeMedia
	model     *mockModel
	maxFrames int
	output    *bytes.Buffer
	err       error
}

// SharedSummarizeContext is reset before each scenario via Before hook
var SharedSummarizeContext *summarizeContext

func getSummarizeContext() *summarizeContext {
	return SharedSummarizeContext
}

func InitializeSummarizeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "summarize-test-*")
		if err != nil {
			return c, err
		}
		SharedSummarizeContext = &summarizeContext{
			tempDir: tempDir,
			media:   newFakeMedia(tempDir),
			model:   &mockModel{},
			output:  &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if s := SharedSummarizeContext; s != nil && s.tempDir != "" {
			os.RemoveAll(s.tempDir)
		}
		SharedSummarizeContext = nil
		return c, nil
	})

	ctx.Step(`^the model answers "([^"]*)"$`, theModelAnswers)
	ctx.Step(`^the model fails with "([^"]*)"$`, theModelFailsWith)
	ctx.Step(`^the frame limit is (\d+)$`, theFrameLimitIs)
	ctx.Step(`^a (\d+) second video with audio at "([^"]*)"$`, aVideoWithAudioAt)
	ctx.Step(`^a (\d+) second video without audio at "([^"]*)"$`, aVideoWithoutAudioAt)
	ctx.Step(`^an undecodable video with audio at "([^"]*)"$`, anUndecodableVideoWithAudioAt)
	ctx.Step(`^an undecodable video without audio at "([^"]*)"$`, anUndecodableVideoWithoutAudioAt)
	ctx.Step(`^the video at "([^"]*)" cannot be downloaded$`, theVideoCannotBeDownloaded)
	ctx.Step(`^I summarize "([^"]*)" every ([\d.]+) seconds$`, iSummarizeEvery)
	ctx.Step(`^the summary should be "([^"]*)"$`, theSummaryShouldBe)
	ctx.Step(`^the summarize command should fail$`, theSummarizeCommandShouldFail)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^the model should have received frames at:$`, theModelShouldHaveReceivedFramesAt)
	ctx.Step(`^the model request should include audio$`, theModelRequestShouldIncludeAudio)
	ctx.Step(`^the model request should not include audio$`, theModelRequestShouldNotIncludeAudio)
	ctx.Step(`^the model request should have (\d+) media parts$`, theModelRequestShouldHaveMediaParts)
	ctx.Step(`^the model should not have been called$`, theModelShouldNotHaveBeenCalled)
	ctx.Step(`^no temporary files should remain$`, noTemporaryFilesShouldRemain)
}

func theModelAnswers(text string) error {
	getSummarizeContext().model.text = text
	return nil
}

func theModelFailsWith(message string) error {
	getSummarizeContext().model.err = errors.New(message)
	return nil
}

func theFrameLimitIs(n int) error {
	getSummarizeContext().maxFrames = n
	return nil
}

func aVideoWithAudioAt(seconds int, url string) error {
	getSummarizeContext().media.videos[url] = fakeVideo{duration: float64(seconds), hasAudio: true, decodable: true}
	return nil
}

func aVideoWithoutAudioAt(seconds int, url string) error {
	getSummarizeContext().media.videos[url] = fakeVideo{duration: float64(seconds), decodable: true}
	return nil
}

func anUndecodableVideoWithAudioAt(url string) error {
	getSummarizeContext().media.videos[url] = fakeVideo{hasAudio: true}
	return nil
}

func anUndecodableVideoWithoutAudioAt(url string) error {
	getSummarizeContext().media.videos[url] = fakeVideo{}
	return nil
}

func theVideoCannotBeDownloaded(url string) error {
	getSummarizeContext().media.videos[url] = fakeVideo{unreachable: true}
	return nil
}

func iSummarizeEvery(url string, interval string) error {
	s := getSummarizeContext()

	seconds, err := strconv.ParseFloat(interval, 64)
	if err != nil {
		return fmt.Errorf("invalid interval %q: %w", interval, err)
	}

	svc := appsummary.NewService(
		s.media,
		s.media,
		s.media,
		filesystem.NewTempFiles(),
		appsummary.NewRequester(s.model),
		appsummary.WithMaxFrames(s.maxFrames),
	)

	s.err = cmd.RunSummarizeWithDependencies(
		context.Background(),
		svc,
		summary.Input{VideoURL: url, SamplingInterval: seconds},
		s.output,
	)
	return nil
}

func theSummaryShouldBe(expected string) error {
	s := getSummarizeContext()
	if s.err != nil {
		return fmt.Errorf("unexpected error: %v", s.err)
	}
	got := strings.TrimSpace(s.output.String())
	if got != expected {
		return fmt.Errorf("expected summary %q, got %q", expected, got)
	}
	return nil
}

func theSummarizeCommandShouldFail() error {
	if getSummarizeContext().err == nil {
		return fmt.Errorf("expected the summarize command to fail")
	}
	return nil
}

func theOutputShouldContain(text string) error {
	s := getSummarizeContext()
	if !strings.Contains(s.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got %q", text, s.output.String())
	}
	return nil
}

func lastRequest() (*summary.Request, error) {
	s := getSummarizeContext()
	if s.model.lastReq == nil {
		return nil, fmt.Errorf("the model was not called")
	}
	return s.model.lastReq, nil
}

func theModelShouldHaveReceivedFramesAt(table *godog.Table) error {
	req, err := lastRequest()
	if err != nil {
		return err
	}

	var expected []float64
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		v, err := strconv.ParseFloat(row.Cells[0].Value, 64)
		if err != nil {
			return err
		}
		expected = append(expected, v)
	}

	got := video.Timestamps(req.Frames())
	if len(got) != len(expected) {
		return fmt.Errorf("expected frames at %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			return fmt.Errorf("expected frames at %v, got %v", expected, got)
		}
	}
	return nil
}

func theModelRequestShouldIncludeAudio() error {
	req, err := lastRequest()
	if err != nil {
		return err
	}
	if !req.HasAudio() {
		return fmt.Errorf("expected the request to include audio")
	}
	return nil
}

func theModelRequestShouldNotIncludeAudio() error {
	req, err := lastRequest()
	if err != nil {
		return err
	}
	if req.HasAudio() {
		return fmt.Errorf("expected the request to have no audio")
	}
	return nil
}

func theModelRequestShouldHaveMediaParts(n int) error {
	req, err := lastRequest()
	if err != nil {
		return err
	}
	if req.MediaParts() != n {
		return fmt.Errorf("expected %d media parts, got %d", n, req.MediaParts())
	}
	return nil
}

func theModelShouldNotHaveBeenCalled() error {
	if calls := getSummarizeContext().model.calls; calls != 0 {
		return fmt.Errorf("expected no model calls, got %d", calls)
	}
	return nil
}

func noTemporaryFilesShouldRemain() error {
	s := getSummarizeContext()
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		return fmt.Errorf("expected no temporary files, found %v", names)
	}
	return nil
}
