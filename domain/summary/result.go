package summary

import "fmt"

// Outcome classifies how a summarize request ended
type Outcome string

const (
	// OutcomeSummarized means Text holds the model's summary
	OutcomeSummarized Outcome = "summarized"

	// OutcomeDownloadFailed means the video could not be fetched
	OutcomeDownloadFailed Outcome = "download_failed"

	// OutcomeNothingToSummarize means neither frames nor audio could be extracted
	OutcomeNothingToSummarize Outcome = "nothing_to_summarize"

	// OutcomeModelError means the model call failed and Text describes the failure
	OutcomeModelError Outcome = "model_error"
)

// User-facing messages
const (
	MessageProcessing         = "Processing your video, please wait..."
	MessageDownloadFailed     = "Sorry, I couldn't download the video."
	MessageNothingToSummarize = "Could not summarize video: No frames or audio."
	MessageTextReceived       = "Thanks for your message!"
)

// Result is the single outcome of a summarize request.
// Text is always suitable for relaying to the end user.
type Result struct {
	Outcome Outcome
	Text    string
}

// Summarized builds a successful result
func Summarized(text string) Result {
	return Result{Outcome: OutcomeSummarized, Text: text}
}

// DownloadFailed builds the result for an unreachable video
func DownloadFailed() Result {
	return Result{Outcome: OutcomeDownloadFailed, Text: MessageDownloadFailed}
}

// NothingToSummarize builds the result for a video with no usable frames or audio
func NothingToSummarize() Result {
	return Result{Outcome: OutcomeNothingToSummarize, Text: MessageNothingToSummarize}
}

// ModelFailed builds the result for a failed model call
func ModelFailed(err error) Result {
	return Result{
		Outcome: OutcomeModelError,
		Text:    fmt.Sprintf("Could not summarize video: Gemini API error: %v", err),
	}
}

// Failed reports whether the result describes a failure rather than a summary
func (r Result) Failed() bool {
	return r.Outcome != OutcomeSummarized
}
