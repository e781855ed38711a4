package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"reel-digest/domain/summary"
	"reel-digest/domain/video"
)

// mockGenAIService is a mock implementation for testing
type mockGenAIService struct {
	gotModel    string
	gotContents []*genai.Content
	response    *genai.GenerateContentResponse
	tokens      int32
	err         error
}

func (m *mockGenAIService) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.gotModel = model
	m.gotContents = contents
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockGenAIService) CountTokens(ctx context.Context, model string, contents []*genai.Content, config *genai.CountTokensConfig) (*genai.CountTokensResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &genai.CountTokensResponse{TotalTokens: m.tokens}, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

func newRequest(t *testing.T, frames int, withAudio bool) *summary.Request {
	t.Helper()
	var fs []video.FrameSample
	for i := 0; i < frames; i++ {
		fs = append(fs, video.FrameSample{Timestamp: float64(2 * i), Image: []byte{byte(i)}, MimeType: video.FrameMimeType})
	}
	var audio *summary.AudioClip
	if withAudio {
		audio = &summary.AudioClip{Data: []byte("mp3"), MimeType: video.AudioMimeType}
	}
	req, err := summary.NewRequest("Summarize this video under 100 words", fs, audio)
	require.NoError(t, err)
	return req
}

func TestBuildContents_Order(t *testing.T) {
	contents := BuildContents(newRequest(t, 5, true))

	require.Len(t, contents, 1)
	assert.Equal(t, genai.RoleUser, contents[0].Role)

	parts := contents[0].Parts
	require.Len(t, parts, 7)
	assert.Equal(t, "Summarize this video under 100 words", parts[0].Text)
	for i := 1; i <= 5; i++ {
		require.NotNil(t, parts[i].InlineData)
		assert.Equal(t, "image/png", parts[i].InlineData.MIMEType)
		assert.Equal(t, []byte{byte(i - 1)}, parts[i].InlineData.Data)
	}
	require.NotNil(t, parts[6].InlineData)
	assert.Equal(t, "audio/mpeg", parts[6].InlineData.MIMEType)
}

func TestBuildContents_AudioOnly(t *testing.T) {
	parts := BuildContents(newRequest(t, 0, true))[0].Parts

	require.Len(t, parts, 2)
	assert.Equal(t, "audio/mpeg", parts[1].InlineData.MIMEType)
}

func TestClient_Generate(t *testing.T) {
	mock := &mockGenAIService{response: textResponse("Two friends bake bread.")}
	client := NewClient(mock, WithModel("gemini-test"))

	text, err := client.Generate(context.Background(), newRequest(t, 2, false))

	require.NoError(t, err)
	assert.Equal(t, "Two friends bake bread.", text)
	assert.Equal(t, "gemini-test", mock.gotModel)
	require.Len(t, mock.gotContents, 1)
	assert.Len(t, mock.gotContents[0].Parts, 3)
}

func TestClient_GenerateErrors(t *testing.T) {
	tests := []struct {
		name         string
		mock         *mockGenAIService
		wantRejected bool
		wantEmpty    bool
	}{
		{
			name:         "bad request is rejected",
			mock:         &mockGenAIService{err: genai.APIError{Code: 400, Message: "invalid argument"}},
			wantRejected: true,
		},
		{
			name: "server error is transient",
			mock: &mockGenAIService{err: genai.APIError{Code: 503, Message: "overloaded"}},
		},
		{
			name: "network error is transient",
			mock: &mockGenAIService{err: errors.New("connection reset")},
		},
		{
			name:      "no candidates",
			mock:      &mockGenAIService{response: &genai.GenerateContentResponse{}},
			wantEmpty: true,
		},
		{
			name: "blocked prompt",
			mock: &mockGenAIService{response: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			}},
			wantRejected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.mock)

			_, err := client.Generate(context.Background(), newRequest(t, 1, false))

			require.Error(t, err)
			assert.Equal(t, tt.wantRejected, errors.Is(err, summary.ErrRejected))
			assert.Equal(t, tt.wantEmpty, errors.Is(err, summary.ErrEmptyResponse))
		})
	}
}

func TestClient_CountTokens(t *testing.T) {
	client := NewClient(&mockGenAIService{tokens: 1290})

	n, err := client.CountTokens(context.Background(), newRequest(t, 3, true))

	require.NoError(t, err)
	assert.Equal(t, 1290, n)
	assert.Equal(t, DefaultModel, client.Model())
}
