package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// mockRunner records invocations and answers them from canned responses
type mockRunner struct {
	calls     [][]string
	probeJSON string
	probeErr  error
	frame     []byte
	frameErr  error
	failAt    string  // -ss value that should fail
	blankFrom float64 // seeks at or past this second yield no image
	runErr    error
	writeOut  bool // create a non-empty file at the last argument on Run
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.runErr != nil {
		return m.runErr
	}
	if m.writeOut && len(args) > 0 {
		return os.WriteFile(args[len(args)-1], []byte("ID3audio"), 0644)
	}
	return nil
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if strings.HasSuffix(name, "ffprobe") {
		if m.probeErr != nil {
			return nil, m.probeErr
		}
		return []byte(m.probeJSON), nil
	}
	if m.frameErr != nil && m.failAt != "" && argValue(args, "-ss") == m.failAt {
		return nil, m.frameErr
	}
	if m.blankFrom > 0 && seekSeconds(argValue(args, "-ss")) >= m.blankFrom {
		return nil, nil
	}
	return m.frame, nil
}

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func seekSeconds(v string) float64 {
	var h, m int
	var s float64
	if _, err := fmt.Sscanf(v, "%d:%d:%f", &h, &m, &s); err != nil {
		return -1
	}
	return float64(h*3600+m*60) + s
}

func (m *mockRunner) callsTo(name string) [][]string {
	var out [][]string
	for _, c := range m.calls {
		if c[0] == name {
			out = append(out, c)
		}
	}
	return out
}

func probeJSON(duration string, streams ...string) string {
	parts := make([]string, 0, len(streams))
	for _, s := range streams {
		parts = append(parts, `{"codec_type":"`+s+`"}`)
	}
	return `{"format":{"duration":"` + duration + `"},"streams":[` + strings.Join(parts, ",") + `]}`
}

var testPNG = append(append([]byte{}, pngMagic...), []byte("IHDRdata")...)
