package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// fakeVisionAgent returns a canned rhyme or error.
type fakeVisionAgent struct {
	text string
	err  error
}

func (f *fakeVisionAgent) GenerateVisionText(ctx context.Context, query, themes string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeVisionAgent) GenerateImageDescription(ctx context.Context, visionText string) string {
	return "dreamlike painting of: " + visionText
}

const testRhyme = "Upon the waves a future gleams,\nthe storm at sea dissolves to dreams."

// TestPipeline_Success runs the full two-stage flow and checks the contract.
func TestPipeline_Success(t *testing.T) {
	tool := NewVisionImageTool(&fakeImageAgent{img: pngImage()}, &fakePublisher{record: visionRecord()})
	p := NewPipeline(&fakeVisionAgent{text: testRhyme}, tool)

	var stages []string
	res, err := p.Run(context.Background(), "a storm at sea", func(stage string) {
		stages = append(stages, stage)
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.Response.VisionText != testRhyme {
		t.Errorf("vision_text %q", res.Response.VisionText)
	}
	if res.Response.ImageURL != visionRecord().URL {
		t.Errorf("image_url %q", res.Response.ImageURL)
	}
	if res.Tool.Status != StatusSuccess {
		t.Errorf("tool status %q", res.Tool.Status)
	}
	if res.Themes == "" {
		t.Error("themes missing")
	}
	want := []string{StageGenerating, StageFormatting}
	if len(stages) != 2 || stages[0] != want[0] || stages[1] != want[1] {
		t.Errorf("stages %v, want %v", stages, want)
	}
}

// TestPipeline_ToolFailureDegrades asserts a failed image tool still yields a
// well-formed two-field response with an empty image_url.
func TestPipeline_ToolFailureDegrades(t *testing.T) {
	tool := NewVisionImageTool(&fakeImageAgent{err: fmt.Errorf("transient fault")}, &fakePublisher{record: visionRecord()})
	p := NewPipeline(&fakeVisionAgent{text: testRhyme}, tool)

	res, err := p.Run(context.Background(), "a storm at sea", nil)
	if err != nil {
		t.Fatalf("run must not fail on tool error: %v", err)
	}

	if res.Response.VisionText != testRhyme {
		t.Errorf("vision_text %q", res.Response.VisionText)
	}
	if res.Response.ImageURL != "" {
		t.Errorf("image_url should be empty, got %q", res.Response.ImageURL)
	}
	if res.Tool.Status != StatusError {
		t.Errorf("tool status %q", res.Tool.Status)
	}
}

// TestPipeline_VisionFailure asserts a failed vision text fails the run.
func TestPipeline_VisionFailure(t *testing.T) {
	tool := NewVisionImageTool(&fakeImageAgent{img: pngImage()}, &fakePublisher{record: visionRecord()})
	p := NewPipeline(&fakeVisionAgent{err: fmt.Errorf("model unavailable")}, tool)

	if _, err := p.Run(context.Background(), "a storm at sea", nil); err == nil {
		t.Fatal("expected error when vision text cannot be generated")
	}
}

// TestResponseContract asserts the serialized response is exactly the
// two-field shape, no extra fields, both fields always present.
func TestResponseContract(t *testing.T) {
	tool := NewVisionImageTool(&fakeImageAgent{err: fmt.Errorf("down")}, &fakePublisher{record: visionRecord()})
	p := NewPipeline(&fakeVisionAgent{text: testRhyme}, tool)

	res, err := p.Run(context.Background(), "what awaits me", nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	raw, err := json.Marshal(res.Response)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(fields) != 2 {
		t.Errorf("expected exactly 2 fields, got %d: %s", len(fields), raw)
	}
	for _, key := range []string{"vision_text", "image_url"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing field %q in %s", key, raw)
		}
	}
}

// TestPickThemes returns two distinct known themes.
func TestPickThemes(t *testing.T) {
	known := make(map[string]bool, len(Themes))
	for _, th := range Themes {
		known[th] = true
	}

	for i := 0; i < 100; i++ {
		picked := strings.Split(PickThemes(), ", ")
		if len(picked) != 2 {
			t.Fatalf("expected two themes, got %v", picked)
		}
		if picked[0] == picked[1] {
			t.Fatalf("themes must be distinct, got %v", picked)
		}
		for _, th := range picked {
			if !known[th] {
				t.Fatalf("unknown theme %q", th)
			}
		}
	}
}

// TestState_SetGet covers the state lifecycle.
func TestState_SetGet(t *testing.T) {
	s := NewState()
	if _, ok := s.Get(StateKeyImageURL); ok {
		t.Error("new state should be empty")
	}
	s.Set(StateKeyImageURL, "https://example.com/x.png")
	got, ok := s.Get(StateKeyImageURL)
	if !ok || got != "https://example.com/x.png" {
		t.Errorf("got %q ok=%v", got, ok)
	}
	if s.Len() != 1 {
		t.Errorf("len %d", s.Len())
	}
}
