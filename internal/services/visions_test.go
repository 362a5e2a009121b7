package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/delphi-works/oracle/internal/llm"
	"github.com/delphi-works/oracle/internal/models"
	"github.com/delphi-works/oracle/internal/oracle"
)

type fakeVisionAgent struct{}

func (fakeVisionAgent) GenerateVisionText(ctx context.Context, query, themes string) (string, error) {
	return "The tide will turn, the lanterns burn.", nil
}

func (fakeVisionAgent) GenerateImageDescription(ctx context.Context, visionText string) string {
	return "painting of: " + visionText
}

type fakeImageAgent struct{ err error }

func (f fakeImageAgent) GenerateImage(ctx context.Context, description string) (*llm.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Image{Data: []byte("png"), MimeType: "image/png"}, nil
}

type fakePublisher struct{}

func (fakePublisher) Publish(ctx context.Context, data []byte, contentType string) (*models.PublicationRecord, error) {
	return &models.PublicationRecord{
		Bucket: "proj-oracle-visions",
		Key:    "visions/abc.png",
		URL:    "https://storage.googleapis.com/proj-oracle-visions/visions/abc.png",
	}, nil
}

func testService(imageErr error) *VisionService {
	tool := oracle.NewVisionImageTool(fakeImageAgent{err: imageErr}, fakePublisher{})
	pipeline := oracle.NewPipeline(fakeVisionAgent{}, tool)
	return NewVisionService(pipeline, nil, time.Minute)
}

// TestCreateVision_ValidationErrors covers request validation before any
// pipeline work happens.
func TestCreateVision_ValidationErrors(t *testing.T) {
	svc := testService(nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *models.CreateVisionRequest
		want string
	}{
		{name: "nil request", req: nil, want: "query is required"},
		{name: "empty query", req: &models.CreateVisionRequest{Query: ""}, want: "query is required"},
		{
			name: "query too long",
			req:  &models.CreateVisionRequest{Query: strings.Repeat("q", 2001)},
			want: "at most",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.CreateVision(ctx, tt.req, nil)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.want)
			}
		})
	}
}

// TestCreateVision_Success checks the response and the recorded vision row.
func TestCreateVision_Success(t *testing.T) {
	svc := testService(nil)

	resp, vision, err := svc.CreateVision(context.Background(), &models.CreateVisionRequest{Query: "a storm at sea"}, nil)
	if err != nil {
		t.Fatalf("create vision: %v", err)
	}

	if resp.VisionText == "" {
		t.Error("vision_text empty")
	}
	if !strings.HasPrefix(resp.ImageURL, "https://storage.googleapis.com/proj-oracle-visions/visions/") {
		t.Errorf("image_url %q", resp.ImageURL)
	}
	if vision.Query != "a storm at sea" {
		t.Errorf("query %q", vision.Query)
	}
	if vision.ImageBucket != "proj-oracle-visions" || vision.ImageKey != "visions/abc.png" {
		t.Errorf("publication %q/%q", vision.ImageBucket, vision.ImageKey)
	}
	if vision.Themes == "" {
		t.Error("themes missing")
	}
}

// TestCreateVision_ImageFailureDegrades asserts the response stays well-formed
// with an empty image URL and empty publication columns.
func TestCreateVision_ImageFailureDegrades(t *testing.T) {
	svc := testService(fmt.Errorf("transient fault"))

	resp, vision, err := svc.CreateVision(context.Background(), &models.CreateVisionRequest{Query: "a storm at sea"}, nil)
	if err != nil {
		t.Fatalf("create vision: %v", err)
	}
	if resp.VisionText == "" {
		t.Error("vision_text empty")
	}
	if resp.ImageURL != "" {
		t.Errorf("image_url should be empty, got %q", resp.ImageURL)
	}
	if vision.ImageBucket != "" || vision.ImageKey != "" {
		t.Errorf("publication columns should be empty, got %q/%q", vision.ImageBucket, vision.ImageKey)
	}
}
