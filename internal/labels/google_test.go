package labels

import (
	"context"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	spb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeAnnotator struct {
	req    *visionpb.AnnotateImageRequest
	resp   *visionpb.AnnotateImageResponse
	err    error
	closed bool
}

func (f *fakeAnnotator) AnnotateImage(ctx context.Context, req *visionpb.AnnotateImageRequest, opts ...gax.CallOption) (*visionpb.AnnotateImageResponse, error) {
	f.req = req
	return f.resp, f.err
}

func (f *fakeAnnotator) Close() error {
	f.closed = true
	return nil
}

func TestNewGoogleDetector_MissingCredentials(t *testing.T) {
	_, err := NewGoogleDetector(context.Background(), GoogleConfig{})
	if err == nil {
		t.Fatal("expected error without credentials file")
	}
}

func TestNewGoogleDetector_Defaults(t *testing.T) {
	d := newGoogleDetector(&fakeAnnotator{}, GoogleConfig{})
	if d.maxResults != 10 {
		t.Errorf("expected maxResults 10, got %d", d.maxResults)
	}
	if d.timeout != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v", d.timeout)
	}
}

func TestGoogleDetector_DetectLabels(t *testing.T) {
	f := &fakeAnnotator{resp: &visionpb.AnnotateImageResponse{
		LabelAnnotations: []*visionpb.EntityAnnotation{
			{Description: "Food", Score: 0.97},
			{Description: "Banana", Score: 0.91},
		},
	}}
	d := newGoogleDetector(f, GoogleConfig{MaxResults: 5})

	got, err := d.DetectLabels(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("DetectLabels() error = %v", err)
	}
	if len(got) != 2 || got[0].Description != "Food" || got[1].Score != 0.91 {
		t.Errorf("unexpected labels %+v", got)
	}

	if string(f.req.GetImage().GetContent()) != "img" {
		t.Error("expected raw image bytes in request")
	}
	features := f.req.GetFeatures()
	if len(features) != 1 || features[0].GetType() != visionpb.Feature_LABEL_DETECTION {
		t.Errorf("expected one LABEL_DETECTION feature, got %v", features)
	}
	if features[0].GetMaxResults() != 5 {
		t.Errorf("expected max results 5, got %d", features[0].GetMaxResults())
	}
}

func TestGoogleDetector_DetectLabels_AuthError(t *testing.T) {
	f := &fakeAnnotator{err: status.Error(codes.Unauthenticated, "bad key")}
	d := newGoogleDetector(f, GoogleConfig{})

	_, err := d.DetectLabels(context.Background(), []byte("img"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "vision auth") {
		t.Errorf("expected auth classification, got %v", err)
	}
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("expected wrapped status code, got %v", status.Code(err))
	}
}

func TestGoogleDetector_DetectLabels_ResponseError(t *testing.T) {
	f := &fakeAnnotator{resp: &visionpb.AnnotateImageResponse{
		Error: &spb.Status{Code: int32(codes.InvalidArgument), Message: "bad image data"},
	}}
	d := newGoogleDetector(f, GoogleConfig{})

	_, err := d.DetectLabels(context.Background(), []byte("img"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bad image data") {
		t.Errorf("expected response message in error, got %v", err)
	}
}

func TestGoogleDetector_Close(t *testing.T) {
	f := &fakeAnnotator{}
	d := newGoogleDetector(f, GoogleConfig{})
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !f.closed {
		t.Error("expected client to be closed")
	}
}
