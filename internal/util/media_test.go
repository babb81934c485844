package util

import (
	"testing"

	"course_edu_backend/internal/model"
)

func TestObjectKeyFromRefImage(t *testing.T) {
	key, err := ObjectKeyFromRef(model.MediaImage, "http://cdn.example.com/contents/pic.png?v=3")
	if err != nil {
		t.Fatalf("parse image ref: %v", err)
	}
	if key != "contents/pic.png" {
		t.Fatalf("expected path component, got %q", key)
	}
}

func TestObjectKeyFromRefVideo(t *testing.T) {
	key, err := ObjectKeyFromRef(model.MediaVideo, "videos/abc/hls/index.m3u8")
	if err != nil {
		t.Fatalf("parse video ref: %v", err)
	}
	if key != "videos/abc/hls/index.m3u8" {
		t.Fatalf("video ref must be the key itself, got %q", key)
	}
}

func TestObjectKeyFromRefText(t *testing.T) {
	key, err := ObjectKeyFromRef(model.MediaText, "whatever")
	if err != nil {
		t.Fatalf("text ref: %v", err)
	}
	if key != "" {
		t.Fatalf("text content has no object key, got %q", key)
	}
}

func TestIsStreamManifest(t *testing.T) {
	if !IsStreamManifest("videos/abc/hls/index.m3u8") {
		t.Fatal("m3u8 key should be a manifest")
	}
	if IsStreamManifest("videos/abc/raw.mp4") {
		t.Fatal("mp4 key is not a manifest")
	}
}

func TestDirectoryPrefix(t *testing.T) {
	if got := DirectoryPrefix("videos/abc/hls/index.m3u8"); got != "videos/abc/hls/" {
		t.Fatalf("expected directory prefix with trailing slash, got %q", got)
	}
	if got := DirectoryPrefix("index.m3u8"); got != "" {
		t.Fatalf("top-level key has no prefix, got %q", got)
	}
}
