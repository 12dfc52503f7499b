package app

import (
	"testing"

	"github.com/ochronus/gopixeldrain/internal/config"
	"github.com/ochronus/gopixeldrain/internal/progress"
	"github.com/ochronus/gopixeldrain/internal/services/pixeldrain"
	"github.com/sirupsen/logrus"
)

type stubClient struct{}

func (stubClient) Upload(string, progress.Sink) (*pixeldrain.UploadResult, error) {
	return nil, nil
}
func (stubClient) Download(string, string, bool, progress.Sink) (*pixeldrain.DownloadResult, error) {
	return nil, nil
}
func (stubClient) Info(string) (*pixeldrain.FileInfo, error) { return nil, nil }
func (stubClient) UserFiles() (*pixeldrain.UserFilesResponse, error) { return nil, nil }

func TestNewContainer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.APIKey = "test-key"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if container.Client == nil {
		t.Error("expected default client")
	}
	if container.Logger == nil {
		t.Error("expected default logger")
	}
	if !container.Credentials.Present() {
		t.Error("expected credentials derived from config")
	}
}

func TestNewContainerNilConfig(t *testing.T) {
	if _, err := NewContainer(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestWithClient(t *testing.T) {
	container, err := NewContainer(config.DefaultConfig(), WithClient(stubClient{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := container.Client.(stubClient); !ok {
		t.Error("expected injected client")
	}
}

func TestWithClientNil(t *testing.T) {
	if _, err := NewContainer(config.DefaultConfig(), WithClient(nil)); err == nil {
		t.Error("expected error for nil client")
	}
}

func TestWithLogger(t *testing.T) {
	logger := logrus.New()
	container, err := NewContainer(config.DefaultConfig(), WithLogger(logger))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if container.Logger != logger {
		t.Error("expected injected logger")
	}
}

func TestDefaultLoggerLevel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Loglevel = "debug"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if container.Logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %v", container.Logger.GetLevel())
	}
}
