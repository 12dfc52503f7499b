package pixeldrain

import (
	"testing"

	"github.com/ochronus/gopixeldrain/internal/progress"
)

// mockClient implements ClientAPI for composition tests.
type mockClient struct {
	downloadResult *DownloadResult
	downloadErr    error
	uploadResult   *UploadResult
	uploadErr      error

	downloadCalls int
	uploadCalls   int
	uploadedPath  string
}

func (m *mockClient) Upload(filePath string, sink progress.Sink) (*UploadResult, error) {
	m.uploadCalls++
	m.uploadedPath = filePath
	return m.uploadResult, m.uploadErr
}

func (m *mockClient) Download(fileID, destDir string, force bool, sink progress.Sink) (*DownloadResult, error) {
	m.downloadCalls++
	return m.downloadResult, m.downloadErr
}

func (m *mockClient) Info(fileID string) (*FileInfo, error) {
	return nil, nil
}

func (m *mockClient) UserFiles() (*UserFilesResponse, error) {
	return nil, nil
}

func TestReupload(t *testing.T) {
	client := &mockClient{
		downloadResult: &DownloadResult{Path: "/tmp/video.mp4", Bytes: 1024},
		uploadResult:   &UploadResult{ID: "newid", URL: "https://pixeldrain.com/u/newid"},
	}

	result, err := Reupload(client, "abc123", "/tmp", false, progress.Nop{}, progress.Nop{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "newid" {
		t.Errorf("expected new id 'newid', got '%s'", result.ID)
	}
	if client.uploadedPath != "/tmp/video.mp4" {
		t.Errorf("expected upload of downloaded path, got '%s'", client.uploadedPath)
	}
	if client.downloadCalls != 1 || client.uploadCalls != 1 {
		t.Errorf("expected one call each, got download=%d upload=%d", client.downloadCalls, client.uploadCalls)
	}
}

func TestReuploadDownloadFailureSkipsUpload(t *testing.T) {
	client := &mockClient{
		downloadErr: &Error{Kind: KindNotFound, StatusCode: 404, Message: "the file could not be found"},
	}

	_, err := Reupload(client, "abc123", "/tmp", false, progress.Nop{}, progress.Nop{})
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindNotFound {
		t.Errorf("expected the download failure verbatim, got %v", KindOf(err))
	}
	if client.uploadCalls != 0 {
		t.Errorf("upload must not be attempted after a failed download, got %d calls", client.uploadCalls)
	}
}

func TestReuploadUploadFailurePropagates(t *testing.T) {
	client := &mockClient{
		downloadResult: &DownloadResult{Path: "/tmp/video.mp4"},
		uploadErr:      &Error{Kind: KindUnauthorized, Message: "an API key is required to upload"},
	}

	_, err := Reupload(client, "abc123", "/tmp", false, progress.Nop{}, progress.Nop{})
	if KindOf(err) != KindUnauthorized {
		t.Errorf("expected KindUnauthorized, got %v", KindOf(err))
	}
}
