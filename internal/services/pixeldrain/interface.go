package pixeldrain

import "github.com/ochronus/gopixeldrain/internal/progress"

// ClientAPI defines the methods required to interact with pixeldrain.
// It mirrors the concrete client so it can be mocked in tests.
type ClientAPI interface {
	Upload(filePath string, sink progress.Sink) (*UploadResult, error)
	Download(fileID, destDir string, force bool, sink progress.Sink) (*DownloadResult, error)
	Info(fileID string) (*FileInfo, error)
	UserFiles() (*UserFilesResponse, error)
}
