package pixeldrain

import "github.com/ochronus/gopixeldrain/internal/progress"

// Reupload downloads a file into workDir and uploads the local copy as a new
// file. If the download does not succeed, the upload is never attempted and
// the download's failure is returned unchanged.
func Reupload(client ClientAPI, fileID, workDir string, force bool, downloadSink, uploadSink progress.Sink) (*UploadResult, error) {
	downloaded, err := client.Download(fileID, workDir, force, downloadSink)
	if err != nil {
		return nil, err
	}

	return client.Upload(downloaded.Path, uploadSink)
}
