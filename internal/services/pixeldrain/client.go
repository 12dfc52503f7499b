package pixeldrain

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ochronus/gopixeldrain/internal/progress"
)

const (
	defaultBaseURL = "https://pixeldrain.com/api"
	viewerBaseURL  = "https://pixeldrain.com/u"
	apiTimeout     = 30 * time.Second

	// maxErrorBody caps how much of an error response body is read for
	// classification.
	maxErrorBody = 1 << 20
)

// ViewerURL returns the shareable page URL for a file identifier.
func ViewerURL(fileID string) string {
	return viewerBaseURL + "/" + fileID
}

// Client is a pixeldrain API client. The API key is optional; without one
// the client is limited to anonymous downloads and info queries.
type Client struct {
	baseURL string
	apiKey  string

	// apiClient serves the small JSON endpoints and carries a timeout.
	// streamClient serves uploads and downloads, whose bodies may take
	// arbitrarily long to transfer.
	apiClient    *http.Client
	streamClient *http.Client
}

var _ ClientAPI = (*Client)(nil)

// NewClient creates a new pixeldrain client. apiKey may be empty for
// anonymous use.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL:      defaultBaseURL,
		apiKey:       apiKey,
		apiClient:    &http.Client{Timeout: apiTimeout},
		streamClient: &http.Client{},
	}
}

// UploadResult is the outcome of a successful upload.
type UploadResult struct {
	ID  string
	URL string
}

// DownloadResult is the outcome of a successful download.
type DownloadResult struct {
	Path  string
	Bytes int64
}

// FileInfo represents pixeldrain file metadata.
type FileInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Size          int64  `json:"size"`
	MimeType      string `json:"mime_type"`
	Views         int64  `json:"views"`
	Downloads     int64  `json:"downloads"`
	BandwidthUsed int64  `json:"bandwidth_used"`
	DateUpload    string `json:"date_upload"`
}

// UserFilesResponse represents the API response for the account file listing.
type UserFilesResponse struct {
	Files []FileInfo `json:"files"`
}

// AccountStats holds aggregates computed from the account file listing.
type AccountStats struct {
	TotalFiles     int
	TotalSize      int64
	TotalViews     int64
	TotalDownloads int64
	TotalBandwidth int64
	TopDownloads   []FileInfo
}

// uploadResponse is the API response body for an upload.
type uploadResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// doRequest executes an HTTP request, attaching basic auth when an API key
// is configured. The pixeldrain API takes the key as the basic-auth password
// with an empty username.
func (c *Client) doRequest(client *http.Client, method, url string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}

	if c.apiKey != "" {
		req.SetBasicAuth("", c.apiKey)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return client.Do(req)
}

// Upload streams a local file to pixeldrain and returns its new identifier
// and shareable URL. An API key is required; the refusal happens before any
// network activity.
func (c *Client) Upload(filePath string, sink progress.Sink) (*UploadResult, error) {
	if c.apiKey == "" {
		return nil, &Error{Kind: KindUnauthorized, Message: "an API key is required to upload"}
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, &Error{Kind: KindLocalIO, Message: "cannot read " + filePath, Err: err}
	}
	if info.IsDir() {
		return nil, &Error{Kind: KindLocalIO, Message: filePath + " is a directory"}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, &Error{Kind: KindLocalIO, Message: "cannot open " + filePath, Err: err}
	}
	defer file.Close()

	sink.Start(info.Size())
	defer sink.Done()

	fileName := filepath.Base(filePath)
	contentType := mime.TypeByExtension(filepath.Ext(fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, &progress.CountingReader{R: file, Sink: sink}); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	resp, err := c.doRequest(c.streamClient, http.MethodPost, c.baseURL+"/file", pr, writer.FormDataContentType())
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, classifyResponse(resp.StatusCode, body, "")
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding upload response: %w", err)
	}
	if !result.Success {
		return nil, &Error{
			Kind:       KindGeneric,
			StatusCode: resp.StatusCode,
			Message:    nonEmpty(result.Message, "upload rejected"),
		}
	}

	return &UploadResult{ID: result.ID, URL: ViewerURL(result.ID)}, nil
}

// Download fetches a file into destDir and returns the local path. The
// destination filename comes from the Content-Disposition header when
// present, else the bare identifier. force appends the ?download parameter,
// which makes the provider respond with attachment disposition.
func (c *Client) Download(fileID, destDir string, force bool, sink progress.Sink) (*DownloadResult, error) {
	url := c.baseURL + "/file/" + fileID
	if force {
		url += "?download"
	}

	resp, err := c.doRequest(c.streamClient, http.MethodGet, url, nil, "")
	if err != nil {
		return nil, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, classifyResponse(resp.StatusCode, body, fileID)
	}

	name := fileID
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if fn := filepath.Base(params["filename"]); fn != "" && fn != "." && fn != string(filepath.Separator) {
				name = fn
			}
		}
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, &Error{Kind: KindLocalIO, Message: "cannot create " + destDir, Err: err}
	}

	destPath := filepath.Join(destDir, name)
	tmpPath := destPath + ".downloading"

	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return nil, &Error{Kind: KindLocalIO, Message: "cannot write " + tmpPath, Err: err}
	}

	sink.Start(resp.ContentLength)
	defer sink.Done()

	written, err := io.Copy(tmpFile, &progress.CountingReader{R: resp.Body, Sink: sink})
	if err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("error streaming download: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, &Error{Kind: KindLocalIO, Message: "cannot finish " + tmpPath, Err: err}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return nil, &Error{Kind: KindLocalIO, Message: "cannot move download into place", Err: err}
	}

	return &DownloadResult{Path: destPath, Bytes: written}, nil
}

// Info retrieves metadata for a file. Works anonymously; credentials are
// attached when configured.
func (c *Client) Info(fileID string) (*FileInfo, error) {
	resp, err := c.doRequest(c.apiClient, http.MethodGet, c.baseURL+"/file/"+fileID+"/info", nil, "")
	if err != nil {
		return nil, fmt.Errorf("info request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, classifyResponse(resp.StatusCode, body, fileID)
	}

	var result FileInfo
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding file info: %w", err)
	}

	return &result, nil
}

// UserFiles lists the files in the authenticated account. An API key is
// required; the refusal happens before any network activity.
func (c *Client) UserFiles() (*UserFilesResponse, error) {
	if c.apiKey == "" {
		return nil, &Error{Kind: KindUnauthorized, Message: "an API key is required to read account statistics"}
	}

	resp, err := c.doRequest(c.apiClient, http.MethodGet, c.baseURL+"/user/files", nil, "")
	if err != nil {
		return nil, fmt.Errorf("stats request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, classifyResponse(resp.StatusCode, body, "")
	}

	var result UserFilesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding account files: %w", err)
	}

	return &result, nil
}

// Stats computes aggregate statistics over the account file listing,
// including the five most-downloaded files.
func (r *UserFilesResponse) Stats() AccountStats {
	stats := AccountStats{TotalFiles: len(r.Files)}
	for _, f := range r.Files {
		stats.TotalSize += f.Size
		stats.TotalViews += f.Views
		stats.TotalDownloads += f.Downloads
		stats.TotalBandwidth += f.BandwidthUsed
	}

	top := make([]FileInfo, len(r.Files))
	copy(top, r.Files)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Downloads > top[j].Downloads
	})
	if len(top) > 5 {
		top = top[:5]
	}
	stats.TopDownloads = top

	return stats
}
