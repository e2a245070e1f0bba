// Package kaggle downloads datasets from the Kaggle API into a local data
// directory. The rest of the system consumes only the resolved file paths
// it returns.
package kaggle

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// defaultBaseURL is the Kaggle public API root.
const defaultBaseURL = "https://www.kaggle.com/api/v1"

// csvExtensions are the dataset file extensions ListFiles reports,
// compressed variants included.
var csvExtensions = []string{".csv", ".csv.gz", ".csv.bz2", ".csv.xz", ".csv.zst"}

// Client downloads and unpacks Kaggle datasets.
type Client struct {
	baseURL    string
	username   string
	key        string
	dataDir    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCredentials sets the API username and key. When unset, the
// KAGGLE_USERNAME and KAGGLE_KEY environment variables are used.
func WithCredentials(username, key string) Option {
	return func(c *Client) {
		c.username = username
		c.key = key
	}
}

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client that stores datasets under dataDir.
func NewClient(dataDir string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		username:   os.Getenv("KAGGLE_USERNAME"),
		key:        os.Getenv("KAGGLE_KEY"),
		dataDir:    dataDir,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DownloadDataset downloads the dataset named "owner/slug", unzips it under
// the data directory and returns the dataset directory path.
func (c *Client) DownloadDataset(ctx context.Context, name string) (string, error) {
	owner, slug, ok := strings.Cut(name, "/")
	if !ok || owner == "" || slug == "" {
		return "", fmt.Errorf("dataset name must be owner/slug, got %q", name)
	}

	datasetDir := filepath.Join(c.dataDir, slug)
	if err := os.MkdirAll(datasetDir, 0o750); err != nil {
		return "", fmt.Errorf("create dataset directory: %w", err)
	}

	c.logger.Info("downloading dataset", zap.String("dataset", name))

	archivePath, err := c.fetchArchive(ctx, name, datasetDir)
	if err != nil {
		c.logger.Error("dataset download failed", zap.String("dataset", name), zap.Error(err))
		return "", err
	}
	defer func() {
		_ = os.Remove(archivePath)
	}()

	if err := unzip(archivePath, datasetDir); err != nil {
		c.logger.Error("dataset unpack failed", zap.String("dataset", name), zap.Error(err))
		return "", err
	}

	c.logger.Info("dataset downloaded", zap.String("dataset", name), zap.String("dir", datasetDir))
	return datasetDir, nil
}

// ListFiles returns the CSV files (compressed variants included) directly
// under dir, sorted by name.
func (c *Client) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list dataset files: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		for _, ext := range csvExtensions {
			if strings.HasSuffix(name, ext) {
				files = append(files, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// fetchArchive downloads the dataset archive into destDir and returns its
// path.
func (c *Client) fetchArchive(ctx context.Context, name, destDir string) (string, error) {
	url := fmt.Sprintf("%s/datasets/download/%s", c.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download dataset %s: %w", name, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download dataset %s: unexpected status %s", name, resp.Status)
	}

	archivePath := filepath.Join(destDir, "dataset.zip")
	out, err := os.Create(archivePath) //nolint:gosec // Path is built from our own data dir.
	if err != nil {
		return "", fmt.Errorf("create archive file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("save archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close archive file: %w", err)
	}
	return archivePath, nil
}

// unzip extracts archivePath into destDir, refusing entries that would
// escape it.
func unzip(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() {
		_ = zr.Close()
	}()

	for _, entry := range zr.File {
		target := filepath.Join(destDir, filepath.Clean(entry.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes destination", entry.Name)
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o750); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return fmt.Errorf("create directory for %s: %w", target, err)
		}
		if err := extractFile(entry, target); err != nil {
			return err
		}
	}
	return nil
}

// extractFile writes one archive entry to target.
func extractFile(entry *zip.File, target string) error {
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", entry.Name, err)
	}
	defer func() {
		_ = src.Close()
	}()

	dst, err := os.Create(target) //nolint:gosec // Target is validated against the destination dir.
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(dst, src); err != nil { //nolint:gosec // Dataset archives are caller-chosen.
		_ = dst.Close()
		return fmt.Errorf("extract %s: %w", entry.Name, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close %s: %w", target, err)
	}
	return nil
}

// ErrNoCredentials is returned by Verify when no API credentials are set.
var ErrNoCredentials = errors.New("kaggle: no API credentials configured")

// Verify reports whether the client has credentials to authenticate with.
func (c *Client) Verify() error {
	if c.username == "" || c.key == "" {
		return ErrNoCredentials
	}
	return nil
}
