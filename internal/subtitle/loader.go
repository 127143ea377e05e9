package subtitle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/shapedtime/cuewords/internal/catalog"
	"github.com/shapedtime/cuewords/internal/common"
)

const defaultHTTPTimeout = 30 * time.Second

// maxSubtitleSize bounds a single subtitle download.
const maxSubtitleSize = 16 << 20

// FileLoader reads S{ss}E{ee}.{ext} from a directory.
type FileLoader struct {
	fsys fs.FS
	ext  string
}

// NewFileLoader creates a loader over fsys, usually os.DirFS(dir).
func NewFileLoader(fsys fs.FS, ext string) *FileLoader {
	if ext == "" {
		ext = catalog.DefaultExtension
	}
	return &FileLoader{fsys: fsys, ext: ext}
}

// Load reads the episode's file.
func (l *FileLoader) Load(ctx context.Context, sel catalog.Selection) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	name := sel.FileName(l.ext)
	data, err := fs.ReadFile(l.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrTransport, name, err)
	}
	return data, nil
}

// HTTPLoader fetches <base>/subtitles/S{ss}E{ee}.{ext} with one GET.
type HTTPLoader struct {
	baseURL    string
	ext        string
	maxBytes   int64
	httpClient *http.Client
}

// NewHTTPLoader creates a loader for a server rooted at baseURL.
func NewHTTPLoader(baseURL, ext string) *HTTPLoader {
	if ext == "" {
		ext = catalog.DefaultExtension
	}
	return &HTTPLoader{
		baseURL:  baseURL,
		ext:      ext,
		maxBytes: maxSubtitleSize,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

// Load performs the GET. 404 maps to ErrNotFound.
func (l *HTTPLoader) Load(ctx context.Context, sel catalog.Selection) ([]byte, error) {
	endpoint := common.JoinURL(l.baseURL, sel.Path(l.ext))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrTransport, err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, endpoint)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrTransport, endpoint, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrTransport, err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrTransport, endpoint, l.maxBytes)
	}
	return data, nil
}
