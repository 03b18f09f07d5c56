package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/corpustools/corpusprep/internal/entity"
	"github.com/corpustools/corpusprep/internal/util"
)

const (
	progressInterval = time.Second
	defaultChunkSize = 1 << 20
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Downloader fetches remote resources to local paths, at most once per
// destination. The destination file's existence is the cache: a second
// run touches neither the network nor the file.
type Downloader struct {
	fs     afero.Fs
	client HTTPClient
	log    *slog.Logger
}

func New(client HTTPClient, log *slog.Logger) *Downloader {
	return NewWithFS(afero.NewOsFs(), client, log)
}

func NewWithFS(fs afero.Fs, client HTTPClient, log *slog.Logger) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}

	return &Downloader{
		fs:     fs,
		client: client,
		log:    log.With(slog.String("item", "Downloader")),
	}
}

// Fetch downloads url to dest. It returns false when dest already
// exists. Transfer errors are fatal; the partial file is written to a
// unique .part sibling and only renamed to dest on success, so an
// interrupted run never leaves a file at the idempotence path.
func (d *Downloader) Fetch(ctx context.Context, url, dest string, chunkSize int) (bool, error) {
	if util.Exists(d.fs, dest) {
		d.log.Info("Destination exists, skip download", slog.String("path", dest))

		return false, nil
	}

	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	if err := d.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, fmt.Errorf("cannot create download dir for %s: %w", dest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("cannot build request for %s: %w", url, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("cannot fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("cannot fetch %s: unexpected status %s", url, resp.Status)
	}

	tmp := dest + ".part-" + uuid.NewString()
	out, err := d.fs.Create(tmp)
	if err != nil {
		return false, fmt.Errorf("cannot create %s: %w", tmp, err)
	}

	if err := d.transfer(out, resp.Body, resp.ContentLength, chunkSize, url); err != nil {
		out.Close()
		d.fs.Remove(tmp)

		return false, fmt.Errorf("cannot download %s: %w", url, err)
	}

	if err := out.Close(); err != nil {
		d.fs.Remove(tmp)

		return false, fmt.Errorf("cannot close %s: %w", tmp, err)
	}

	if err := d.fs.Rename(tmp, dest); err != nil {
		d.fs.Remove(tmp)

		return false, fmt.Errorf("cannot rename %s to %s: %w", tmp, dest, err)
	}

	d.log.Info("Downloaded", slog.String("url", url), slog.String("path", dest))

	return true, nil
}

// transfer copies body to out in chunkSize reads, logging progress at
// most once per progressInterval.
func (d *Downloader) transfer(out io.Writer, body io.Reader, contentLength int64, chunkSize int, url string) error {
	buf := make([]byte, chunkSize)

	var received int64
	lastReport := time.Now()

	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return werr
			}
			received += int64(n)

			if time.Since(lastReport) >= progressInterval {
				lastReport = time.Now()
				d.reportProgress(url, received, contentLength)
			}
		}

		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (d *Downloader) reportProgress(url string, received, contentLength int64) {
	attrs := []any{
		slog.String("url", url),
		slog.Int64("bytes", received),
	}
	if contentLength > 0 {
		attrs = append(attrs, slog.Float64("ratio", float64(received)/float64(contentLength)))
	}

	d.log.Info("Downloading", attrs...)
}

// FetchAll downloads every resource into dir using a bounded worker
// pool. Destinations are distinct per resource, so workers never race
// on one path. The first error wins; remaining downloads for that run
// are abandoned via ctx by the caller.
func (d *Downloader) FetchAll(ctx context.Context, resources []entity.RemoteResource, dir string, chunkSize, workers int) error {
	if len(resources) == 0 {
		return nil
	}

	if workers <= 0 {
		workers = 1
	}
	if workers > len(resources) {
		workers = len(resources)
	}

	in := make(chan entity.RemoteResource, len(resources))
	errs := make(chan error, len(resources))

	for _, res := range resources {
		in <- res
	}
	close(in)

	var wg sync.WaitGroup
	wg.Add(workers)
	for n := 0; n < workers; n++ {
		go func(n int) {
			defer wg.Done()

			log := d.log.With(slog.Int("worker_id", n))
			for res := range in {
				select {
				case <-ctx.Done():
					return
				default:
				}

				dest := filepath.Join(dir, res.FileName())
				if _, err := d.Fetch(ctx, res.URL, dest, chunkSize); err != nil {
					log.Error("Cannot fetch resource", slog.String("url", res.URL), slog.Any("error", err))
					errs <- err

					return
				}
			}
		}(n)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
