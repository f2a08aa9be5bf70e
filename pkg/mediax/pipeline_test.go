package mediax_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jamalpur-chamber/outbound/pkg/config"
	"github.com/jamalpur-chamber/outbound/pkg/errx"
	"github.com/jamalpur-chamber/outbound/pkg/logx"
	"github.com/jamalpur-chamber/outbound/pkg/mediax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps uploaded bytes in memory. onUpload runs before the body
// is read so tests can inspect or sabotage the staging file.
type fakeStore struct {
	mu        sync.Mutex
	uploads   map[string][]byte
	sources   []mediax.UploadSource
	destroyed []string
	seq       atomic.Int64

	uploadErr  error
	destroyErr error
	onUpload   func(src mediax.UploadSource)
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: make(map[string][]byte)}
}

func (f *fakeStore) Name() string { return "fake" }

func (f *fakeStore) Upload(ctx context.Context, src mediax.UploadSource, opts mediax.UploadOptions) (mediax.StoredObjectReference, error) {
	f.mu.Lock()
	f.sources = append(f.sources, src)
	f.mu.Unlock()

	if f.onUpload != nil {
		f.onUpload(src)
	}
	if err := ctx.Err(); err != nil {
		return mediax.StoredObjectReference{}, err
	}
	if f.uploadErr != nil {
		return mediax.StoredObjectReference{}, f.uploadErr
	}

	var r io.Reader = src.Reader
	if src.Staged() {
		rc, err := src.Open(ctx)
		if err != nil {
			return mediax.StoredObjectReference{}, err
		}
		defer rc.Close()
		r = rc
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return mediax.StoredObjectReference{}, fmt.Errorf("read body: %w", err)
	}

	id := fmt.Sprintf("%s/obj%d", opts.Folder, f.seq.Add(1))
	f.mu.Lock()
	f.uploads[id] = data
	f.mu.Unlock()

	return mediax.StoredObjectReference{
		PublicID:  id,
		SecureURL: "https://cdn.example/" + id,
	}, nil
}

func (f *fakeStore) Destroy(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = append(f.destroyed, publicID)
	return f.destroyErr
}

func (f *fakeStore) URL(publicID string, rt mediax.ResourceType) (string, error) {
	if rt == mediax.ResourceAuto {
		rt = mediax.ResourceImage
	}
	return "https://cdn.example/" + string(rt) + "/" + publicID, nil
}

func (f *fakeStore) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sources)
}

func mediaConfig(t *testing.T) config.MediaConfig {
	t.Helper()
	return config.MediaConfig{
		Provider:            config.MediaProviderCloudinary,
		Strategy:            config.StrategyStaged,
		CloudinaryCloudName: "demo",
		CloudinaryAPIKey:    "key",
		CloudinaryAPISecret: "secret",
		Folder:              "jamalpur-chamber",
		StagingDir:          filepath.Join(t.TempDir(), "temp"),
		MaxBytes:            config.DefaultMaxUploadBytes,
	}
}

func newPipeline(t *testing.T, cfg config.MediaConfig, store mediax.ObjectStore, opts ...mediax.Option) *mediax.Pipeline {
	t.Helper()
	opts = append([]mediax.Option{mediax.WithLogger(logx.NewDiscard())}, opts...)
	p, err := mediax.NewPipeline(cfg, store, opts...)
	require.NoError(t, err)
	return p
}

func bufferLogger() (*logx.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := logx.DefaultConfig()
	cfg.Output = buf
	cfg.EnableColors = false
	cfg.Level = logx.LevelDebug
	return logx.NewLogger(cfg), buf
}

func jpegRequest(size int) mediax.UploadRequest {
	body := bytes.Repeat([]byte{0xFF}, size)
	return mediax.UploadRequest{
		FieldName:    "logo",
		OriginalName: "Logo.JPG",
		MimeType:     "image/jpeg",
		Size:         int64(size),
		Body:         bytes.NewReader(body),
	}
}

func stagingEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestAccept_StagedSuccessLeavesNoFile(t *testing.T) {
	cfg := mediaConfig(t)
	store := newFakeStore()
	var stagedPath string
	store.onUpload = func(src mediax.UploadSource) {
		stagedPath = src.Path
		_, err := os.Stat(src.Path)
		assert.NoError(t, err, "staging file should exist during upload")
	}
	p := newPipeline(t, cfg, store)

	ref, err := p.Accept(context.Background(), jpegRequest(2048))

	require.NoError(t, err)
	assert.Equal(t, "jamalpur-chamber/obj1", ref.PublicID)
	assert.Equal(t, mediax.ResourceAuto, ref.ResourceType)
	assert.Len(t, store.uploads[ref.PublicID], 2048)
	assert.True(t, strings.HasPrefix(filepath.Base(stagedPath), "logo-"))
	assert.True(t, strings.HasSuffix(stagedPath, ".jpg"))
	assert.Empty(t, stagingEntries(t, cfg.StagingDir))
}

func TestAccept_RejectsUnsupportedTypeWithoutIO(t *testing.T) {
	cfg := mediaConfig(t)
	store := newFakeStore()
	p := newPipeline(t, cfg, store)

	req := jpegRequest(10)
	req.MimeType = "application/x-msdownload"
	req.OriginalName = "setup.exe"
	_, err := p.Accept(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errx.IsCode(err, mediax.ErrUnsupportedMedia))
	assert.Equal(t, 415, errx.StatusOf(err))
	assert.Equal(t, 0, store.uploadCount())
	assert.Empty(t, stagingEntries(t, cfg.StagingDir))
}

func TestAccept_RejectsDeclaredOversize(t *testing.T) {
	cfg := mediaConfig(t)
	store := newFakeStore()
	p := newPipeline(t, cfg, store)

	req := jpegRequest(10)
	req.Size = config.DefaultMaxUploadBytes + 1
	_, err := p.Accept(context.Background(), req)

	assert.True(t, errx.IsCode(err, mediax.ErrPayloadTooLarge))
	assert.Equal(t, 413, errx.StatusOf(err))
	assert.Equal(t, 0, store.uploadCount())
}

func TestAccept_BodyLargerThanDeclaredIsCut(t *testing.T) {
	cfg := mediaConfig(t)
	cfg.MaxBytes = 1024
	store := newFakeStore()
	p := newPipeline(t, cfg, store)

	req := jpegRequest(4096)
	req.Size = -1
	_, err := p.Accept(context.Background(), req)

	assert.True(t, errx.IsCode(err, mediax.ErrPayloadTooLarge))
	assert.Equal(t, 0, store.uploadCount())
	assert.Empty(t, stagingEntries(t, cfg.StagingDir))
}

func TestAccept_ExactlyMaxBytesIsAccepted(t *testing.T) {
	cfg := mediaConfig(t)
	cfg.MaxBytes = 1024
	store := newFakeStore()
	p := newPipeline(t, cfg, store)

	ref, err := p.Accept(context.Background(), jpegRequest(1024))

	require.NoError(t, err)
	assert.Len(t, store.uploads[ref.PublicID], 1024)
}

func TestAccept_StoreFailureStillCleansUp(t *testing.T) {
	cfg := mediaConfig(t)
	store := newFakeStore()
	store.uploadErr = errors.New("Invalid Signature")
	p := newPipeline(t, cfg, store)

	_, err := p.Accept(context.Background(), jpegRequest(512))

	require.Error(t, err)
	assert.True(t, errx.IsCode(err, mediax.ErrStorageFailed))
	assert.Equal(t, 502, errx.StatusOf(err))
	assert.Contains(t, err.Error(), "Invalid Signature")
	assert.Equal(t, 1, store.uploadCount())
	assert.Empty(t, stagingEntries(t, cfg.StagingDir))
}

func TestAccept_CancelledContextStillCleansUp(t *testing.T) {
	cfg := mediaConfig(t)
	store := newFakeStore()
	p := newPipeline(t, cfg, store)

	ctx, cancel := context.WithCancel(context.Background())
	store.onUpload = func(mediax.UploadSource) { cancel() }

	_, err := p.Accept(ctx, jpegRequest(512))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stagingEntries(t, cfg.StagingDir))
}

func TestAccept_CleanupFailureDoesNotFailUpload(t *testing.T) {
	cfg := mediaConfig(t)
	store := newFakeStore()
	// Swap the staged file for a non-empty directory after it has been read
	// so the final removal fails.
	store.onUpload = func(src mediax.UploadSource) {
		rc, err := src.Open(context.Background())
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		require.NoError(t, os.Remove(src.Path))
		require.NoError(t, os.Mkdir(src.Path, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(src.Path, "blocker"), data, 0o600))
	}
	logger, buf := bufferLogger()
	p := newPipeline(t, cfg, &dirTolerantStore{store}, mediax.WithLogger(logger))

	ref, err := p.Accept(context.Background(), jpegRequest(256))

	require.NoError(t, err)
	assert.NotEmpty(t, ref.PublicID)
	assert.Contains(t, buf.String(), "failed to clean up staging file")
	assert.Len(t, stagingEntries(t, cfg.StagingDir), 1)

	n, err := p.ReportLingering(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), "lingering staging file")
}

// dirTolerantStore runs the hook and then reports success without reading
// the (now replaced) staging path.
type dirTolerantStore struct{ *fakeStore }

func (d *dirTolerantStore) Upload(_ context.Context, src mediax.UploadSource, opts mediax.UploadOptions) (mediax.StoredObjectReference, error) {
	d.onUpload(src)
	return mediax.StoredObjectReference{PublicID: opts.Folder + "/kept", SecureURL: "https://cdn.example/kept"}, nil
}

func TestAccept_StagingDirUnusable(t *testing.T) {
	cfg := mediaConfig(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	cfg.StagingDir = blocker
	store := newFakeStore()
	p := newPipeline(t, cfg, store)

	_, err := p.Accept(context.Background(), jpegRequest(64))

	require.Error(t, err)
	assert.True(t, errx.IsCode(err, mediax.ErrLocalIOFailed))
	assert.Equal(t, 500, errx.StatusOf(err))
	assert.Equal(t, 0, store.uploadCount())
}

func TestAccept_NilBody(t *testing.T) {
	p := newPipeline(t, mediaConfig(t), newFakeStore())

	req := jpegRequest(1)
	req.Body = nil
	_, err := p.Accept(context.Background(), req)

	assert.True(t, errx.IsCode(err, mediax.ErrEmptyBody))
}

func TestAccept_DisabledWithoutCredentials(t *testing.T) {
	cfg := mediaConfig(t)
	cfg.CloudinaryAPISecret = ""
	store := newFakeStore()
	p := newPipeline(t, cfg, store)

	assert.False(t, p.Enabled())

	_, err := p.Accept(context.Background(), jpegRequest(10))
	assert.True(t, errx.IsCode(err, mediax.ErrServiceUnavailable))
	assert.Equal(t, 503, errx.StatusOf(err))

	p.DeleteObject(context.Background(), "jamalpur-chamber/x")
	assert.Equal(t, 0, store.uploadCount())
	assert.Empty(t, store.destroyed)

	u, ok := p.ResolveURL("jamalpur-chamber/x", mediax.ResourceImage)
	assert.True(t, ok, "urls need no credentials")
	assert.Equal(t, "https://cdn.example/image/jamalpur-chamber/x", u)
}

func TestResolveURL_NoStore(t *testing.T) {
	p := newPipeline(t, mediaConfig(t), nil)

	assert.False(t, p.Enabled())
	_, ok := p.ResolveURL("jamalpur-chamber/x", mediax.ResourceImage)
	assert.False(t, ok)
	assert.NotPanics(t, func() { p.DeleteObject(context.Background(), "jamalpur-chamber/x") })
}

func TestAccept_DirectStrategy(t *testing.T) {
	cfg := mediaConfig(t)
	cfg.Strategy = config.StrategyDirect
	store := newFakeStore()
	p := newPipeline(t, cfg, store)

	require.Equal(t, config.StrategyDirect, p.Strategy().Name())
	_, staged := p.StagingArea()
	assert.False(t, staged)

	ref, err := p.Accept(context.Background(), jpegRequest(300))
	require.NoError(t, err)
	assert.Len(t, store.uploads[ref.PublicID], 300)
	assert.False(t, store.sources[0].Staged())
	_, err = os.Stat(cfg.StagingDir)
	assert.True(t, errors.Is(err, os.ErrNotExist), "direct strategy must not touch the staging dir")
}

func TestAccept_DirectStrategyEnforcesCeiling(t *testing.T) {
	cfg := mediaConfig(t)
	cfg.Strategy = config.StrategyDirect
	cfg.MaxBytes = 100
	store := newFakeStore()
	p := newPipeline(t, cfg, store)

	req := jpegRequest(101)
	req.Size = -1
	_, err := p.Accept(context.Background(), req)

	assert.True(t, errx.IsCode(err, mediax.ErrPayloadTooLarge))
}

func TestNewPipeline_UnknownStrategy(t *testing.T) {
	cfg := mediaConfig(t)
	cfg.Strategy = "carrier-pigeon"

	_, err := mediax.NewPipeline(cfg, newFakeStore(), mediax.WithLogger(logx.NewDiscard()))

	assert.True(t, errx.IsCode(err, mediax.ErrInvalidStrategy))
}

func TestAccept_ConcurrentUploadsAreIsolated(t *testing.T) {
	cfg := mediaConfig(t)
	store := newFakeStore()
	p := newPipeline(t, cfg, store)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := bytes.Repeat([]byte{byte(i)}, 1000+i)
			_, err := p.Accept(context.Background(), mediax.UploadRequest{
				FieldName:    "document",
				OriginalName: "report.pdf",
				MimeType:     "application/pdf",
				Size:         int64(len(body)),
				Body:         bytes.NewReader(body),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, store.uploads, n)

	sizes := make(map[int]bool, n)
	for _, data := range store.uploads {
		sizes[len(data)] = true
		for _, b := range data {
			require.Equal(t, data[0], b, "bytes from different uploads were mixed")
		}
	}
	assert.Len(t, sizes, n)
	assert.Empty(t, stagingEntries(t, cfg.StagingDir))
}

func TestDeleteObject(t *testing.T) {
	store := newFakeStore()
	logger, buf := bufferLogger()
	p := newPipeline(t, mediaConfig(t), store, mediax.WithLogger(logger))

	p.DeleteObject(context.Background(), "")
	assert.Empty(t, store.destroyed)

	p.DeleteObject(context.Background(), "jamalpur-chamber/a")
	assert.Equal(t, []string{"jamalpur-chamber/a"}, store.destroyed)

	store.destroyErr = errors.New("not found")
	assert.NotPanics(t, func() { p.DeleteObject(context.Background(), "jamalpur-chamber/b") })
	assert.Contains(t, buf.String(), "error deleting object")
}

func TestResolveURL(t *testing.T) {
	p := newPipeline(t, mediaConfig(t), newFakeStore())

	u, ok := p.ResolveURL("jamalpur-chamber/doc", mediax.ResourceRaw)
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example/raw/jamalpur-chamber/doc", u)

	u, ok = p.ResolveURL("jamalpur-chamber/logo", "")
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example/image/jamalpur-chamber/logo", u)

	_, ok = p.ResolveURL("", mediax.ResourceImage)
	assert.False(t, ok)
}

func TestParseResourceType(t *testing.T) {
	assert.Equal(t, mediax.ResourceRaw, mediax.ParseResourceType("RAW"))
	assert.Equal(t, mediax.ResourceImage, mediax.ParseResourceType("image"))
	assert.Equal(t, mediax.ResourceAuto, mediax.ParseResourceType("spreadsheet"))
}
