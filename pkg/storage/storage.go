// Package storage provides the controlled asset store backed by Azure Blob Storage.
// Rehomed ad images are uploaded here with public-read visibility and served
// from the store's canonical address space.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/adtrail/adtrail/pkg/lifecycle"
)

// System manages asset store operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the public container.
	Start(lc *lifecycle.Coordinator) error
	// Put stores data under the given key with public-read visibility and
	// returns the canonical URL the asset is served from.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Exists reports whether an asset exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
	// List returns one page of stored assets matching prefix, starting at marker.
	List(ctx context.Context, prefix, marker string, maxResults int32) (*ListResult, error)
	// Find returns metadata for the asset at the given key.
	Find(ctx context.Context, key string) (*AssetInfo, error)
	// Download streams the asset at the given key. The caller closes Body.
	Download(ctx context.Context, key string) (*DownloadResult, error)
	// URL returns the canonical address for a URL path, with the leading
	// separator stripped for key derivation.
	URL(path string) string
	// Host returns the host of the canonical address space.
	Host() string
}

// AssetInfo describes a stored asset.
type AssetInfo struct {
	Key           string    `json:"key"`
	URL           string    `json:"url"`
	ContentType   string    `json:"content_type,omitempty"`
	ContentLength int64     `json:"content_length"`
	LastModified  time.Time `json:"last_modified"`
}

// ListResult is one page of stored assets. NextMarker continues the listing
// when more assets remain.
type ListResult struct {
	Assets     []AssetInfo `json:"assets"`
	NextMarker string      `json:"next_marker,omitempty"`
}

// DownloadResult carries a streamed asset body with its metadata.
type DownloadResult struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

type azure struct {
	client    *azblob.Client
	container string
	endpoint  string
	host      string
	logger    *slog.Logger
}

// New creates a storage system from the given configuration. A connection
// string takes precedence; otherwise the default Azure credential chain is
// used. Credential construction failures surface as ErrCredentials.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCredentials, err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		endpoint:  strings.TrimSuffix(cfg.PublicEndpoint, "/"),
		host:      cfg.publicHost,
		logger:    logger.With("system", "storage"),
	}, nil
}

func newClient(cfg *Config) (*azblob.Client, error) {
	opts := &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: cfg.MaxRetries},
		},
	}

	if cfg.ConnectionString != "" {
		return azblob.NewClientFromConnectionString(cfg.ConnectionString, opts)
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}

	return azblob.NewClient(cfg.AccountURL, cred, opts)
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")

	lc.OnStartup(func() {
		access := container.PublicAccessTypeBlob
		_, err := a.client.CreateContainer(lc.Context(), a.container, &azblob.CreateContainerOptions{
			Access: &access,
		})
		if err != nil {
			if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
				a.logger.Error("storage container initialization failed", "error", err)
				return
			}
		}

		a.logger.Info("storage container ready", "container", a.container)
	})

	return nil
}

func (a *azure) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	if _, err := a.client.UploadBuffer(ctx, a.container, key, data, opts); err != nil {
		return "", fmt.Errorf("put asset %s: %w", key, err)
	}

	return a.URL(key), nil
}

func (a *azure) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	blobClient := a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key)

	_, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check asset existence %s: %w", key, err)
	}

	return true, nil
}

func (a *azure) List(ctx context.Context, prefix, marker string, maxResults int32) (*ListResult, error) {
	opts := &azblob.ListBlobsFlatOptions{}
	if prefix != "" {
		opts.Prefix = &prefix
	}
	if marker != "" {
		opts.Marker = &marker
	}
	if maxResults > 0 {
		opts.MaxResults = &maxResults
	}

	pager := a.client.NewListBlobsFlatPager(a.container, opts)

	page, err := pager.NextPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	result := &ListResult{
		Assets: make([]AssetInfo, 0, len(page.Segment.BlobItems)),
	}
	for _, item := range page.Segment.BlobItems {
		if item.Name == nil {
			continue
		}
		info := AssetInfo{Key: *item.Name, URL: a.URL(*item.Name)}
		if props := item.Properties; props != nil {
			if props.ContentLength != nil {
				info.ContentLength = *props.ContentLength
			}
			if props.ContentType != nil {
				info.ContentType = *props.ContentType
			}
			if props.LastModified != nil {
				info.LastModified = *props.LastModified
			}
		}
		result.Assets = append(result.Assets, info)
	}
	if page.NextMarker != nil {
		result.NextMarker = *page.NextMarker
	}

	return result, nil
}

func (a *azure) Find(ctx context.Context, key string) (*AssetInfo, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	blobClient := a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key)

	props, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find asset %s: %w", key, err)
	}

	info := &AssetInfo{Key: key, URL: a.URL(key)}
	if props.ContentLength != nil {
		info.ContentLength = *props.ContentLength
	}
	if props.ContentType != nil {
		info.ContentType = *props.ContentType
	}
	if props.LastModified != nil {
		info.LastModified = *props.LastModified
	}

	return info, nil
}

func (a *azure) Download(ctx context.Context, key string) (*DownloadResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download asset %s: %w", key, err)
	}

	result := &DownloadResult{Body: resp.Body}
	if resp.ContentType != nil {
		result.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		result.ContentLength = *resp.ContentLength
	}

	return result, nil
}

// ParseMaxResults parses a max_results query value, clamping to limit.
// An empty value yields the limit.
func ParseMaxResults(value string, limit int32) (int32, error) {
	if value == "" {
		return limit, nil
	}

	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid max_results: %q", value)
	}
	if int32(n) > limit {
		return limit, nil
	}
	return int32(n), nil
}

func (a *azure) URL(path string) string {
	return a.endpoint + "/" + strings.TrimPrefix(path, "/")
}

func (a *azure) Host() string {
	return a.host
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
