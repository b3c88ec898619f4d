// Session file I/O for local, S3, HTTP and archive paths.
package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-billy/v6/util"
	"github.com/nickyhof/RecordDB/core"
	"github.com/nickyhof/RecordDB/ps"
)

// S3Config contains S3 authentication configuration
type S3Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string // Optional: custom S3-compatible endpoint
}

// S3API is the subset of the S3 client used for session files.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Storage resolves session paths to their backing store.
//
//	session.txt, file:///tmp/session.txt   local file through FS
//	s3://bucket/key                        S3 object
//	http://..., https://...                read-only
//	repo:sessions/monday.txt               git archive
type Storage struct {
	FS         billy.Filesystem
	S3         S3Config
	S3Client   S3API // built from S3 on first use when nil
	HTTPClient *http.Client
	Archive    *ps.Persistence
	Identity   core.Identity
}

// NewStorage returns a Storage backed by the host filesystem.
func NewStorage() *Storage {
	return &Storage{
		FS: osfs.New("/"),
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// urlScheme represents the scheme of a URL
type urlScheme string

const (
	schemeFile  urlScheme = "file"
	schemeS3    urlScheme = "s3"
	schemeHTTP  urlScheme = "http"
	schemeHTTPS urlScheme = "https"
	schemeRepo  urlScheme = "repo"
	schemeLocal urlScheme = "local" // no scheme, local path
)

// detectScheme detects the URL scheme from a path string
func detectScheme(path string) urlScheme {
	lowerPath := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lowerPath, "s3://"):
		return schemeS3
	case strings.HasPrefix(lowerPath, "https://"):
		return schemeHTTPS
	case strings.HasPrefix(lowerPath, "http://"):
		return schemeHTTP
	case strings.HasPrefix(lowerPath, "file://"):
		return schemeFile
	case strings.HasPrefix(lowerPath, "repo:"):
		return schemeRepo
	default:
		return schemeLocal
	}
}

// ReadFile loads a session file. Every failure wraps core.ErrIO.
func (storage *Storage) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := storage.read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", core.ErrIO, path, err)
	}
	return data, nil
}

// WriteFile stores a session file and returns the archive revision when the
// target is a repo: path. Every failure wraps core.ErrIO.
func (storage *Storage) WriteFile(ctx context.Context, path string, data []byte) (string, error) {
	revision, err := storage.write(ctx, path, data)
	if err != nil {
		return "", fmt.Errorf("%w: failed to write %s: %v", core.ErrIO, path, err)
	}
	return revision, nil
}

func (storage *Storage) read(ctx context.Context, path string) ([]byte, error) {
	switch detectScheme(path) {
	case schemeLocal, schemeFile:
		localPath, err := storage.localPath(path)
		if err != nil {
			return nil, err
		}
		return util.ReadFile(storage.FS, localPath)

	case schemeHTTP, schemeHTTPS:
		return storage.readHTTP(ctx, path)

	case schemeS3:
		return storage.readS3(ctx, path)

	case schemeRepo:
		if !storage.Archive.IsInitialized() {
			return nil, errors.New("no archive configured")
		}
		return storage.Archive.ReadFile(strings.TrimPrefix(path, "repo:"))

	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s", path)
	}
}

func (storage *Storage) write(ctx context.Context, path string, data []byte) (string, error) {
	switch detectScheme(path) {
	case schemeLocal, schemeFile:
		localPath, err := storage.localPath(path)
		if err != nil {
			return "", err
		}
		return "", util.WriteFile(storage.FS, localPath, data, 0644)

	case schemeHTTP, schemeHTTPS:
		return "", errors.New("HTTP/HTTPS does not support writing")

	case schemeS3:
		return "", storage.writeS3(ctx, path, data)

	case schemeRepo:
		if !storage.Archive.IsInitialized() {
			return "", errors.New("no archive configured")
		}
		archivePath := strings.TrimPrefix(path, "repo:")
		txn, err := storage.Archive.WriteFile(archivePath, data, storage.Identity, "Save session "+archivePath)
		if err != nil {
			return "", err
		}
		return txn.Short(), nil

	default:
		return "", fmt.Errorf("unsupported URL scheme: %s", path)
	}
}

// localPath makes relative paths absolute so they resolve against the working
// directory when FS is rooted at "/".
func (storage *Storage) localPath(path string) (string, error) {
	if storage.FS == nil {
		return "", errors.New("no filesystem configured")
	}
	localPath := strings.TrimPrefix(path, "file://")
	if storage.FS.Root() != "/" {
		return localPath, nil
	}
	return filepath.Abs(localPath)
}

func (storage *Storage) readHTTP(ctx context.Context, url string) ([]byte, error) {
	client := storage.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// parseS3URL parses s3://bucket/key into bucket and key parts
func parseS3URL(url string) (bucket, key string, err error) {
	path := url[len("s3://"):]
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 URL: %s", url)
	}
	return parts[0], parts[1], nil
}

func (storage *Storage) s3Client(ctx context.Context) (S3API, error) {
	if storage.S3Client != nil {
		return storage.S3Client, nil
	}

	client, err := newS3Client(ctx, storage.S3)
	if err != nil {
		return nil, err
	}
	storage.S3Client = client
	return client, nil
}

// newS3Client creates an S3 client with the given configuration
func newS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // For S3-compatible services
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

func (storage *Storage) readS3(ctx context.Context, url string) ([]byte, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}

	client, err := storage.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (storage *Storage) writeS3(ctx context.Context, url string, data []byte) error {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return err
	}

	client, err := storage.s3Client(ctx)
	if err != nil {
		return err
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}
