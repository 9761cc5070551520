package api

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

//go:embed data/recipes.json
var embeddedRecipes []byte

// EmbeddedSource is the source name reported for the bundled dataset.
const EmbeddedSource = "embedded"

// ErrNoRecipes is returned when a source holds an empty recipe list.
var ErrNoRecipes = errors.New("no recipes")

// Stage names the step at which loading a source failed.
type Stage string

const (
	StageRead   Stage = "read"
	StageStatus Stage = "status"
	StageDecode Stage = "decode"
)

// SourceError reports why a recipe source could not be loaded.
type SourceError struct {
	Source string
	Stage  Stage
	Status int // set for StageStatus
	Err    error
}

func (e *SourceError) Error() string {
	label := SourceLabel(e.Source)
	switch e.Stage {
	case StageStatus:
		return fmt.Sprintf("%s answered HTTP %d", label, e.Status)
	case StageDecode:
		return fmt.Sprintf("%s is not a recipe list: %v", label, e.Err)
	default:
		return fmt.Sprintf("reading %s: %v", label, e.Err)
	}
}

func (e *SourceError) Unwrap() error { return e.Err }

// Retryable reports whether the same load may succeed later: network
// failures, throttling and server errors.
func (e *SourceError) Retryable() bool {
	switch e.Stage {
	case StageRead:
		return isRemote(e.Source)
	case StageStatus:
		return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
	default:
		return false
	}
}

// Client loads the raw recipe dataset from a URL, a local file, or the
// bundled dataset.
type Client struct {
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a recipe loader. A nil logger disables logging.
func NewClient(log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
}

// FetchRecipes loads every raw recipe from source. An empty source (or
// "embedded") selects the bundled dataset, http(s) URLs are fetched, and
// anything else is read as a file path. Failures are *SourceError values; an
// empty list is ErrNoRecipes.
func (c *Client) FetchRecipes(ctx context.Context, source string) ([]RawRecipe, error) {
	source = strings.TrimSpace(source)

	var (
		recipes []RawRecipe
		err     error
	)
	switch {
	case source == "" || source == EmbeddedSource:
		recipes, err = decodeRecipes(EmbeddedSource, bytes.NewReader(embeddedRecipes))
	case isRemote(source):
		recipes, err = c.getAndDecode(ctx, source)
	default:
		recipes, err = readFile(source)
	}
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("%s: %w", SourceLabel(source), ErrNoRecipes)
	}

	c.log.Debug("recipes loaded",
		zap.String("source", SourceLabel(source)),
		zap.Int("count", len(recipes)),
	)
	return recipes, nil
}

// SourceLabel returns a human readable name for a recipe source.
func SourceLabel(source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		return EmbeddedSource
	}
	return source
}

// IsLocalFile reports whether source names a file on disk rather than the
// bundled dataset or a URL.
func IsLocalFile(source string) bool {
	source = strings.TrimSpace(source)
	return source != "" && source != EmbeddedSource && !isRemote(source)
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (c *Client) getAndDecode(ctx context.Context, reqURL string) ([]RawRecipe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &SourceError{Source: reqURL, Stage: StageRead, Err: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SourceError{Source: reqURL, Stage: StageRead, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SourceError{Source: reqURL, Stage: StageStatus, Status: resp.StatusCode}
	}
	return decodeRecipes(reqURL, resp.Body)
}

func readFile(path string) ([]RawRecipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Source: path, Stage: StageRead, Err: err}
	}
	defer f.Close()
	return decodeRecipes(path, f)
}

var errTrailingContent = errors.New("trailing JSON content")

// decodeRecipes accepts either a top-level array or a {"recipes": [...]}
// wrapper and rejects trailing content.
func decodeRecipes(source string, r io.Reader) ([]RawRecipe, error) {
	fail := func(err error) error {
		return &SourceError{Source: source, Stage: StageDecode, Err: err}
	}

	var raw json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fail(err)
	}
	if err := dec.Decode(new(struct{})); !errors.Is(err, io.EOF) {
		return nil, fail(errTrailingContent)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped RecipesResponse
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fail(err)
		}
		return wrapped.Recipes, nil
	}

	var recipes []RawRecipe
	if err := json.Unmarshal(trimmed, &recipes); err != nil {
		return nil, fail(err)
	}
	return recipes, nil
}
