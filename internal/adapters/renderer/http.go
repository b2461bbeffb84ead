package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/rajatvd/GifGenerator/internal/domain/model"
)

// DefaultResultPath selects the artifact path from the render response.
const DefaultResultPath = "path"

// HTTPOptions configures the remote render backend.
type HTTPOptions struct {
	BaseURL string // Required
	// ResultPath is a JMESPath expression selecting the artifact path from
	// the JSON response. Defaults to "path".
	ResultPath string
	Client     *http.Client // Optional: sends are bounded by ctx
}

// HTTP posts render requests to {BaseURL}/render. The service is expected
// to write the artifact to output_path on a filesystem shared with this
// process.
type HTTP struct {
	baseURL    string
	resultPath string
	client     *http.Client
}

// NewHTTP validates opts, including the JMESPath expression.
func NewHTTP(opts HTTPOptions) (*HTTP, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("renderer base url is required")
	}
	expr := strings.TrimSpace(opts.ResultPath)
	if expr == "" {
		expr = DefaultResultPath
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid renderer result path %q: %w", expr, err)
	}
	hc := opts.Client
	if hc == nil {
		hc = &http.Client{}
	}
	return &HTTP{baseURL: base, resultPath: expr, client: hc}, nil
}

// Render posts the request and extracts the artifact path from the response.
func (h *HTTP) Render(ctx context.Context, req model.RenderRequest) (string, error) {
	body, err := json.Marshal(newPayload(req))
	if err != nil {
		return "", fmt.Errorf("encode render request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build render request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("render request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read render response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("renderer http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return h.extractPath(raw, req.OutputPath)
}

func (h *HTTP) extractPath(raw []byte, fallback string) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return fallback, nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("decode render response: %w", err)
	}
	v, err := jmespath.Search(h.resultPath, doc)
	if err != nil {
		return "", fmt.Errorf("evaluate %q: %w", h.resultPath, err)
	}
	switch p := v.(type) {
	case nil:
		return fallback, nil
	case string:
		if strings.TrimSpace(p) == "" {
			return fallback, nil
		}
		return p, nil
	default:
		return "", fmt.Errorf("renderer result path %q selected %T, want string", h.resultPath, v)
	}
}
