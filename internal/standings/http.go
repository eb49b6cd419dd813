package standings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/domain/ranking"
)

const maxBodyBytes = 8 << 20

// remoteEntry mirrors one leaderboard entry of the HTTP API.
type remoteEntry struct {
	Position int     `json:"position"`
	Creator  string  `json:"creator"`
	Value    float64 `json:"value"`
}

// fetchBoard reads the top n entries of a criterion from a running service.
func fetchBoard(ctx context.Context, client *http.Client, baseURL string, c model.Criterion, n int) ([]ranking.Entry, error) {
	u := strings.TrimRight(baseURL, "/") + "/leaderboard/" + url.PathEscape(string(c)) + "?limit=" + strconv.Itoa(n)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d: %s", u, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var entries []remoteEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", u, err)
	}
	out := make([]ranking.Entry, len(entries))
	for i, e := range entries {
		out[i] = ranking.Entry(e)
	}
	return out, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
