// internal/infra/practicum/client.go
package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

const (
	authScheme = "OAuth"
	// maxBodySize caps how much of a response is read, logged and reported.
	maxBodySize = 1 << 20
)

// Client queries the homework statuses endpoint. Each call makes exactly one
// HTTP request; retries are left to the caller's schedule.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *logrus.Entry
}

var _ homework.Source = (*Client)(nil)

func NewClient(endpoint, token string, timeout time.Duration, logger *logrus.Entry) *Client {
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// GetAnswer requests statuses changed since from and returns the decoded JSON body.
func (c *Client) GetAnswer(ctx context.Context, from int64) (any, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &homework.Failure{Kind: homework.KindRequest, Err: fmt.Errorf("invalid endpoint: %w", err)}
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(from, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &homework.Failure{Kind: homework.KindRequest, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", authScheme+" "+c.token)

	logCtx := c.logger.WithField("from_date", from)
	logCtx.Debug("Requesting homework statuses")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logCtx.WithError(err).Error("Homework API endpoint is unavailable")
		return nil, &homework.Failure{Kind: homework.KindRequest, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &homework.Failure{Kind: homework.KindRequest, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		logCtx.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"body":        string(body),
		}).Error("Homework API returned a non-OK status")

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusBadRequest:
			return nil, &homework.Failure{
				Kind:   homework.KindAuthOrRequest,
				Code:   resp.StatusCode,
				Detail: string(body),
			}
		default:
			return nil, &homework.Failure{Kind: homework.KindUnexpectedResponse, Code: resp.StatusCode}
		}
	}

	var answer any
	if err := json.Unmarshal(body, &answer); err != nil {
		logCtx.WithError(err).Error("Homework API returned a non-JSON body")
		return nil, &homework.Failure{Kind: homework.KindMalformedPayload, Err: err}
	}
	return answer, nil
}
