// Package upstream talks to the learning platform: sign-in and GraphQL reads.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/The-Tifo/Graphql/internal/domain/model"
	"github.com/The-Tifo/Graphql/pkg/logger"
	"github.com/The-Tifo/Graphql/pkg/metrics"
)

const (
	defaultBaseURL     = "https://learn.reboot01.com"
	defaultSignInPath  = "/api/auth/signin"
	defaultGraphQLPath = "/api/graphql-engine/v1/graphql"
	defaultModulePath  = "/bahrain/bh-module"
	defaultLimit       = 5
	defaultTimeout     = 10 * time.Second

	// maxErrorBody caps how much of a failed response is kept for logs.
	maxErrorBody = 512
)

// Operation names used in logs and metrics.
const (
	opSignIn   = "signin"
	opIdentity = "identity"
	opProgress = "progress"
	opAudits   = "audits"
)

// Client is a platform API client. It is safe for concurrent use.
type Client struct {
	baseURL     string
	signInPath  string
	graphQLPath string
	modulePath  string
	recentLimit int
	auditLimit  int
	timeout     time.Duration
	httpClient  *http.Client
	log         logger.Logger
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		signInPath:  defaultSignInPath,
		graphQLPath: defaultGraphQLPath,
		modulePath:  defaultModulePath,
		recentLimit: defaultLimit,
		auditLimit:  defaultLimit,
		timeout:     defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	if c.log == nil {
		c.log = logger.Named("upstream")
	}
	return c
}

// SignIn exchanges a username (or email) and password for a bearer token.
func (c *Client) SignIn(ctx context.Context, username, password string) (token string, err error) {
	start := time.Now()
	defer func() { c.observe(ctx, opSignIn, start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.signInPath, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build sign-in request: %w", ErrUpstream, err)
	}
	req.SetBasicAuth(username, password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: sign-in: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read sign-in response: %w", ErrUpstream, err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", fmt.Errorf("%w: sign-in returned status %d", ErrUpstream, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", fmt.Errorf("%w: status %d", ErrInvalidCredentials, resp.StatusCode)
	}

	token, err = parseToken(body)
	if err != nil {
		return "", err
	}
	return token, nil
}

// parseToken accepts either a bare JSON string or an object with a token field.
func parseToken(body []byte) (string, error) {
	body = bytes.TrimSpace(body)
	var token string
	if err := json.Unmarshal(body, &token); err != nil {
		var wrapped struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return "", fmt.Errorf("%w: unexpected sign-in body: %w", ErrUpstream, err)
		}
		token = wrapped.Token
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrUpstream)
	}
	return token, nil
}

// FetchSnapshot loads everything the dashboard needs for the token's user.
// The identity and progress queries are independent and run concurrently;
// the audit query needs the user id and runs after them.
func (c *Client) FetchSnapshot(ctx context.Context, token string) (model.Snapshot, error) {
	var (
		identity identityData
		progress progressData
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.query(gctx, opIdentity, token, identityQuery, map[string]any{
			"xpLike":    c.modulePath + "/%",
			"xpExclude": c.modulePath + "/piscine-js/%",
		}, &identity)
	})
	g.Go(func() error {
		return c.query(gctx, opProgress, token, progressQuery, map[string]any{
			"projectLike":    c.modulePath + "%",
			"checkpointLike": c.modulePath + "/checkpoint%",
			"piscineLike":    c.modulePath + "/piscine-js%",
			"limit":          c.recentLimit,
		}, &progress)
	})
	if err := g.Wait(); err != nil {
		return model.Snapshot{}, err
	}

	// An empty user list means the token was accepted but does not map to
	// a user, which the platform does for anonymous roles.
	if len(identity.User) == 0 {
		return model.Snapshot{}, fmt.Errorf("%w: no user for token", ErrUnauthorized)
	}
	u := identity.User[0]

	var audits auditData
	if err := c.query(ctx, opAudits, token, auditQuery, map[string]any{
		"userId": u.ID,
		"limit":  c.auditLimit,
	}, &audits); err != nil {
		return model.Snapshot{}, err
	}

	snap := model.Snapshot{
		User: model.User{
			ID:        u.ID,
			Login:     u.Login,
			FirstName: u.Attrs.FirstName,
			LastName:  u.Attrs.LastName,
			TotalUp:   u.TotalUp,
			TotalDown: u.TotalDown,
		},
		XP:             identity.XP.Aggregate.Sum.Amount,
		Skills:         json.RawMessage("[]"),
		RecentProjects: make([]model.Project, 0, len(progress.RecentProj)),
		Audits:         make([]model.Audit, 0, len(audits.Audit)),
		FetchedAt:      time.Now().UTC(),
	}
	if len(progress.ProgressionSkill) > 0 && len(progress.ProgressionSkill[0].Transactions) > 0 {
		snap.Skills = progress.ProgressionSkill[0].Transactions
	}
	for _, p := range progress.RecentProj {
		snap.RecentProjects = append(snap.RecentProjects, model.Project{Name: p.Object.Name, Type: p.Object.Type})
	}
	for _, a := range audits.Audit {
		snap.Audits = append(snap.Audits, model.Audit{
			CreatedAt: a.CreatedAt,
			Path:      a.Group.Path,
			Captain:   a.Group.Captain.Login,
			Code:      a.Private.Code,
		})
	}
	return snap, nil
}

// query posts one GraphQL document and decodes its data into dest.
func (c *Client) query(ctx context.Context, op, token, doc string, vars map[string]any, dest any) (err error) {
	start := time.Now()
	defer func() { c.observe(ctx, op, start, err) }()

	payload, err := json.Marshal(gqlRequest{Query: doc, Variables: vars})
	if err != nil {
		return fmt.Errorf("%w: encode %s query: %w", ErrUpstream, op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.graphQLPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build %s request: %w", ErrUpstream, op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %s returned status %d", ErrUnauthorized, op, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s returned status %d: %s", ErrUpstream, op, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrUpstream, op, err)
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		if isAuthError(first) {
			return fmt.Errorf("%w: %s", ErrUnauthorized, first.Message)
		}
		return fmt.Errorf("%w: %s: %s", ErrUpstream, op, first.Message)
	}
	if len(out.Data) == 0 || string(out.Data) == "null" {
		return fmt.Errorf("%w: %s returned no data", ErrUpstream, op)
	}
	if err := json.Unmarshal(out.Data, dest); err != nil {
		return fmt.Errorf("%w: decode %s data: %w", ErrUpstream, op, err)
	}
	return nil
}

// isAuthError recognises the engine's JWT rejections, which arrive as 200
// responses with an errors array.
func isAuthError(e gqlError) bool {
	switch e.Extensions.Code {
	case "invalid-jwt", "invalid-headers", "access-denied":
		return true
	}
	return strings.Contains(e.Message, "JWT")
}

func (c *Client) observe(ctx context.Context, op string, start time.Time, err error) {
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordUpstreamLatency(op, elapsed)

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	metrics.RecordUpstreamRequest(op, outcome)

	if err != nil {
		c.log.Warn(ctx, "platform request failed",
			logger.String("op", op),
			logger.String("outcome", outcome),
			logger.Float64("latency_ms", elapsed),
			logger.Error(err))
		return
	}
	c.log.Debug(ctx, "platform request", logger.String("op", op), logger.Float64("latency_ms", elapsed))
}
