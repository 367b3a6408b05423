package policy

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/secmon-lab/bqrun/pkg/domain/interfaces"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
)

// Client evaluates Rego policies loaded from files and directories. Policies are read and compiled once per query.
type Client struct {
	paths []string

	mutex    sync.Mutex
	prepared map[string]rego.PreparedEvalQuery
}

type Option func(*Client)

func WithDir(dir string) Option {
	return func(c *Client) {
		c.paths = append(c.paths, dir)
	}
}

func WithFile(file string) Option {
	return func(c *Client) {
		c.paths = append(c.paths, file)
	}
}

func New(options ...Option) (*Client, error) {
	c := &Client{
		prepared: make(map[string]rego.PreparedEvalQuery),
	}
	for _, opt := range options {
		opt(c)
	}

	if len(c.paths) == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "no policy file or directory")
	}

	// Compile once to report syntax errors at startup
	if _, err := c.prepare(context.Background(), "data"); err != nil {
		return nil, err
	}

	return c, nil
}

// Query evaluates query with input and decodes the result into output. It returns types.ErrNoPolicyResult if the query is undefined.
func (x *Client) Query(ctx context.Context, query string, input, output any) error {
	pq, err := x.prepare(ctx, query)
	if err != nil {
		return err
	}

	rs, err := pq.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return goerr.Wrap(err, "failed to evaluate policy", goerr.V("query", query))
	}

	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return goerr.Wrap(types.ErrNoPolicyResult, "no result", goerr.V("query", query))
	}

	raw, err := json.Marshal(rs[0].Expressions[0].Value)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal policy result", goerr.V("query", query))
	}
	if err := json.Unmarshal(raw, output); err != nil {
		return goerr.Wrap(err, "failed to unmarshal policy result", goerr.V("raw", string(raw)))
	}

	return nil
}

func (x *Client) prepare(ctx context.Context, query string) (rego.PreparedEvalQuery, error) {
	x.mutex.Lock()
	defer x.mutex.Unlock()

	if pq, ok := x.prepared[query]; ok {
		return pq, nil
	}

	pq, err := rego.New(
		rego.Query(query),
		rego.Load(x.paths, nil),
	).PrepareForEval(ctx)
	if err != nil {
		return rego.PreparedEvalQuery{}, goerr.Wrap(err, "failed to load policy",
			goerr.V("paths", x.paths),
			goerr.V("query", query),
		)
	}
	x.prepared[query] = pq

	return pq, nil
}

var _ interfaces.Policy = &Client{}
