package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/wordle-solver/internal/feedback"
)

// #region client-struct
// Client calls a remote wordle.v1.Solver.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}
// #endregion client-struct

// #region constructor
// NewClient connects to a solver server at addr.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn creates a Client over an existing connection.
// Close does not close cc.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}
// #endregion constructor

// Close shuts down the connection opened by NewClient.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #region calls
// BestGuess asks for the adaptive suggestion after steps.
func (c *Client) BestGuess(ctx context.Context, language string, steps []feedback.Step) (string, error) {
	return c.bestGuess(ctx, Request{Language: language, Steps: steps})
}

// BestGuessWeighted asks for the fixed-weight suggestion after steps.
func (c *Client) BestGuessWeighted(ctx context.Context, language string, steps []feedback.Step, weight float64) (string, error) {
	return c.bestGuess(ctx, Request{Language: language, Steps: steps, Weight: &weight})
}

func (c *Client) bestGuess(ctx context.Context, req Request) (string, error) {
	in, err := EncodeRequest(req)
	if err != nil {
		return "", err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, bestGuessMethod, in, out); err != nil {
		return "", fmt.Errorf("best guess rpc: %w", err)
	}
	return out.GetFields()["response"].GetStringValue(), nil
}

// PossibleWords lists the candidates consistent with steps.
func (c *Client) PossibleWords(ctx context.Context, language string, steps []feedback.Step) ([]Candidate, error) {
	in, err := EncodeRequest(Request{Language: language, Steps: steps})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, possibleWordsMethod, in, out); err != nil {
		return nil, fmt.Errorf("possible words rpc: %w", err)
	}
	return decodeCandidates(out)
}
// #endregion calls
