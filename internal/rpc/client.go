package rpc

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/sovereign-debt/go-sim/internal/engine"
)

// #region client-struct
// Client wraps the gRPC connection to a simulator server.
type Client struct {
	conn *grpc.ClientConn
}

// #endregion client-struct

// #region constructor
// NewClient connects to a simulator server.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// #endregion constructor

// #region calls
// NewGame starts a game. A zero seed lets the server pick one.
func (c *Client) NewGame(ctx context.Context, seed int64) (GameView, error) {
	fields := map[string]interface{}{}
	if seed != 0 {
		fields["seed"] = strconv.FormatInt(seed, 10)
	}
	return c.call(ctx, "NewGame", fields)
}

// PlayTurn plays one turn.
func (c *Client) PlayTurn(ctx context.Context, gameID string, policy engine.Policy) (GameView, error) {
	return c.call(ctx, "PlayTurn", map[string]interface{}{"game_id": gameID, "policy": string(policy)})
}

// GetState fetches the current snapshot.
func (c *Client) GetState(ctx context.Context, gameID string) (GameView, error) {
	return c.call(ctx, "GetState", map[string]interface{}{"game_id": gameID})
}

// Reset replaces the game; use the returned GameID afterwards.
func (c *Client) Reset(ctx context.Context, gameID string) (GameView, error) {
	return c.call(ctx, "Reset", map[string]interface{}{"game_id": gameID})
}

func (c *Client) call(ctx context.Context, method string, fields map[string]interface{}) (GameView, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return GameView{}, fmt.Errorf("%s request: %w", method, err)
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, req, resp); err != nil {
		return GameView{}, fmt.Errorf("%s rpc: %w", method, err)
	}
	var v GameView
	if err := fromStruct(resp, &v); err != nil {
		return GameView{}, fmt.Errorf("%s response: %w", method, err)
	}
	return v, nil
}

// #endregion calls
