package bridge

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
)

// Client talks to a DoorBridge server.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to addr without transport security; the bridge is meant
// for the local network segment the door controller sits on.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("bridge dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// NewClient wraps an existing connection.
func NewClient(conn *grpc.ClientConn) *Client { return &Client{conn: conn} }

func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) State(ctx context.Context) (types.DoorStatus, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method("GetState"), &emptypb.Empty{}, out); err != nil {
		return types.DoorStatus{}, err
	}
	return types.DoorStatus{State: types.DoorState(out.GetFields()["state"].GetStringValue())}, nil
}

func (c *Client) Open(ctx context.Context) (types.DoorCommandResult, error) {
	return c.doorCommand(ctx, "Open")
}

func (c *Client) CloseDoor(ctx context.Context) (types.DoorCommandResult, error) {
	return c.doorCommand(ctx, "Close")
}

func (c *Client) doorCommand(ctx context.Context, name string) (types.DoorCommandResult, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method(name), &emptypb.Empty{}, out); err != nil {
		return types.DoorCommandResult{}, err
	}
	f := out.GetFields()
	return types.DoorCommandResult{
		Message: f["message"].GetStringValue(),
		State:   types.DoorState(f["state"].GetStringValue()),
	}, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]types.AccessEvent, error) {
	out := new(structpb.ListValue)
	if err := c.conn.Invoke(ctx, method("ListEvents"), &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return eventsFromList(out), nil
}

func (c *Client) RecordEvent(ctx context.Context, in types.AccessEventInput) (types.AccessEvent, error) {
	req, err := InputToStruct(in)
	if err != nil {
		return types.AccessEvent{}, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method("RecordEvent"), req, out); err != nil {
		return types.AccessEvent{}, err
	}
	return EventFromStruct(out), nil
}

func (c *Client) RecordEvents(ctx context.Context, ins []types.AccessEventInput) ([]types.AccessEvent, error) {
	req := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(ins))}
	for _, in := range ins {
		s, err := InputToStruct(in)
		if err != nil {
			return nil, err
		}
		req.Values = append(req.Values, structpb.NewStructValue(s))
	}
	out := new(structpb.ListValue)
	if err := c.conn.Invoke(ctx, method("RecordEvents"), req, out); err != nil {
		return nil, err
	}
	return eventsFromList(out), nil
}

func eventsFromList(l *structpb.ListValue) []types.AccessEvent {
	out := make([]types.AccessEvent, 0, len(l.GetValues()))
	for _, v := range l.GetValues() {
		out = append(out, EventFromStruct(v.GetStructValue()))
	}
	return out
}
