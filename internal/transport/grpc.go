package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

// SimulateMethod is the full gRPC method name of the backend's simulate call.
// Request and response travel as google.protobuf.Struct carrying the same
// JSON contract as the HTTP endpoint.
const SimulateMethod = "/brainwave.SimulationService/Simulate"

// #region client-struct
// GRPCClient calls the backend over gRPC.
type GRPCClient struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor
// NewGRPCClient connects to the simulation backend's gRPC server.
func NewGRPCClient(addr string) (*GRPCClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &GRPCClient{conn: conn, cc: conn}, nil
}

// NewGRPCClientWithConn creates a GRPCClient over an existing connection.
// Used for testing without a real backend.
func NewGRPCClientWithConn(cc grpc.ClientConnInterface) *GRPCClient {
	return &GRPCClient{cc: cc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection when this client owns it.
func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region run-simulation
// RunSimulation sends req and returns the backend payload unmodified.
// A gRPC status error from the backend becomes a *TransportError whose Status
// is the gRPC code and whose Body is the status message.
func (c *GRPCClient) RunSimulation(ctx context.Context, req sim.Request) (*sim.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Op: "encode request", Err: err}
	}
	in := &structpb.Struct{}
	if err := protojson.Unmarshal(body, in); err != nil {
		return nil, &TransportError{Op: "encode request", Err: err}
	}

	out := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, SimulateMethod, in, out); err != nil {
		if st, ok := status.FromError(err); ok && answered(st.Code()) {
			return nil, &TransportError{Op: "rpc " + SimulateMethod, Status: int(st.Code()), Body: st.Message()}
		}
		return nil, &TransportError{Op: "rpc " + SimulateMethod, Err: err}
	}

	payload, err := protojson.Marshal(out)
	if err != nil {
		return nil, &TransportError{Op: "decode response", Err: err}
	}
	resp, err := sim.DecodeResponse(payload)
	if err != nil {
		return nil, &TransportError{Op: "decode response", Err: err}
	}
	return resp, nil
}

// answered separates backend-reported failures from calls that never completed.
func answered(code codes.Code) bool {
	switch code {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return false
	}
	return true
}

// #endregion run-simulation
