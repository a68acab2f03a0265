package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey   = "finquest-capture"
	serviceName    = "finquest.capture.v1.CaptureDevice"
	jsonCodecName  = "json"
	methodDescribe = "/" + serviceName + "/Describe"
	methodStart    = "/" + serviceName + "/Start"
	methodPause    = "/" + serviceName + "/Pause"
	methodResume   = "/" + serviceName + "/Resume"
	methodStop     = "/" + serviceName + "/Stop"
	methodAbort    = "/" + serviceName + "/Abort"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "FINQUEST_CAPTURE",
	MagicCookieValue: "finquest",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type DeviceInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	SampleRateHz int      `json:"sample_rate_hz"`
	Formats      []string `json:"formats"`
}

type StartRequest struct {
	SampleRateHz int `json:"sample_rate_hz"`
	MaxSeconds   int `json:"max_seconds"`
}

type StopResponse struct {
	AudioBase64 string `json:"audio_base64"`
	MIMEType    string `json:"mime_type"`
	Millis      int64  `json:"millis"`
}

type CaptureDeviceServer interface {
	Describe(ctx context.Context, in *Empty) (*DeviceInfo, error)
	Start(ctx context.Context, in *StartRequest) (*Empty, error)
	Pause(ctx context.Context, in *Empty) (*Empty, error)
	Resume(ctx context.Context, in *Empty) (*Empty, error)
	Stop(ctx context.Context, in *Empty) (*StopResponse, error)
	Abort(ctx context.Context, in *Empty) (*Empty, error)
}

type CaptureDeviceClient interface {
	Describe(ctx context.Context) (*DeviceInfo, error)
	Start(ctx context.Context, in *StartRequest) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) (*StopResponse, error)
	Abort(ctx context.Context) error
}

type captureDeviceClient struct {
	conn *grpc.ClientConn
}

func NewCaptureDeviceClient(conn *grpc.ClientConn) CaptureDeviceClient {
	return &captureDeviceClient{conn: conn}
}

func (c *captureDeviceClient) Describe(ctx context.Context) (*DeviceInfo, error) {
	out := &DeviceInfo{}
	if err := c.conn.Invoke(ctx, methodDescribe, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *captureDeviceClient) Start(ctx context.Context, in *StartRequest) error {
	return c.conn.Invoke(ctx, methodStart, in, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func (c *captureDeviceClient) Pause(ctx context.Context) error {
	return c.conn.Invoke(ctx, methodPause, &Empty{}, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func (c *captureDeviceClient) Resume(ctx context.Context) error {
	return c.conn.Invoke(ctx, methodResume, &Empty{}, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func (c *captureDeviceClient) Stop(ctx context.Context) (*StopResponse, error) {
	out := &StopResponse{}
	if err := c.conn.Invoke(ctx, methodStop, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *captureDeviceClient) Abort(ctx context.Context) error {
	return c.conn.Invoke(ctx, methodAbort, &Empty{}, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func unary[Req any](method string, call func(srv CaptureDeviceServer, ctx context.Context, in *Req) (any, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		impl, ok := srv.(CaptureDeviceServer)
		if !ok {
			return nil, fmt.Errorf("invalid server type")
		}
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(impl, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(impl, ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterCaptureDeviceServer(server grpc.ServiceRegistrar, impl CaptureDeviceServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*CaptureDeviceServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Describe", Handler: unary[Empty](methodDescribe, func(srv CaptureDeviceServer, ctx context.Context, in *Empty) (any, error) {
				return srv.Describe(ctx, in)
			})},
			{MethodName: "Start", Handler: unary[StartRequest](methodStart, func(srv CaptureDeviceServer, ctx context.Context, in *StartRequest) (any, error) {
				return srv.Start(ctx, in)
			})},
			{MethodName: "Pause", Handler: unary[Empty](methodPause, func(srv CaptureDeviceServer, ctx context.Context, in *Empty) (any, error) {
				return srv.Pause(ctx, in)
			})},
			{MethodName: "Resume", Handler: unary[Empty](methodResume, func(srv CaptureDeviceServer, ctx context.Context, in *Empty) (any, error) {
				return srv.Resume(ctx, in)
			})},
			{MethodName: "Stop", Handler: unary[Empty](methodStop, func(srv CaptureDeviceServer, ctx context.Context, in *Empty) (any, error) {
				return srv.Stop(ctx, in)
			})},
			{MethodName: "Abort", Handler: unary[Empty](methodAbort, func(srv CaptureDeviceServer, ctx context.Context, in *Empty) (any, error) {
				return srv.Abort(ctx, in)
			})},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/capture-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl CaptureDeviceServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterCaptureDeviceServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewCaptureDeviceClient(conn), nil
}

func PluginMap(impl CaptureDeviceServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
