package out

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"finquest/internal/modules/recording/domain"
	capturerpc "finquest/internal/modules/recording/adapter/out/rpc"
	recordingout "finquest/internal/modules/recording/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// PluginDevice talks to an external capture helper over the go-plugin gRPC
// contract. Audio acquisition needs platform bindings this process does not
// carry, so the device lives in its own binary. Unlike a per-call host, the
// plugin process is held alive from Acquire until the stream ends.
type PluginDevice struct {
	binary string
}

func NewPluginDevice(binary string) recordingout.Device {
	return &PluginDevice{binary: binary}
}

func (d *PluginDevice) Acquire(ctx context.Context) (recordingout.Stream, error) {
	if d.binary == "" {
		return nil, fmt.Errorf("no capture plugin configured")
	}
	client, typed, err := d.connect()
	if err != nil {
		return nil, err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	if err := typed.Start(callCtx, &capturerpc.StartRequest{MaxSeconds: domain.MaxSeconds}); err != nil {
		client.Kill()
		return nil, fmt.Errorf("start capture: %w", err)
	}
	return &pluginStream{client: client, rpc: typed}, nil
}

// Check spins the plugin up, asks it to describe itself, and tears it down.
func (d *PluginDevice) Check(ctx context.Context) (string, error) {
	if d.binary == "" {
		return "", fmt.Errorf("no capture plugin configured")
	}
	client, typed, err := d.connect()
	if err != nil {
		return "", err
	}
	defer client.Kill()
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	info, err := typed.Describe(callCtx)
	if err != nil {
		return "", fmt.Errorf("describe capture device: %w", err)
	}
	return fmt.Sprintf("%s %s (%d Hz)", info.Name, info.Version, info.SampleRateHz), nil
}

func (d *PluginDevice) connect() (*plugin.Client, capturerpc.CaptureDeviceClient, error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  capturerpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          capturerpc.PluginMap(nil),
		Cmd:              exec.Command(d.binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, nil, fmt.Errorf("start capture plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(capturerpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, nil, fmt.Errorf("dispense capture plugin: %w", err)
	}
	typed, ok := raw.(capturerpc.CaptureDeviceClient)
	if !ok {
		client.Kill()
		return nil, nil, fmt.Errorf("capture rpc client type mismatch")
	}
	return client, typed, nil
}

type pluginStream struct {
	client *plugin.Client
	rpc    capturerpc.CaptureDeviceClient
}

func (s *pluginStream) Pause(ctx context.Context) error {
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	if err := s.rpc.Pause(callCtx); err != nil {
		return fmt.Errorf("pause capture: %w", err)
	}
	return nil
}

func (s *pluginStream) Resume(ctx context.Context) error {
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	if err := s.rpc.Resume(callCtx); err != nil {
		return fmt.Errorf("resume capture: %w", err)
	}
	return nil
}

func (s *pluginStream) Stop(ctx context.Context) (domain.Clip, error) {
	defer s.client.Kill()
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	resp, err := s.rpc.Stop(callCtx)
	if err != nil {
		return domain.Clip{}, fmt.Errorf("stop capture: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(resp.AudioBase64)
	if err != nil {
		return domain.Clip{}, fmt.Errorf("decode captured audio: %w", err)
	}
	return domain.Clip{Data: data, MIMEType: resp.MIMEType, Millis: int(resp.Millis)}, nil
}

func (s *pluginStream) Abort(ctx context.Context) error {
	defer s.client.Kill()
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	if err := s.rpc.Abort(callCtx); err != nil {
		return fmt.Errorf("abort capture: %w", err)
	}
	return nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
