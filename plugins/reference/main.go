// Reference capture device: synthesizes a tone instead of reading hardware,
// so the full recording flow can run on machines without a microphone.
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hashicorp/go-plugin"

	capturerpc "finquest/internal/modules/recording/adapter/out/rpc"
)

const (
	sampleRate = 16000
	toneHz     = 440.0
)

type server struct {
	mu         sync.Mutex
	recording  bool
	paused     bool
	startedAt  time.Time
	pausedFor  time.Duration
	pauseStart time.Time
	maxSeconds int
}

func (s *server) Describe(_ context.Context, _ *capturerpc.Empty) (*capturerpc.DeviceInfo, error) {
	return &capturerpc.DeviceInfo{
		Name:         "reference-capture",
		Version:      "1.0.0",
		SampleRateHz: sampleRate,
		Formats:      []string{"wav"},
	}, nil
}

func (s *server) Start(_ context.Context, in *capturerpc.StartRequest) (*capturerpc.Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording {
		return nil, fmt.Errorf("device busy")
	}
	s.recording = true
	s.paused = false
	s.startedAt = time.Now()
	s.pausedFor = 0
	s.maxSeconds = in.MaxSeconds
	return &capturerpc.Empty{}, nil
}

func (s *server) Pause(_ context.Context, _ *capturerpc.Empty) (*capturerpc.Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording || s.paused {
		return nil, fmt.Errorf("not recording")
	}
	s.paused = true
	s.pauseStart = time.Now()
	return &capturerpc.Empty{}, nil
}

func (s *server) Resume(_ context.Context, _ *capturerpc.Empty) (*capturerpc.Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording || !s.paused {
		return nil, fmt.Errorf("not paused")
	}
	s.paused = false
	s.pausedFor += time.Since(s.pauseStart)
	return &capturerpc.Empty{}, nil
}

func (s *server) Stop(_ context.Context, _ *capturerpc.Empty) (*capturerpc.StopResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording {
		return nil, fmt.Errorf("not recording")
	}
	elapsed := time.Since(s.startedAt) - s.pausedFor
	if s.paused {
		elapsed -= time.Since(s.pauseStart)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if s.maxSeconds > 0 && elapsed > time.Duration(s.maxSeconds)*time.Second {
		elapsed = time.Duration(s.maxSeconds) * time.Second
	}
	s.recording = false

	wav := synthesizeWAV(elapsed)
	return &capturerpc.StopResponse{
		AudioBase64: base64.StdEncoding.EncodeToString(wav),
		MIMEType:    "audio/wav",
		Millis:      elapsed.Milliseconds(),
	}, nil
}

func (s *server) Abort(_ context.Context, _ *capturerpc.Empty) (*capturerpc.Empty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recording = false
	s.paused = false
	return &capturerpc.Empty{}, nil
}

func synthesizeWAV(d time.Duration) []byte {
	samples := int(d.Seconds() * sampleRate)
	if samples < sampleRate/10 {
		samples = sampleRate / 10
	}
	pcm := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		v := int16(8000 * math.Sin(2*math.Pi*toneHz*float64(i)/sampleRate))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(v))
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: capturerpc.HandshakeConfig,
		Plugins:         capturerpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
