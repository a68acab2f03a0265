package domain

type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StatePaused    State = "paused"
	StateRecorded  State = "recorded"
	StateFailed    State = "failed"
)

// Clip is the finalized audio payload handed back by the capture device.
type Clip struct {
	Data     []byte
	MIMEType string
	Millis   int
}

// MaxSeconds bounds a single recording; the device cuts the stream off on
// its own once reached.
const MaxSeconds = 30
