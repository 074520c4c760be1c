package pipeline

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
)

// deviceReadyTimeout bounds how long we wait for the output device to accept
// the negotiated configuration before giving up at startup.
const deviceReadyTimeout = 5 * time.Second

// negotiateDevice opens the system default output device once, with the rate
// forced to the engine's output rate (mono float32). There is no renegotiation:
// a missing device or a refused configuration aborts startup.
func negotiateDevice(rate int) (*oto.Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoOutputDevice, err)
	}

	select {
	case <-ready:
	case <-time.After(deviceReadyTimeout):
		return nil, fmt.Errorf("%w: device not ready after %s", domain.ErrNoSupportedConfig, deviceReadyTimeout)
	}

	return ctx, nil
}
