package spotify

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/zmb3/spotify/v2"

	"github.com/osa030/tunequiz/internal/domain/song"
)

// ErrNoDevice is returned when no Spotify Connect device can be used.
var ErrNoDevice = errors.New("no spotify connect device available")

// Output plays songs on a Spotify Connect device.
type Output struct {
	client     *Client
	deviceName string

	mu       sync.Mutex
	deviceID *spotify.ID
}

// NewOutput creates a Spotify Connect output. An empty deviceName picks
// the active device, or the first one listed.
func NewOutput(client *Client, deviceName string) *Output {
	return &Output{client: client, deviceName: deviceName}
}

// Play starts s on the device, replacing whatever is playing.
func (o *Output) Play(ctx context.Context, s song.Song) error {
	if s.Source != song.SourceSpotify {
		return errors.Newf("spotify output cannot play %s songs", s.Source)
	}
	id, err := o.device(ctx)
	if err != nil {
		return err
	}

	err = o.client.retry(ctx, "play", func() error {
		return o.client.client.PlayOpt(ctx, &spotify.PlayOptions{
			DeviceID: id,
			URIs:     []spotify.URI{spotify.URI(s.Location)},
		})
	})
	if err != nil {
		o.forgetDevice()
		return errors.Wrapf(err, "failed to play %s", s.Location)
	}
	return nil
}

// Pause pauses playback on the device.
func (o *Output) Pause(ctx context.Context) error {
	id, err := o.device(ctx)
	if err != nil {
		return err
	}
	if err := o.client.client.PauseOpt(ctx, &spotify.PlayOptions{DeviceID: id}); err != nil {
		return errors.Wrap(err, "failed to pause")
	}
	return nil
}

// Resume continues playback on the device.
func (o *Output) Resume(ctx context.Context) error {
	id, err := o.device(ctx)
	if err != nil {
		return err
	}
	if err := o.client.client.PlayOpt(ctx, &spotify.PlayOptions{DeviceID: id}); err != nil {
		return errors.Wrap(err, "failed to resume")
	}
	return nil
}

// Stop pauses the device. Spotify has no stop; an already paused player
// answers with an error that is ignored.
func (o *Output) Stop(ctx context.Context) error {
	if err := o.Pause(ctx); err != nil {
		zlog.Debug().Err(err).Msg("spotify: stop ignored")
	}
	return nil
}

// Close releases nothing; the device keeps its state.
func (o *Output) Close() error {
	return nil
}

func (o *Output) device(ctx context.Context) (*spotify.ID, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.deviceID != nil {
		return o.deviceID, nil
	}

	devices, err := o.client.client.PlayerDevices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}

	picked := pickDevice(devices, o.deviceName)
	if picked == nil {
		if o.deviceName != "" {
			return nil, errors.Wrapf(ErrNoDevice, "device %q not found", o.deviceName)
		}
		return nil, ErrNoDevice
	}

	zlog.Info().Msgf("spotify: using device: name=%s type=%s", picked.Name, picked.Type)
	id := picked.ID
	o.deviceID = &id
	return o.deviceID, nil
}

// pickDevice returns the device called name, or without a name the active
// device falling back to the first unrestricted one.
func pickDevice(devices []spotify.PlayerDevice, name string) *spotify.PlayerDevice {
	var fallback *spotify.PlayerDevice
	for i := range devices {
		d := &devices[i]
		if d.Restricted {
			continue
		}
		if name != "" {
			if strings.EqualFold(d.Name, name) {
				return d
			}
			continue
		}
		if d.Active {
			return d
		}
		if fallback == nil {
			fallback = d
		}
	}
	return fallback
}

func (o *Output) forgetDevice() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deviceID = nil
}
