// Package audio inspects the Pulse input sources the listen command records from.
package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

// DefaultInput selects the server's default source.
const DefaultInput = "default"

// Device describes one Pulse input source.
type Device struct {
	ID          string
	Description string
	State       string
	Available   bool
	Muted       bool
	Default     bool
}

// Usable reports whether the source can record right now.
func (d Device) Usable() bool {
	return d.Available && !d.Muted
}

// Selection is the source the configured input resolves to.
type Selection struct {
	Device  Device
	Warning string
}

// ListDevices returns the Pulse input sources, marking the server default.
func ListDevices(_ context.Context) ([]Device, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("nova"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	defaultSource, err := client.DefaultSource()
	if err != nil {
		return nil, fmt.Errorf("read default source: %w", err)
	}

	var infos pulseproto.GetSourceInfoListReply
	if err := client.RawRequest(&pulseproto.GetSourceInfoList{}, &infos); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return devicesFromInfos(infos, defaultSource.ID()), nil
}

func devicesFromInfos(infos pulseproto.GetSourceInfoListReply, defaultID string) []Device {
	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		if info == nil {
			continue
		}
		devices = append(devices, Device{
			ID:          info.SourceName,
			Description: info.Device,
			State:       sourceState(info.State),
			Available:   portAvailable(info),
			Muted:       info.Mute,
			Default:     info.SourceName == defaultID,
		})
	}
	return devices
}

// SelectDevice resolves input against the live sources.
func SelectDevice(ctx context.Context, input string) (Selection, error) {
	devices, err := ListDevices(ctx)
	if err != nil {
		return Selection{}, err
	}
	return selectFrom(devices, input)
}

// selectFrom matches input by id or description, falling back to the
// default source when the match cannot record.
func selectFrom(devices []Device, input string) (Selection, error) {
	if len(devices) == 0 {
		return Selection{}, errors.New("no audio input devices found")
	}

	input = strings.ToLower(strings.TrimSpace(input))
	var defaultDevice, matched *Device
	for i := range devices {
		dev := &devices[i]
		if dev.Default {
			defaultDevice = dev
		}
		if matched == nil && input != "" && input != DefaultInput && matches(*dev, input) {
			matched = dev
		}
	}

	if input != "" && input != DefaultInput && matched == nil {
		return Selection{}, fmt.Errorf("listen.input %q did not match any device", input)
	}
	if matched == nil {
		if defaultDevice == nil {
			return Selection{}, errors.New("default audio source is unavailable")
		}
		matched = defaultDevice
	}
	if matched.Usable() {
		return Selection{Device: *matched}, nil
	}

	reason := "unavailable"
	if matched.Muted {
		reason = "muted"
	}
	if defaultDevice == nil || defaultDevice.ID == matched.ID || !defaultDevice.Usable() {
		return Selection{}, fmt.Errorf("audio source %q is %s", matched.ID, reason)
	}
	return Selection{
		Device:  *defaultDevice,
		Warning: fmt.Sprintf("audio source %q is %s; default %q will record", matched.ID, reason, defaultDevice.ID),
	}, nil
}

func matches(device Device, term string) bool {
	return strings.Contains(strings.ToLower(device.ID), term) ||
		strings.Contains(strings.ToLower(device.Description), term)
}

func sourceState(state uint32) string {
	switch state {
	case 0:
		return "running"
	case 1:
		return "idle"
	case 2:
		return "suspended"
	default:
		return fmt.Sprintf("unknown(%d)", state)
	}
}

// portAvailable treats sources without ports, and ports of unknown
// availability, as usable.
func portAvailable(info *pulseproto.GetSourceInfoReply) bool {
	for _, port := range info.Ports {
		if port.Name == info.ActivePortName {
			// unknown=0, no=1, yes=2
			return port.Available != 1
		}
	}
	return true
}
