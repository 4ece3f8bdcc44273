package audio

import (
	"context"
	"reflect"
	"testing"

	pulseproto "github.com/jfreymuth/pulse/proto"
	"github.com/stretchr/testify/require"
)

func TestSelectFromDefault(t *testing.T) {
	devices := []Device{
		{ID: "elgato", Description: "Elgato Wave 3 Mono", Available: true, Default: true},
		{ID: "webcam", Description: "C920 Webcam", Available: true},
	}

	selection, err := selectFrom(devices, DefaultInput)
	require.NoError(t, err)
	require.Equal(t, "elgato", selection.Device.ID)
	require.Empty(t, selection.Warning)

	selection, err = selectFrom(devices, "")
	require.NoError(t, err)
	require.Equal(t, "elgato", selection.Device.ID)
}

func TestSelectFromMatchesDescription(t *testing.T) {
	devices := []Device{
		{ID: "elgato", Description: "Elgato Wave 3 Mono", Available: true, Default: true},
		{ID: "alsa_input.usb-046d", Description: "C920 Webcam", Available: true},
	}

	selection, err := selectFrom(devices, "C920")
	require.NoError(t, err)
	require.Equal(t, "alsa_input.usb-046d", selection.Device.ID)
}

func TestSelectFromMutedInputFallsBackToDefault(t *testing.T) {
	devices := []Device{
		{ID: "elgato", Available: true, Default: true},
		{ID: "webcam", Available: true, Muted: true},
	}

	selection, err := selectFrom(devices, "webcam")
	require.NoError(t, err)
	require.Equal(t, "elgato", selection.Device.ID)
	require.Contains(t, selection.Warning, "muted")
}

func TestSelectFromFailures(t *testing.T) {
	_, err := selectFrom(nil, DefaultInput)
	require.ErrorContains(t, err, "no audio input devices")

	devices := []Device{{ID: "elgato", Available: true, Muted: true, Default: true}}
	_, err = selectFrom(devices, DefaultInput)
	require.ErrorContains(t, err, "is muted")

	_, err = selectFrom(devices, "missing")
	require.ErrorContains(t, err, "did not match")

	_, err = selectFrom([]Device{{ID: "webcam", Available: true}}, DefaultInput)
	require.ErrorContains(t, err, "default audio source is unavailable")

	unplugged := []Device{
		{ID: "elgato", Available: false, Default: true},
		{ID: "webcam", Available: false},
	}
	_, err = selectFrom(unplugged, "webcam")
	require.ErrorContains(t, err, `"webcam" is unavailable`)
}

func TestDevicesFromInfos(t *testing.T) {
	unplugged := &pulseproto.GetSourceInfoReply{SourceName: "headset", Device: "Headset Mic", ActivePortName: "mic", State: 2}
	setSourcePorts(t, unplugged, []sourcePort{{name: "mic", available: 1}})

	infos := pulseproto.GetSourceInfoListReply{
		{SourceName: "elgato", Device: "Elgato Wave 3", State: 0},
		nil,
		unplugged,
	}

	devices := devicesFromInfos(infos, "elgato")
	require.Len(t, devices, 2)
	require.Equal(t, Device{ID: "elgato", Description: "Elgato Wave 3", State: "running", Available: true, Default: true}, devices[0])
	require.Equal(t, "suspended", devices[1].State)
	require.False(t, devices[1].Available)
	require.False(t, devices[1].Usable())
}

func TestSourceState(t *testing.T) {
	require.Equal(t, "running", sourceState(0))
	require.Equal(t, "idle", sourceState(1))
	require.Equal(t, "suspended", sourceState(2))
	require.Equal(t, "unknown(99)", sourceState(99))
}

func TestPortAvailable(t *testing.T) {
	require.True(t, portAvailable(&pulseproto.GetSourceInfoReply{}))

	available := &pulseproto.GetSourceInfoReply{ActivePortName: "mic"}
	setSourcePorts(t, available, []sourcePort{{name: "mic", available: 2}})
	require.True(t, portAvailable(available))

	unknown := &pulseproto.GetSourceInfoReply{ActivePortName: "mic"}
	setSourcePorts(t, unknown, []sourcePort{{name: "line", available: 1}, {name: "mic", available: 0}})
	require.True(t, portAvailable(unknown))

	missing := &pulseproto.GetSourceInfoReply{ActivePortName: "mic"}
	setSourcePorts(t, missing, []sourcePort{{name: "mic", available: 1}})
	require.False(t, portAvailable(missing))
}

func TestListDevicesFailsWhenPulseUnavailable(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")

	_, err := ListDevices(context.Background())
	require.Error(t, err)

	_, err = SelectDevice(context.Background(), DefaultInput)
	require.Error(t, err)
}

type sourcePort struct {
	name      string
	available uint32
}

// setSourcePorts fills the anonymous port slice of a source reply.
func setSourcePorts(t *testing.T, reply *pulseproto.GetSourceInfoReply, ports []sourcePort) {
	t.Helper()

	sliceValue := reflect.MakeSlice(reflect.TypeOf(reply.Ports), len(ports), len(ports))
	for i, port := range ports {
		item := sliceValue.Index(i)
		item.FieldByName("Name").SetString(port.name)
		item.FieldByName("Available").SetUint(uint64(port.available))
	}
	reflect.ValueOf(reply).Elem().FieldByName("Ports").Set(sliceValue)
}
