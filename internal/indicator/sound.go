package indicator

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jfreymuth/pulse"
	"github.com/rbright/nova/internal/config"
)

type cueKind int

const (
	cueWake cueKind = iota + 1
	cueDone
	cueMiss
)

func (k cueKind) String() string {
	switch k {
	case cueWake:
		return "wake"
	case cueDone:
		return "done"
	case cueMiss:
		return "miss"
	default:
		return "unknown"
	}
}

const cueSampleRate = 16000

type toneSpec struct {
	frequencyHz float64
	duration    time.Duration
	volume      float64
}

var (
	wakeCuePCM = synthesizeCue([]toneSpec{
		{frequencyHz: 880, duration: 70 * time.Millisecond, volume: 0.18},
		{frequencyHz: 1175, duration: 70 * time.Millisecond, volume: 0.18},
	})
	doneCuePCM = synthesizeCue([]toneSpec{
		{frequencyHz: 740, duration: 65 * time.Millisecond, volume: 0.18},
		{frequencyHz: 988, duration: 90 * time.Millisecond, volume: 0.18},
	})
	missCuePCM = synthesizeCue([]toneSpec{
		{frequencyHz: 480, duration: 75 * time.Millisecond, volume: 0.18},
		{frequencyHz: 360, duration: 90 * time.Millisecond, volume: 0.18},
	})
)

// emitCue plays the configured cue file, falling back to the synthesized tone.
func emitCue(ctx context.Context, kind cueKind, cfg config.IndicatorConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if path := cuePath(kind, cfg); path != "" {
		if err := playCueFile(ctx, path); err == nil {
			return nil
		}
	}

	samples := cueSamples(kind)
	if len(samples) == 0 {
		return nil
	}

	return playSynthCue(samples, kind)
}

func cuePath(kind cueKind, cfg config.IndicatorConfig) string {
	var raw string
	switch kind {
	case cueWake:
		raw = cfg.SoundWake
	case cueDone:
		raw = cfg.SoundDone
	case cueMiss:
		raw = cfg.SoundMiss
	default:
		return ""
	}
	return expandUserPath(raw)
}

func expandUserPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if raw == "~" || strings.HasPrefix(raw, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return raw
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(raw, "~"), "/"))
	}
	return raw
}

func playCueFile(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("stat cue file %q: %w", path, err)
	}

	cmd := exec.CommandContext(ctx, "pw-play", "--media-role", "Notification", path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play cue file %q: %w", path, err)
	}
	return nil
}

func playSynthCue(samples []int16, kind cueKind) error {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("nova"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	cursor := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if cursor >= len(samples) {
			return 0, pulse.EndOfData
		}

		n := copy(buf, samples[cursor:])
		cursor += n
		if cursor >= len(samples) {
			return n, pulse.EndOfData
		}
		return n, nil
	})

	stream, err := client.NewPlayback(
		reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(cueSampleRate),
		pulse.PlaybackLatency(0.02),
		pulse.PlaybackMediaName("nova "+kind.String()+" cue"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play cue stream: %w", err)
	}

	return nil
}

func cueSamples(kind cueKind) []int16 {
	switch kind {
	case cueWake:
		return wakeCuePCM
	case cueDone:
		return doneCuePCM
	case cueMiss:
		return missCuePCM
	default:
		return nil
	}
}

func synthesizeCue(parts []toneSpec) []int16 {
	if len(parts) == 0 {
		return nil
	}
	gapSamples := samplesForDuration(22 * time.Millisecond)
	total := 0
	for i, part := range parts {
		total += samplesForDuration(part.duration)
		if i < len(parts)-1 {
			total += gapSamples
		}
	}

	pcm := make([]int16, 0, total)
	for i, part := range parts {
		pcm = append(pcm, synthesizeTone(part)...)
		if i < len(parts)-1 && gapSamples > 0 {
			pcm = append(pcm, make([]int16, gapSamples)...)
		}
	}

	return pcm
}

func synthesizeTone(spec toneSpec) []int16 {
	n := samplesForDuration(spec.duration)
	if n <= 0 || spec.frequencyHz <= 0 || spec.volume <= 0 {
		return nil
	}

	ramp := min(n/10, cueSampleRate/200) // 5ms cap
	ramp = max(ramp, 1)

	pcm := make([]int16, n)
	for i := range n {
		envelope := 1.0
		if i < ramp {
			envelope = float64(i) / float64(ramp)
		}
		if tail := n - i - 1; tail < ramp {
			envelope = math.Min(envelope, float64(tail)/float64(ramp))
		}
		t := float64(i) / cueSampleRate
		sample := math.Sin(2 * math.Pi * spec.frequencyHz * t)
		pcm[i] = int16(math.Round(sample * spec.volume * envelope * 32767))
	}

	return pcm
}

func samplesForDuration(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * cueSampleRate))
}
