package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	_ "image/png"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

//go:embed *.png *.wav
var assetsFS embed.FS

const SampleRate = 44100

var (
	audioOnce    sync.Once
	audioContext *audio.Context

	imagesMu sync.Mutex
	images   = map[string]*ebiten.Image{}
)

// AudioContext returns the shared audio context, creating it on first use.
func AudioContext() *audio.Context {
	audioOnce.Do(func() {
		audioContext = audio.NewContext(SampleRate)
	})
	return audioContext
}

// LoadImage loads an embedded asset by assets-relative path. Images are
// decoded once and shared.
func LoadImage(path string) (*ebiten.Image, error) {
	clean := cleanAssetPath(path)

	imagesMu.Lock()
	defer imagesMu.Unlock()
	if img, ok := images[clean]; ok {
		return img, nil
	}

	src, err := DecodeImage(clean)
	if err != nil {
		return nil, err
	}
	img := ebiten.NewImageFromImage(src)
	images[clean] = img
	return img, nil
}

// DecodeImage decodes an embedded image without creating a GPU texture.
func DecodeImage(path string) (image.Image, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	return img, nil
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	return assetsFS.ReadFile(clean)
}

// LoadAudioPlayer loads an embedded audio asset and creates an audio player.
func LoadAudioPlayer(path string) (*audio.Player, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	ctx := AudioContext()
	clean := strings.ToLower(cleanAssetPath(path))
	reader := bytes.NewReader(b)

	if strings.HasSuffix(clean, ".wav") {
		stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), reader)
		if err != nil {
			return nil, fmt.Errorf("decode wav %q: %w", path, err)
		}
		return ctx.NewPlayer(stream)
	}

	// Raw PCM in Ebiten's native format.
	return ctx.NewPlayerFromBytes(b), nil
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "assets/") {
		return strings.TrimPrefix(s, "assets/")
	}
	return s
}
