package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	DefaultCoinLaunchVelocity = 8.0
	DefaultCoinLifetime       = 2.0
	DefaultBounceHeight       = 0.2
	DefaultBounceDuration     = 0.15
	// CoinSpawnOffset is how far above the rest position coins appear.
	CoinSpawnOffset = 0.5
	// HitNormalThreshold is the minimum upward contact normal that counts as
	// a hit from below (about a 60 degree cone).
	HitNormalThreshold = 0.5
)

// BouncePhase is the step of the hit animation a block is in.
type BouncePhase int

const (
	BounceIdle BouncePhase = iota
	BounceAscending
	BouncePeakEmit
	BounceDescending
)

func (p BouncePhase) String() string {
	switch p {
	case BounceIdle:
		return "idle"
	case BounceAscending:
		return "ascending"
	case BouncePeakEmit:
		return "peak_emit"
	case BounceDescending:
		return "descending"
	default:
		return "unknown"
	}
}

// BlockState is the mutable state of one question block.
type BlockState struct {
	Hit          bool
	Bouncing     bool
	RestPosition mgl64.Vec3
	Phase        BouncePhase
	Elapsed      float64
	Initialized  bool
}

// QuestionBlock holds a block's configuration and its state.
type QuestionBlock struct {
	CoinPrefab         string
	CoinLaunchVelocity float64
	CoinLifetime       float64
	BounceHeight       float64
	BounceDuration     float64
	EmptySprite        *ebiten.Image

	State BlockState
}

// Peak is the top of the bounce.
func (q *QuestionBlock) Peak() mgl64.Vec3 {
	return q.State.RestPosition.Add(mgl64.Vec3{0, q.BounceHeight, 0})
}

// CoinSpawnPoint is where the block emits its coin.
func (q *QuestionBlock) CoinSpawnPoint() mgl64.Vec3 {
	return q.State.RestPosition.Add(mgl64.Vec3{0, CoinSpawnOffset, 0})
}

var QuestionBlockComponent = NewComponent[QuestionBlock]()
