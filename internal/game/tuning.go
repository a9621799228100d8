package game

import "time"

const (
	TickInterval = 100 * time.Millisecond

	SpawnChance   = 0.05 // per tick, independent draws
	MaxLive       = 5
	LifetimeTicks = 300

	SpawnMinX = 500.0
	SpawnMaxX = 3500.0
	SpawnMinY = 250.0
	SpawnMaxY = 2750.0
)
