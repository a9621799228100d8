package game

// Kind is the fixed power-up enumeration.
type Kind string

const (
	KindShield Kind = "shield"
	KindSpeed  Kind = "speed"
	KindHeal   Kind = "heal"
	KindDamage Kind = "damage"
)

// kinds in spawn-draw order; the spawner picks uniformly from this slice.
var kinds = []Kind{KindShield, KindSpeed, KindHeal, KindDamage}

// PowerUp is a transient collectible on the playfield. Lifetime is counted in
// ticks and is always > 0 while the entity is live.
type PowerUp struct {
	ID                int64
	Kind              Kind
	X, Y              float64
	RemainingLifetime int
}

// Display is the rendering metadata the UI looks up per kind.
type Display struct {
	Icon  string
	Color string
	Label string
}

var kindDisplay = map[Kind]Display{
	KindShield: {Icon: "🛡️", Color: "#3b82f6", Label: "Shield"},
	KindSpeed:  {Icon: "⚡", Color: "#facc15", Label: "Speed"},
	KindHeal:   {Icon: "💚", Color: "#22c55e", Label: "Heal"},
	KindDamage: {Icon: "⚔️", Color: "#ef4444", Label: "Damage"},
}

// DisplayFor returns the display metadata for a kind. Unknown kinds get a
// zero Display rather than a panic; the enumeration is closed in practice.
func DisplayFor(k Kind) Display {
	return kindDisplay[k]
}

// CollectReward is the gold credited when a power-up of the kind is collected.
var CollectReward = map[Kind]int{
	KindShield: 25,
	KindSpeed:  25,
	KindHeal:   40,
	KindDamage: 50,
}
