package event

const (
	PowerUpSpawned   EventType = "PowerUpSpawned"
	PowerUpExpired   EventType = "PowerUpExpired"
	PowerUpCollected EventType = "PowerUpCollected"
	GoldGranted      EventType = "GoldGranted"
)
