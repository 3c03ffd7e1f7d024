package component

// Pickup is a collectible effect placed in the world. The effect manager owns
// what the pickup does; this component only drives how it looks.
type Pickup struct {
	Label        string
	BaseY        float64
	BobAmplitude float64
	BobSpeed     float64
	BobPhase     float64
	Initialized  bool
}

var PickupComponent = NewComponent[Pickup]("pickup")
