package vehicle

import "time"

// Corner identifies one suspension position.
type Corner int

const (
	FrontLeft Corner = iota
	FrontRight
	RearLeft
	RearRight
	NumCorners
)

var cornerNames = [NumCorners]string{"front-left", "front-right", "rear-left", "rear-right"}

func (c Corner) String() string {
	if c < 0 || c >= NumCorners {
		return "unknown"
	}
	return cornerNames[c]
}

// Corners lists every position in storage order.
func Corners() [NumCorners]Corner {
	return [NumCorners]Corner{FrontLeft, FrontRight, RearLeft, RearRight}
}

type Vec3 struct {
	X, Y, Z float64
}

// Orientation angles are in radians.
type Orientation struct {
	Roll, Pitch, Yaw float64
}

type Motion struct {
	Speed        float64 // km/h
	Acceleration float64 // m/s²
	Position     Vec3    // m
	Orientation  Orientation
}

type SuspensionCorner struct {
	ID           Corner
	Displacement float64 // m
	Velocity     float64 // m/s
	Force        float64 // N, written from the damper output
	Temperature  float64 // °C
}

type SystemStatus struct {
	BatterySOC     float64
	Temperature    float64 // °C, hottest corner
	PowerDraw      float64 // W
	RecoveredPower float64 // W
}

// State holds no slices, so a plain copy is a full snapshot.
type State struct {
	Timestamp time.Time
	Elapsed   float64 // s since test start
	Motion    Motion
	Corners   [NumCorners]SuspensionCorner
	Status    SystemStatus
}

func (s State) Clone() State { return s }

// MaxCornerTemperature returns the hottest corner and its temperature.
func (s State) MaxCornerTemperature() (Corner, float64) {
	hottest := FrontLeft
	for _, c := range Corners() {
		if s.Corners[c].Temperature > s.Corners[hottest].Temperature {
			hottest = c
		}
	}
	return hottest, s.Corners[hottest].Temperature
}
