// Package braking provides the regenerative braking decision used by the rig.
//
// The rig only depends on the [Controller] interface. [Fuzzy] is the stock implementation:
// triangular memberships over speed, braking demand, battery charge and motor temperature,
// combined by a weighted-average rule base into a regeneration ratio.
package braking

import "math"

const gravity = 9.81

type Decision struct {
	RegenRatio     float64 // share of braking handled by the motor, [0,1]
	MotorTorque    float64 // N·m, regenerative (negative) torque magnitude
	FrontAxleForce float64 // N
}

type Controller interface {
	Compute(speed, intensity, soc, motorTemp float64) Decision
}

// Vehicle describes the geometry used for the axle split.
type Vehicle struct {
	Mass        float64 // kg
	Wheelbase   float64 // m
	CGHeight    float64 // m
	CGToFront   float64 // m, CG to front axle
	WheelRadius float64 // m
	GearRatio   float64
	MaxTorque   float64 // N·m at the motor
}

func DefaultVehicle() Vehicle {
	return Vehicle{
		Mass:        1650,
		Wheelbase:   2.8,
		CGHeight:    0.55,
		CGToFront:   1.25,
		WheelRadius: 0.32,
		GearRatio:   9.0,
		MaxTorque:   320,
	}
}

// FrontShare is the dynamic front-axle share of braking force at a deceleration in m/s².
func (v Vehicle) FrontShare(decel float64) float64 {
	if v.Wheelbase <= 0 {
		return 0.5
	}
	static := (v.Wheelbase - v.CGToFront) / v.Wheelbase
	transfer := v.CGHeight * math.Max(0, decel) / (gravity * v.Wheelbase)
	return clamp(static+transfer, 0, 1)
}

// Distribute splits a total braking force into front and rear axle forces.
func (v Vehicle) Distribute(total, decel float64) (front, rear float64) {
	share := v.FrontShare(decel)
	return total * share, total * (1 - share)
}

type Fuzzy struct {
	vehicle Vehicle
}

func NewFuzzy(v Vehicle) *Fuzzy {
	return &Fuzzy{vehicle: v}
}

type rule struct {
	weight float64
	ratio  float64
}

// Compute takes speed in km/h, intensity in [0,1], SOC in [0,1] and motor temperature in °C.
func (f *Fuzzy) Compute(speed, intensity, soc, motorTemp float64) Decision {
	intensity = clamp(intensity, 0, 1)
	if intensity == 0 {
		return Decision{}
	}

	slow := falling(speed, 10, 30)
	medium := triangle(speed, 20, 60, 100)
	fast := rising(speed, 80, 130)

	light := falling(intensity, 0.1, 0.4)
	moderate := triangle(intensity, 0.2, 0.5, 0.8)
	hard := rising(intensity, 0.6, 0.9)

	socLow := falling(soc, 0.3, 0.7)
	socHigh := rising(soc, 0.7, 0.95)

	cool := falling(motorTemp, 70, 110)
	hot := rising(motorTemp, 90, 130)

	rules := []rule{
		{math.Min(medium, light), 0.9},
		{math.Min(medium, moderate), 0.8},
		{math.Min(fast, light), 0.85},
		{math.Min(fast, moderate), 0.7},
		{hard, 0.35},
		{slow, 0.2},
		{math.Min(socLow, cool), 0.95},
		{socHigh, 0.1},
		{hot, 0.05},
	}

	var num, den float64
	for _, r := range rules {
		num += r.weight * r.ratio
		den += r.weight
	}
	ratio := 0.5
	if den > 0 {
		ratio = num / den
	}

	decel := intensity * gravity
	total := f.vehicle.Mass * decel
	front, _ := f.vehicle.Distribute(total, decel)

	torque := 0.0
	if f.vehicle.GearRatio > 0 {
		torque = front * ratio * f.vehicle.WheelRadius / f.vehicle.GearRatio
		torque = math.Min(torque, f.vehicle.MaxTorque)
	}

	return Decision{RegenRatio: ratio, MotorTorque: torque, FrontAxleForce: front}
}

func triangle(x, a, b, c float64) float64 {
	switch {
	case x <= a || x >= c:
		return 0
	case x <= b:
		return (x - a) / (b - a)
	default:
		return (c - x) / (c - b)
	}
}

func rising(x, a, b float64) float64 {
	return clamp((x-a)/(b-a), 0, 1)
}

func falling(x, a, b float64) float64 {
	return 1 - rising(x, a, b)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
