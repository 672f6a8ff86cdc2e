package analysis

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// AxisOrder names an Euler (repeated axis) or Tait-Bryan (distinct axes)
// rotation sequence.
type AxisOrder string

const (
	OrderXZX AxisOrder = "xzx"
	OrderXYX AxisOrder = "xyx"
	OrderYXY AxisOrder = "yxy"
	OrderYZY AxisOrder = "yzy"
	OrderZYZ AxisOrder = "zyz"
	OrderZXZ AxisOrder = "zxz"
	OrderXYZ AxisOrder = "xyz"
	OrderXZY AxisOrder = "xzy"
	OrderYXZ AxisOrder = "yxz"
	OrderYZX AxisOrder = "yzx"
	OrderZYX AxisOrder = "zyx"
	OrderZXY AxisOrder = "zxy"
)

// AxisOrders lists every supported sequence.
var AxisOrders = []AxisOrder{
	OrderXZX, OrderXYX, OrderYXY, OrderYZY, OrderZYZ, OrderZXZ,
	OrderXYZ, OrderXZY, OrderYXZ, OrderYZX, OrderZYX, OrderZXY,
}

// ErrUnknownAxisOrder is returned for a sequence with no closed form.
var ErrUnknownAxisOrder = errors.New("unknown axis order")

// ParseAxisOrder maps a name such as "zyx" to its AxisOrder.
func ParseAxisOrder(name string) (AxisOrder, error) {
	order := AxisOrder(strings.ToLower(strings.TrimSpace(name)))
	for _, o := range AxisOrders {
		if o == order {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAxisOrder, name)
}

// Unit is the angle unit of rotation inputs.
type Unit int

const (
	Degrees Unit = iota
	Radians
)

// ParseUnit maps "deg"/"degrees" and "rad"/"radians" to a Unit.
func ParseUnit(name string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "deg", "degree", "degrees":
		return Degrees, nil
	case "rad", "radian", "radians":
		return Radians, nil
	}
	return 0, fmt.Errorf("unknown angle unit %q", name)
}

func (u Unit) toRadians(theta float64) float64 {
	if u == Degrees {
		return theta * math.Pi / 180.0
	}
	return theta
}

// RotationMatrix returns the 3x3 matrix of the intrinsic rotation by theta1,
// theta2 and theta3 about the axes of order, in that sequence.
func RotationMatrix(theta1, theta2, theta3 float64, order AxisOrder, unit Unit) (*mat.Dense, error) {
	t1, t2, t3 := unit.toRadians(theta1), unit.toRadians(theta2), unit.toRadians(theta3)
	s1, c1 := math.Sincos(t1)
	s2, c2 := math.Sincos(t2)
	s3, c3 := math.Sincos(t3)

	var m []float64
	switch order {
	case OrderXZX:
		m = []float64{
			c2, -c3 * s2, s2 * s3,
			c1 * s2, c1*c2*c3 - s1*s3, -c3*s1 - c1*c2*s3,
			s1 * s2, c1*s3 + c2*c3*s1, c1*c3 - c2*s1*s3,
		}
	case OrderXYX:
		m = []float64{
			c2, s2 * s3, c3 * s2,
			s1 * s2, c1*c3 - c2*s1*s3, -c1*s3 - c2*c3*s1,
			-c1 * s2, c3*s1 + c1*c2*s3, c1*c2*c3 - s1*s3,
		}
	case OrderYXY:
		m = []float64{
			c1*c3 - c2*s1*s3, s1 * s2, c1*s3 + c2*c3*s1,
			s2 * s3, c2, -c3 * s2,
			-c3*s1 - c1*c2*s3, c1 * s2, c1*c2*c3 - s1*s3,
		}
	case OrderYZY:
		m = []float64{
			c1*c2*c3 - s1*s3, -c1 * s2, c3*s1 + c1*c2*s3,
			c3 * s2, c2, s2 * s3,
			-c1*s3 - c2*c3*s1, s1 * s2, c1*c3 - c2*s1*s3,
		}
	case OrderZYZ:
		m = []float64{
			c1*c2*c3 - s1*s3, -c3*s1 - c1*c2*s3, c1 * s2,
			c1*s3 + c2*c3*s1, c1*c3 - c2*s1*s3, s1 * s2,
			-c3 * s2, s2 * s3, c2,
		}
	case OrderZXZ:
		m = []float64{
			c1*c3 - c2*s1*s3, -c1*s3 - c2*c3*s1, s1 * s2,
			c3*s1 + c1*c2*s3, c1*c2*c3 - s1*s3, -c1 * s2,
			s2 * s3, c3 * s2, c2,
		}
	case OrderXYZ:
		m = []float64{
			c2 * c3, -c2 * s3, s2,
			c1*s3 + c3*s1*s2, c1*c3 - s1*s2*s3, -c2 * s1,
			s1*s3 - c1*c3*s2, c3*s1 + c1*s2*s3, c1 * c2,
		}
	case OrderXZY:
		m = []float64{
			c2 * c3, -s2, c2 * s3,
			s1*s3 + c1*c3*s2, c1 * c2, c1*s2*s3 - c3*s1,
			c3*s1*s2 - c1*s3, c2 * s1, c1*c3 + s1*s2*s3,
		}
	case OrderYXZ:
		m = []float64{
			c1*c3 + s1*s2*s3, c3*s1*s2 - c1*s3, c2 * s1,
			c2 * s3, c2 * c3, -s2,
			c1*s2*s3 - c3*s1, c1*c3*s2 + s1*s3, c1 * c2,
		}
	case OrderYZX:
		m = []float64{
			c1 * c2, s1*s3 - c1*c3*s2, c3*s1 + c1*s2*s3,
			s2, c2 * c3, -c2 * s3,
			-c2 * s1, c1*s3 + c3*s1*s2, c1*c3 - s1*s2*s3,
		}
	case OrderZYX:
		m = []float64{
			c1 * c2, c1*s2*s3 - c3*s1, s1*s3 + c1*c3*s2,
			c2 * s1, c1*c3 + s1*s2*s3, c3*s1*s2 - c1*s3,
			-s2, c2 * s3, c2 * c3,
		}
	case OrderZXY:
		m = []float64{
			c1*c3 - s1*s2*s3, -c2 * s1, c1*s3 + c3*s1*s2,
			c3*s1 + c1*s2*s3, c1 * c2, s1*s3 - c1*c3*s2,
			-c2 * s3, s2, c2 * c3,
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAxisOrder, string(order))
	}
	return mat.NewDense(3, 3, m), nil
}

// Frames holds the rotated basis vectors of each attitude sample.
type Frames struct {
	X []r3.Vec
	Y []r3.Vec
	Z []r3.Vec
}

// Len returns the number of samples.
func (f *Frames) Len() int { return len(f.X) }

var basis = [3]r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}

// Rotate applies the rotation of every (roll, pitch, yaw) sample to the
// canonical basis vectors.
func Rotate(roll, pitch, yaw []float64, order AxisOrder, unit Unit) (*Frames, error) {
	if len(roll) != len(pitch) || len(roll) != len(yaw) {
		return nil, fmt.Errorf("angle sequences differ in length: %d, %d, %d", len(roll), len(pitch), len(yaw))
	}

	n := len(roll)
	frames := &Frames{
		X: make([]r3.Vec, n),
		Y: make([]r3.Vec, n),
		Z: make([]r3.Vec, n),
	}
	out := []*[]r3.Vec{&frames.X, &frames.Y, &frames.Z}

	var rotated mat.VecDense
	for i := 0; i < n; i++ {
		rot, err := RotationMatrix(roll[i], pitch[i], yaw[i], order, unit)
		if err != nil {
			return nil, err
		}
		for axis, b := range basis {
			rotated.MulVec(rot, mat.NewVecDense(3, []float64{b.X, b.Y, b.Z}))
			(*out[axis])[i] = r3.Vec{X: rotated.AtVec(0), Y: rotated.AtVec(1), Z: rotated.AtVec(2)}
		}
	}
	return frames, nil
}

// EulerFromQuaternion converts a unit quaternion to roll, pitch and yaw in
// radians. At pitch = ±pi/2 roll and yaw collapse into one degree of
// freedom and only their combination is meaningful.
func EulerFromQuaternion(x, y, z, w float64) (roll, pitch, yaw float64) {
	t0 := 2.0 * (w*x + y*z)
	t1 := 1.0 - 2.0*(x*x+y*y)
	roll = math.Atan2(t0, t1)

	// Clamp floating-point overshoot at the gimbal-lock boundary.
	t2 := math.Max(-1.0, math.Min(1.0, 2.0*(w*y-z*x)))
	pitch = math.Asin(t2)

	t3 := 2.0 * (w*z + x*y)
	t4 := 1.0 - 2.0*(y*y+z*z)
	yaw = math.Atan2(t3, t4)
	return roll, pitch, yaw
}

// EulersFromQuaternions converts quaternion component sequences.
func EulersFromQuaternions(xs, ys, zs, ws []float64) (roll, pitch, yaw []float64, err error) {
	n := len(xs)
	if len(ys) != n || len(zs) != n || len(ws) != n {
		return nil, nil, nil, fmt.Errorf("quaternion components differ in length: %d, %d, %d, %d", len(xs), len(ys), len(zs), len(ws))
	}
	roll, pitch, yaw = make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		roll[i], pitch[i], yaw[i] = EulerFromQuaternion(xs[i], ys[i], zs[i], ws[i])
	}
	return roll, pitch, yaw, nil
}

// RestoreIdentity adds 1 to every scalar part. Attitude dumps store the
// quaternion's deviation from the identity rotation.
func RestoreIdentity(w []float64) []float64 {
	out := make([]float64, len(w))
	for i, v := range w {
		out[i] = v + 1
	}
	return out
}
