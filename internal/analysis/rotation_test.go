package analysis_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/user/dd_analyzer_go/internal/analysis"
)

func TestRotationMatrix_Orthonormal(t *testing.T) {
	angles := [][3]float64{
		{0, 0, 0},
		{17, -33, 71},
		{90, 45, -120},
		{-179, 89.9, 3},
	}
	identity := mat.NewDiagDense(3, []float64{1, 1, 1})

	for _, order := range analysis.AxisOrders {
		for _, a := range angles {
			r, err := analysis.RotationMatrix(a[0], a[1], a[2], order, analysis.Degrees)
			require.NoError(t, err)

			var rtr mat.Dense
			rtr.Mul(r.T(), r)
			require.True(t, mat.EqualApprox(&rtr, identity, 1e-12), "order %s angles %v", order, a)
			require.InDelta(t, 1.0, mat.Det(r), 1e-12, "order %s angles %v", order, a)
		}
	}
}

func TestRotationMatrix_Units(t *testing.T) {
	deg, err := analysis.RotationMatrix(30, 60, 90, analysis.OrderZYX, analysis.Degrees)
	require.NoError(t, err)
	rad, err := analysis.RotationMatrix(math.Pi/6, math.Pi/3, math.Pi/2, analysis.OrderZYX, analysis.Radians)
	require.NoError(t, err)
	require.True(t, mat.EqualApprox(deg, rad, 1e-12))
}

func TestRotationMatrix_ElementaryAxis(t *testing.T) {
	// A single rotation about z by 90 degrees maps x onto y.
	r, err := analysis.RotationMatrix(90, 0, 0, analysis.OrderZYX, analysis.Degrees)
	require.NoError(t, err)
	require.InDelta(t, 0.0, r.At(0, 0), 1e-12)
	require.InDelta(t, 1.0, r.At(1, 0), 1e-12)
}

func TestRotationMatrix_UnknownOrder(t *testing.T) {
	_, err := analysis.RotationMatrix(0, 0, 0, "xxy", analysis.Degrees)
	require.ErrorIs(t, err, analysis.ErrUnknownAxisOrder)

	_, err = analysis.ParseAxisOrder("abc")
	require.ErrorIs(t, err, analysis.ErrUnknownAxisOrder)

	order, err := analysis.ParseAxisOrder(" ZYX ")
	require.NoError(t, err)
	require.Equal(t, analysis.OrderZYX, order)
}

func TestParseUnit(t *testing.T) {
	u, err := analysis.ParseUnit("deg")
	require.NoError(t, err)
	require.Equal(t, analysis.Degrees, u)
	u, err = analysis.ParseUnit("Radians")
	require.NoError(t, err)
	require.Equal(t, analysis.Radians, u)
	_, err = analysis.ParseUnit("km")
	require.Error(t, err)
}

func TestRotate(t *testing.T) {
	frames, err := analysis.Rotate([]float64{0, 90}, []float64{0, 0}, []float64{0, 0}, analysis.OrderZYX, analysis.Degrees)
	require.NoError(t, err)
	require.Equal(t, 2, frames.Len())

	// Identity sample keeps the basis.
	require.InDelta(t, 1.0, frames.X[0].X, 1e-12)
	require.InDelta(t, 1.0, frames.Y[0].Y, 1e-12)
	require.InDelta(t, 1.0, frames.Z[0].Z, 1e-12)

	// 90 degrees about z: x -> y, y -> -x, z stays.
	requireVec(t, r3.Vec{Y: 1}, frames.X[1])
	requireVec(t, r3.Vec{X: -1}, frames.Y[1])
	requireVec(t, r3.Vec{Z: 1}, frames.Z[1])

	for i := 0; i < frames.Len(); i++ {
		require.InDelta(t, 0.0, r3.Dot(frames.X[i], frames.Y[i]), 1e-12)
		require.InDelta(t, 1.0, r3.Norm(frames.Z[i]), 1e-12)
	}
}

func TestRotate_LengthMismatch(t *testing.T) {
	_, err := analysis.Rotate([]float64{0}, []float64{0, 1}, []float64{0}, analysis.OrderZYX, analysis.Degrees)
	require.Error(t, err)
}

func requireVec(t *testing.T, want, got r3.Vec) {
	t.Helper()
	require.InDelta(t, want.X, got.X, 1e-12)
	require.InDelta(t, want.Y, got.Y, 1e-12)
	require.InDelta(t, want.Z, got.Z, 1e-12)
}

// quaternionFromEuler is the standard roll/pitch/yaw (zyx) construction.
func quaternionFromEuler(roll, pitch, yaw float64) (x, y, z, w float64) {
	sr, cr := math.Sincos(roll / 2)
	sp, cp := math.Sincos(pitch / 2)
	sy, cy := math.Sincos(yaw / 2)
	x = sr*cp*cy - cr*sp*sy
	y = cr*sp*cy + sr*cp*sy
	z = cr*cp*sy - sr*sp*cy
	w = cr*cp*cy + sr*sp*sy
	return x, y, z, w
}

func TestEulerFromQuaternion_RoundTrip(t *testing.T) {
	cases := [][3]float64{
		{0, 0, 0},
		{0.1, -0.2, 0.3},
		{1.2, 0.7, -2.5},
		{-3.0, -1.4, 3.0},
	}
	for _, c := range cases {
		x, y, z, w := quaternionFromEuler(c[0], c[1], c[2])
		roll, pitch, yaw := analysis.EulerFromQuaternion(x, y, z, w)
		require.InDelta(t, c[0], roll, 1e-9)
		require.InDelta(t, c[1], pitch, 1e-9)
		require.InDelta(t, c[2], yaw, 1e-9)
	}
}

func TestEulerFromQuaternion_GimbalLock(t *testing.T) {
	// At pitch = pi/2 only roll - yaw is observable, so only pitch is checked
	// exactly; the clamp keeps asin from returning NaN on overshoot.
	x, y, z, w := quaternionFromEuler(0.4, math.Pi/2, 0.1)
	_, pitch, _ := analysis.EulerFromQuaternion(x, y, z, w)
	require.False(t, math.IsNaN(pitch))
	require.InDelta(t, math.Pi/2, pitch, 1e-6)

	// Slightly denormalized quaternion pushes the asin argument past 1.
	_, pitch, _ = analysis.EulerFromQuaternion(0, 0.7072, 0, 0.7072)
	require.Equal(t, math.Pi/2, pitch)
}

func TestEulersFromQuaternions(t *testing.T) {
	roll, pitch, yaw, err := analysis.EulersFromQuaternions([]float64{0}, []float64{0}, []float64{0}, []float64{1})
	require.NoError(t, err)
	require.Equal(t, []float64{0}, roll)
	require.Equal(t, []float64{0}, pitch)
	require.Equal(t, []float64{0}, yaw)

	_, _, _, err = analysis.EulersFromQuaternions([]float64{0}, nil, []float64{0}, []float64{1})
	require.Error(t, err)
}

func TestRestoreIdentity(t *testing.T) {
	require.Equal(t, []float64{1, 0.5}, analysis.RestoreIdentity([]float64{0, -0.5}))
}
