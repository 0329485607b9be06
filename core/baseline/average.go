package baseline

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/model"
)

// Average returns the arithmetic mean usage of readings. The sum is
// accumulated in decimal so the result does not depend on summation order.
func Average(readings []model.Reading) (float64, error) {
	if len(readings) == 0 {
		return 0, ErrNoData
	}
	sum := decimal.Zero
	for _, r := range readings {
		sum = sum.Add(decimal.NewFromFloat(r.Usage))
	}
	mean, _ := sum.Div(decimal.NewFromInt(int64(len(readings)))).Float64()
	return mean, nil
}

// Summary describes the readings a baseline was computed from.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes Average plus the spread of readings.
func Summarize(readings []model.Reading) (Summary, error) {
	mean, err := Average(readings)
	if err != nil {
		return Summary{}, err
	}
	values := model.Usages(readings)
	sum := Summary{
		Count: len(values),
		Mean:  mean,
		Min:   floats.Min(values),
		Max:   floats.Max(values),
	}
	if len(values) > 1 {
		sum.StdDev = stat.StdDev(values, nil)
	}
	return sum, nil
}
