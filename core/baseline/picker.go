package baseline

import "github.com/songpengyi/enertalk-alwayson-calculator/core/model"

// PickItems returns the readings of resp with every zero-usage entry removed.
// Order is preserved and resp is left untouched.
func PickItems(resp *model.UsageResponse) ([]model.Reading, error) {
	if resp == nil || resp.Items == nil {
		return nil, ErrMalformedResponse
	}
	out := make([]model.Reading, 0, len(resp.Items))
	for _, r := range resp.Items {
		if r.Usage == 0 {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
