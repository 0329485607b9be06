// Package baseline estimates the always-on load of a site from 15-minute
// interval readings.
//
// Readings fetched from a provider are cleaned by PickItems, folded through an
// ordered list of Filter stages and reduced to a mean by Average. The default
// stages keep the quietest reading of each local day, restrict those to the
// overnight sleep window and finally keep the longest run whose max/min usage
// ratio stays under Settings.ConsistencyRatio.
//
// Stages never mutate their input. A Calculator snapshots its stage list at the
// start of each calculation, so SetFilters may be called concurrently with
// Calculate.
package baseline
